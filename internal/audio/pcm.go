package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// PCMFormat describes the raw sample stream handed to a sink.
type PCMFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
	IsFloat    bool
}

// DefaultPCMFormat is mono float32 little endian at 44.1 kHz, the format
// aplay is asked for with -f FLOAT_LE.
func DefaultPCMFormat() PCMFormat {
	return PCMFormat{
		SampleRate: DefaultSampleRate,
		Channels:   1,
		BitDepth:   32,
		IsFloat:    true,
	}
}

// BytesPerFrame returns the size of one sample across all channels.
func (f PCMFormat) BytesPerFrame() int {
	return f.BitDepth / 8 * f.Channels
}

// Validate checks that f is a float32 stream with a usable rate.
func (f PCMFormat) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, f.SampleRate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", f.Channels)
	}
	if !f.IsFloat || f.BitDepth != 32 {
		return fmt.Errorf("%w: only 32-bit float samples are supported", ErrInvalidAudioFormat)
	}
	return nil
}

// Duration returns how long dataLen bytes of f play for.
func (f PCMFormat) Duration(dataLen int) time.Duration {
	if f.SampleRate == 0 || f.BytesPerFrame() == 0 {
		return 0
	}
	frames := dataLen / f.BytesPerFrame()
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// EncodeFloat32LE serialises samples as little endian IEEE-754 float32
// with no header.
func EncodeFloat32LE(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}

// DecodeFloat32LE is the inverse of EncodeFloat32LE.
func DecodeFloat32LE(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("PCM data length %d is not aligned to 4-byte samples", len(data))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}

// ValidatePCMData checks that data holds whole frames of f. Empty data is
// valid: a line of unmapped characters renders to no samples.
func ValidatePCMData(data []byte, f PCMFormat) error {
	if n := f.BytesPerFrame(); n == 0 || len(data)%n != 0 {
		return fmt.Errorf("PCM data length %d is not aligned to %d-byte frames", len(data), n)
	}
	return nil
}

// float32ToInt16 clamps s to [-1, 1] and scales it to 16 bits.
func float32ToInt16(s float32) int {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int(math.Round(float64(s) * math.MaxInt16))
}
