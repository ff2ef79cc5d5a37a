package audio

import (
	"fmt"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavBitDepth is the sample size written to WAV files. 16-bit PCM plays
// everywhere; float WAV does not.
const wavBitDepth = 16

// WAVSink records the float32 stream into a 16-bit PCM WAV file instead of
// playing it.
type WAVSink struct {
	file    *os.File
	encoder *wav.Encoder
	format  PCMFormat

	// pending holds a trailing partial sample between writes.
	pending []byte

	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// CreateWAV creates path and writes a WAV header for format.
func CreateWAV(path string, format PCMFormat) (*WAVSink, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	// 1 is the WAVE_FORMAT_PCM format tag.
	enc := wav.NewEncoder(f, format.SampleRate, wavBitDepth, format.Channels, 1)
	return &WAVSink{file: f, encoder: enc, format: format}, nil
}

// Write converts p to 16-bit samples and appends them to the file.
func (s *WAVSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrSinkClosed
	}

	data := append(s.pending, p...)
	whole := len(data) - len(data)%4
	s.pending = append(s.pending[:0:0], data[whole:]...)

	samples, err := DecodeFloat32LE(data[:whole])
	if err != nil {
		return 0, err
	}
	ints := make([]int, len(samples))
	for i, v := range samples {
		ints[i] = float32ToInt16(v)
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: s.format.Channels,
			SampleRate:  s.format.SampleRate,
		},
		Data:           ints,
		SourceBitDepth: wavBitDepth,
	}
	if err := s.encoder.Write(buf); err != nil {
		return 0, fmt.Errorf("failed to write WAV samples: %w", err)
	}
	return len(p), nil
}

// Flush is a no-op; the encoder writes through to the file.
func (s *WAVSink) Flush() error {
	if s.closed {
		return ErrSinkClosed
	}
	return nil
}

// Close finalises the WAV header and closes the file.
func (s *WAVSink) Close() error {
	s.closeOnce.Do(func() {
		s.closed = true
		if err := s.encoder.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to finalise WAV file: %w", err)
		}
		if err := s.file.Close(); err != nil && s.closeErr == nil {
			s.closeErr = fmt.Errorf("failed to close output file: %w", err)
		}
	})
	return s.closeErr
}
