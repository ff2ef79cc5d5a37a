package audio

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultPCMFormat(t *testing.T) {
	f := DefaultPCMFormat()
	if f.SampleRate != 44100 || f.Channels != 1 || f.BitDepth != 32 || !f.IsFloat {
		t.Errorf("unexpected default format %+v", f)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("default format is invalid: %v", err)
	}
	if f.BytesPerFrame() != 4 {
		t.Errorf("bytes per frame = %d", f.BytesPerFrame())
	}
}

func TestPCMFormatValidate(t *testing.T) {
	tests := []struct {
		name      string
		format    PCMFormat
		expectErr bool
		wantErr   error
	}{
		{name: "valid stereo", format: PCMFormat{SampleRate: 48000, Channels: 2, BitDepth: 32, IsFloat: true}},
		{name: "zero rate", format: PCMFormat{Channels: 1, BitDepth: 32, IsFloat: true}, expectErr: true, wantErr: ErrInvalidSampleRate},
		{name: "int16", format: PCMFormat{SampleRate: 44100, Channels: 1, BitDepth: 16}, expectErr: true, wantErr: ErrInvalidAudioFormat},
		{name: "three channels", format: PCMFormat{SampleRate: 44100, Channels: 3, BitDepth: 32, IsFloat: true}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if tt.expectErr && err == nil {
				t.Fatal("Validate() expected error but got none")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeFloat32LE(t *testing.T) {
	got := EncodeFloat32LE([]float32{1, -0.5})
	want := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xbf}
	if string(got) != string(want) {
		t.Errorf("encoded = % x, want % x", got, want)
	}

	back, err := DecodeFloat32LE(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back[0] != 1 || back[1] != -0.5 {
		t.Errorf("decoded = %v", back)
	}
}

func TestDecodeFloat32LEMisaligned(t *testing.T) {
	if _, err := DecodeFloat32LE(make([]byte, 7)); err == nil {
		t.Error("expected error for misaligned data")
	}
}

func TestPCMDuration(t *testing.T) {
	f := DefaultPCMFormat()
	if d := f.Duration(44100 * 4); d != time.Second {
		t.Errorf("duration = %v, want 1s", d)
	}
	if d := (PCMFormat{}).Duration(100); d != 0 {
		t.Errorf("zero format duration = %v", d)
	}
}

func TestValidatePCMData(t *testing.T) {
	f := DefaultPCMFormat()
	if err := ValidatePCMData(nil, f); err != nil {
		t.Errorf("empty data should be valid: %v", err)
	}
	if err := ValidatePCMData(make([]byte, 6), f); err == nil {
		t.Error("expected error for partial frame")
	}
	if err := ValidatePCMData(make([]byte, 8), f); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePCMData(make([]byte, 8), PCMFormat{}); err == nil {
		t.Error("expected error for a format without frames")
	}
}

func TestFloat32ToInt16(t *testing.T) {
	tests := []struct {
		in   float32
		want int
	}{
		{in: 0, want: 0},
		{in: 1, want: math.MaxInt16},
		{in: -1, want: -math.MaxInt16},
		{in: 2, want: math.MaxInt16},
		{in: 0.5, want: 16384},
	}
	for _, tt := range tests {
		if got := float32ToInt16(tt.in); got != tt.want {
			t.Errorf("float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
