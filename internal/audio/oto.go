package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

const (
	defaultOtoBuffer = 100 * time.Millisecond
	drainPoll        = 10 * time.Millisecond
	drainTimeout     = time.Minute
)

// OtoSink plays PCM in-process through oto/v3. Writes feed a pipe read by a
// single persistent oto player, so they block until the player has pulled
// the data into its buffer.
//
// oto allows one context per process, so only one OtoSink may be opened.
type OtoSink struct {
	// OTO context - initialized once per process
	context *oto.Context
	player  *oto.Player

	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter

	format PCMFormat

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// OpenOto creates the oto context for format and starts a streaming player.
// It waits for the device to become ready or for ctx to end.
func OpenOto(ctx context.Context, format PCMFormat, buffer time.Duration) (*OtoSink, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if buffer <= 0 {
		buffer = defaultOtoBuffer
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	}
	octx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s := &OtoSink{context: octx, format: format}
	s.pipeReader, s.pipeWriter = io.Pipe()
	s.player = octx.NewPlayer(s.pipeReader)
	s.player.Play()

	log.Debug("oto output initialized", "rate", format.SampleRate, "channels", format.Channels, "buffer", buffer)
	return s, nil
}

// Write hands p to the player, blocking until it has been read.
func (s *OtoSink) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrSinkClosed
	}
	n, err := s.pipeWriter.Write(p)
	if err != nil {
		return n, fmt.Errorf("pipe write failed: %w", err)
	}
	if err := s.context.Err(); err != nil {
		return n, fmt.Errorf("oto context failed: %w", err)
	}
	return n, nil
}

// Flush is a no-op: Write only returns once the player holds the data.
func (s *OtoSink) Flush() error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	return nil
}

// Close ends the stream and waits until the player has played out its
// buffer before releasing it.
func (s *OtoSink) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		_ = s.pipeWriter.Close()

		deadline := time.Now().Add(drainTimeout)
		for s.player.IsPlaying() && time.Now().Before(deadline) {
			time.Sleep(drainPoll)
		}
		if s.player.IsPlaying() {
			log.Warn("oto player still playing after drain timeout", "timeout", drainTimeout)
		}

		if err := s.player.Close(); err != nil {
			s.closeErr = fmt.Errorf("closing oto player: %w", err)
		}
		_ = s.pipeReader.Close()

		// oto.Context has no Close in v3; suspending releases the device.
		if err := s.context.Suspend(); err != nil && s.closeErr == nil {
			s.closeErr = fmt.Errorf("suspending oto context: %w", err)
		}
	})
	return s.closeErr
}
