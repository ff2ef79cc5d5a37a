package audio

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// RawSink writes the headerless float32 stream to a writer, for piping into
// another player or saving for later.
type RawSink struct {
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// NewRawSink wraps w. Closing the sink flushes but does not close w.
func NewRawSink(w io.Writer, _ PCMFormat) *RawSink {
	return &RawSink{w: bufio.NewWriter(w)}
}

// CreateRaw creates path for raw output.
func CreateRaw(path string, format PCMFormat) (*RawSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	s := NewRawSink(f, format)
	s.closer = f
	return s, nil
}

func (s *RawSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrSinkClosed
	}
	return s.w.Write(p)
}

func (s *RawSink) Flush() error {
	if s.closed {
		return ErrSinkClosed
	}
	return s.w.Flush()
}

func (s *RawSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
