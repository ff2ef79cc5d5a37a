package audio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// AplaySink streams PCM into the stdin of an external aplay process.
type AplaySink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	w      *bufio.Writer
	stderr bytes.Buffer

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// AplayArgs returns the aplay arguments for playing format on device. The
// channel count is left at aplay's default of one.
func AplayArgs(device string, format PCMFormat) []string {
	var args []string
	if device != "" {
		args = append(args, "-D", device)
	}
	return append(args, "-f", "FLOAT_LE", "-r", strconv.Itoa(format.SampleRate))
}

// OpenAplay starts aplay and returns a sink writing to its stdin.
//
// The process is not tied to a context and runs in its own process group,
// so an interrupt delivered to the terminal does not cut off audio that has
// already been written; Close waits for it to drain.
func OpenAplay(command, device string, format PCMFormat) (*AplaySink, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if command == "" {
		command = "aplay"
	}

	s := &AplaySink{}
	s.cmd = exec.Command(command, AplayArgs(device, format)...) //nolint:gosec
	s.cmd.Stderr = &s.stderr
	detach(s.cmd)

	// Set up stdin before the process starts.
	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command, err)
	}
	s.stdin = stdin
	s.w = bufio.NewWriterSize(stdin, 64*1024)

	log.Debug("aplay started", "pid", s.cmd.Process.Pid, "args", strings.Join(s.cmd.Args, " "))
	return s, nil
}

// Write buffers p for the aplay process.
func (s *AplaySink) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrSinkClosed
	}
	n, err := s.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to aplay: %w", err)
	}
	return n, nil
}

// Flush pushes buffered bytes into the pipe, blocking until aplay has
// accepted them.
func (s *AplaySink) Flush() error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("writing to aplay: %w", err)
	}
	return nil
}

// Close flushes, closes aplay's stdin and waits for the process to exit.
func (s *AplaySink) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		flushErr := s.w.Flush()
		closeErr := s.stdin.Close()
		waitErr := s.cmd.Wait()

		// stderr is only safe to read once Wait has returned.
		switch {
		case waitErr != nil:
			s.closeErr = s.wrap(waitErr)
		case flushErr != nil:
			s.closeErr = s.wrap(flushErr)
		case closeErr != nil && !errors.Is(closeErr, os.ErrClosed):
			s.closeErr = fmt.Errorf("closing aplay stdin: %w", closeErr)
		}
		log.Debug("aplay exited", "error", s.closeErr)
	})
	return s.closeErr
}

func (s *AplaySink) wrap(err error) error {
	if msg := strings.TrimSpace(s.stderr.String()); msg != "" {
		return fmt.Errorf("aplay failed: %w\nstderr: %s", err, msg)
	}
	return fmt.Errorf("aplay failed: %w", err)
}
