package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Follow tails a file like tail -f, emitting each complete line appended to
// it. It runs until ctx ends or the file is removed or renamed.
type Follow struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	watcher *fsnotify.Watcher
	offset  int64
	partial strings.Builder
}

// NewFollow opens path and starts watching it. Unless fromStart is set,
// only lines written after this call are emitted.
func NewFollow(path string, fromStart bool) (*Follow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}

	var offset int64
	if !fromStart {
		if offset, err = f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("unable to seek: %w", err)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error creating fsnotify watcher: %w", err)
	}
	// Watch the directory; editors and log rotation replace files.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		_ = f.Close()
		return nil, fmt.Errorf("error adding dir to fsnotify watcher: %w", err)
	}
	log.Debug("following file", "path", path, "offset", offset)

	return &Follow{
		path:    filepath.Clean(path),
		file:    f,
		reader:  bufio.NewReader(f),
		watcher: w,
		offset:  offset,
	}, nil
}

func (s *Follow) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := s.reader.ReadString('\n')
		s.offset += int64(len(line))
		if err == nil {
			s.partial.WriteString(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
			out := s.partial.String()
			s.partial.Reset()
			return out, nil
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading %s: %w", s.path, err)
		}
		s.partial.WriteString(line)

		if err := s.wait(ctx); err != nil {
			return "", err
		}
	}
}

// wait blocks until the file changes. It returns io.EOF when the file goes
// away.
func (s *Follow) wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-s.watcher.Events:
			if !ok {
				return io.EOF
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				log.Debug("followed file went away", "path", s.path, "op", event.Op)
				return io.EOF
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				return s.checkTruncated()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return io.EOF
			}
			return fmt.Errorf("watching %s: %w", s.path, err)
		}
	}
}

// checkTruncated rewinds when the file shrank under us.
func (s *Follow) checkTruncated() error {
	fi, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("unable to stat file: %w", err)
	}
	if fi.Size() >= s.offset {
		return nil
	}
	log.Debug("followed file truncated", "path", s.path, "size", fi.Size(), "offset", s.offset)
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("unable to seek: %w", err)
	}
	s.offset = 0
	s.partial.Reset()
	s.reader.Reset(s.file)
	return nil
}

func (s *Follow) Close() error {
	return errors.Join(s.watcher.Close(), s.file.Close())
}
