package source

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

type scanResult struct {
	line string
	err  error
}

// Reader emits the lines of an io.Reader. Scanning runs in its own
// goroutine so a blocked read (an idle terminal, a quiet pipe) never keeps
// Next from noticing cancellation.
type Reader struct {
	closer io.Closer

	results chan scanResult
	stop    chan struct{}
	once    sync.Once
	done    bool
}

// NewReader returns a source over r. r is not closed by Close.
func NewReader(r io.Reader) *Reader {
	return newReader(r, nil)
}

func newReader(r io.Reader, closer io.Closer) *Reader {
	rd := &Reader{
		closer:  closer,
		results: make(chan scanResult),
		stop:    make(chan struct{}),
	}
	go rd.scan(r)
	return rd
}

func (rd *Reader) scan(r io.Reader) {
	defer close(rd.results)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		select {
		case rd.results <- scanResult{line: strings.TrimSuffix(sc.Text(), "\r")}:
		case <-rd.stop:
			return
		}
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case rd.results <- scanResult{err: err}:
	case <-rd.stop:
	}
}

func (rd *Reader) Next(ctx context.Context) (string, error) {
	if rd.done {
		return "", io.EOF
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-rd.results:
		if !ok {
			rd.done = true
			return "", io.EOF
		}
		if res.err != nil {
			rd.done = true
		}
		return res.line, res.err
	}
}

// Close stops the scanner and closes the underlying input if this source
// opened it.
func (rd *Reader) Close() error {
	var err error
	rd.once.Do(func() {
		close(rd.stop)
		if rd.closer != nil {
			err = rd.closer.Close()
		}
	})
	return err
}
