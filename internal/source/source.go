package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mitchellh/go-homedir"
)

// Source kinds accepted by New.
const (
	KindSimulated = "simulated"
	KindStdin     = "stdin"
	KindFile      = "file"
	KindFollow    = "follow"
	KindMarkdown  = "markdown"
	KindClipboard = "clipboard"
	KindArgs      = "args"
)

// ErrUnknownSource is returned by New for kinds it does not know.
var ErrUnknownSource = errors.New("unknown text source")

// Source produces lines of text. Next blocks until a line is available and
// returns io.EOF once the source is exhausted. When ctx ends first it
// returns ctx.Err().
type Source interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// Options configures New.
type Options struct {
	// Path is the input for the file, follow and markdown kinds. "-" means
	// stdin.
	Path string

	// Delay is the pause between simulated lines.
	Delay time.Duration

	// FromStart makes follow emit the existing content before tailing.
	FromStart bool

	// Args are the words of the args kind, joined into a single line.
	Args []string
}

// New builds the source of the given kind.
func New(kind string, opts Options) (Source, error) {
	switch kind {
	case "", KindSimulated:
		return NewSimulated(opts.Delay), nil
	case KindStdin:
		return NewReader(os.Stdin), nil
	case KindFile:
		return Open(opts.Path)
	case KindFollow:
		path, err := expand(opts.Path)
		if err != nil {
			return nil, err
		}
		return nonNil(NewFollow(path, opts.FromStart))
	case KindMarkdown:
		rc, err := openInput(opts.Path)
		if err != nil {
			return nil, err
		}
		defer rc.Close() //nolint:errcheck
		return nonNil(ReadMarkdown(rc))
	case KindClipboard:
		return nonNil(NewClipboard())
	case KindArgs:
		return NewLines(strings.Join(opts.Args, " ")), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

// Open returns a line source for path. Markdown files are reduced to their
// text, and .gz and .zst files are decompressed on the fly.
func Open(path string) (Source, error) {
	rc, err := openInput(path)
	if err != nil {
		return nil, err
	}
	if IsMarkdownFile(strings.TrimSuffix(strings.TrimSuffix(path, ".gz"), ".zst")) {
		defer rc.Close() //nolint:errcheck
		return nonNil(ReadMarkdown(rc))
	}
	return newReader(rc, rc), nil
}

// nonNil keeps a failed constructor from yielding a typed nil Source.
func nonNil[S Source](s S, err error) (Source, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IsMarkdownFile reports whether path has a Markdown extension.
func IsMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}

func expand(path string) (string, error) {
	if path == "" {
		return "", errors.New("no input path given")
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("unable to expand path %q: %w", path, err)
	}
	return p, nil
}

// openInput opens path, or stdin for "-", unwrapping compression by
// extension.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	path, err := expand(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("unable to read gzip stream: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("unable to read zstd stream: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), f}}, nil
	default:
		return f, nil
	}
}

// stackedCloser closes a decompressor and the file beneath it.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
