package source

import (
	"context"
	"io"
	"slices"
)

// Lines emits a fixed list of lines.
type Lines struct {
	lines []string
	pos   int
}

// NewLines returns a source over lines.
func NewLines(lines ...string) *Lines {
	return &Lines{lines: slices.Clone(lines)}
}

func (l *Lines) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.pos >= len(l.lines) {
		return "", io.EOF
	}
	line := l.lines[l.pos]
	l.pos++
	return line, nil
}

func (l *Lines) Close() error { return nil }
