package source

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// NewClipboard returns a source over the lines currently on the system
// clipboard.
func NewClipboard() (*Lines, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("clipboard is not supported on this system")
	}
	content, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read clipboard: %w", err)
	}
	return NewLines(strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")...), nil
}
