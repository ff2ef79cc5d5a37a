package playback

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#89F0CB"}).
			Bold(true)
	textStyle   = lipgloss.NewStyle()
	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"})
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
			Italic(true)
)

// Console prints what is being played. A nil *Console prints nothing.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	width  int
	styled bool
}

// NewConsole returns a console writing to w. Lines are wrapped at width
// when it is positive. styled enables colors; pass false when w is not a
// terminal.
func NewConsole(w io.Writer, width int, styled bool) *Console {
	return &Console{w: w, width: width, styled: styled}
}

// Line prints the text of a line and its symbols.
func (c *Console) Line(text, symbols string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintln(c.w, c.field("Text: ", text, textStyle))
	_, _ = fmt.Fprintln(c.w, c.field("Morse: ", symbols, symbolStyle))
}

// Stopping announces an interrupted session.
func (c *Console) Stopping() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := "Stopping Morse code playback."
	if c.styled {
		msg = noticeStyle.Render(msg)
	}
	_, _ = fmt.Fprintln(c.w, "\n"+msg)
}

func (c *Console) field(label, value string, style lipgloss.Style) string {
	if c.width > len(label) {
		value = wordwrap.String(value, c.width-len(label))
		value = strings.ReplaceAll(value, "\n", "\n"+strings.Repeat(" ", len(label)))
	}
	if !c.styled {
		return label + value
	}
	return labelStyle.Render(label) + style.Render(value)
}
