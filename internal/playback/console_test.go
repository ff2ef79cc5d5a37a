package playback

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 0, false)

	c.Line("CQ CQ", "-.-. --.- / -.-. --.-")
	c.Stopping()

	want := "Text: CQ CQ\nMorse: -.-. --.- / -.-. --.-\n\nStopping Morse code playback.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestConsoleWrap(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 20, false)

	c.Line("the quick brown fox jumps", "-")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("Expected wrapped text, got %q", buf.String())
	}
	for _, l := range lines[:len(lines)-1] {
		if len(l) > 20 {
			t.Errorf("Line %q is wider than 20 columns", l)
		}
	}
	if !strings.HasPrefix(lines[1], "      ") {
		t.Errorf("Continuation should be indented under the label, got %q", lines[1])
	}
}

func TestNilConsole(t *testing.T) {
	var c *Console
	c.Line("a", ".-")
	c.Stopping()
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
		done  bool
	}{
		{StateIdle, "idle", false},
		{StateStreaming, "streaming", false},
		{StateStopped, "stopped", true},
		{StateInterrupted, "interrupted", true},
		{StateFailed, "failed", true},
		{State(42), "unknown", false},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
		if tt.state.Done() != tt.done {
			t.Errorf("State(%d).Done() = %v", tt.state, !tt.done)
		}
	}
}
