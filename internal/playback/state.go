package playback

// State is the lifecycle of a Player.
type State int

const (
	// StateIdle is a player that has not run yet.
	StateIdle State = iota
	// StateStreaming is a player writing lines to its sink.
	StateStreaming
	// StateStopped is a player whose source ran out.
	StateStopped
	// StateInterrupted is a player whose context was cancelled.
	StateInterrupted
	// StateFailed is a player that hit a sink or source error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateStopped:
		return "stopped"
	case StateInterrupted:
		return "interrupted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Done reports whether s is terminal.
func (s State) Done() bool {
	return s == StateStopped || s == StateInterrupted || s == StateFailed
}
