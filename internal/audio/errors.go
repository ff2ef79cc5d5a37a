package audio

import "errors"

var (
	// ErrSinkClosed is returned for writes after a sink was closed.
	ErrSinkClosed = errors.New("audio sink is closed")

	// ErrUnknownSink is returned by NewOpener for sink kinds it does not know.
	ErrUnknownSink = errors.New("unknown audio sink")

	ErrInvalidSampleRate  = errors.New("invalid sample rate")
	ErrInvalidAudioFormat = errors.New("invalid audio format")
)
