package morse

import "errors"

var (
	// ErrInvalidWPM is returned when a words-per-minute value is not a
	// positive, finite number.
	ErrInvalidWPM = errors.New("words per minute must be a positive number")

	// ErrUnknownTable is returned by TableByName for names it does not know.
	ErrUnknownTable = errors.New("unknown code table")
)
