package gesture

import "errors"

var (
	// ErrBadHand indicates a hand without exactly 21 three-component landmarks.
	ErrBadHand = errors.New("gesture: malformed hand")

	// ErrNoFrames indicates a recording with nothing to replay.
	ErrNoFrames = errors.New("gesture: recording has no frames")

	// ErrSourceUnavailable indicates the landmark source could not be opened.
	ErrSourceUnavailable = errors.New("gesture: source unavailable")
)
