package audio

import "errors"

var (
	// ErrNoInputChannel indicates the chosen device cannot capture audio.
	ErrNoInputChannel = errors.New("audio: no input channel")

	// ErrNoLoopback indicates no system-audio capture device was found.
	ErrNoLoopback = errors.New("audio: no loopback device")

	// ErrDeviceUnavailable wraps failures opening or starting a stream.
	ErrDeviceUnavailable = errors.New("audio: device unavailable")

	// ErrUnknownSource is returned by ParseSourceKind.
	ErrUnknownSource = errors.New("audio: unknown source")
)
