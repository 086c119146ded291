package listener

import "errors"

// Sentinel errors for listener store operations.
var (
	// ErrListenerExists indicates a join for an id that is already present.
	ErrListenerExists = errors.New("listener already joined")

	// ErrListenerNotFound indicates an id that has not joined or has left.
	ErrListenerNotFound = errors.New("listener not found")

	// ErrNoCodec indicates a transcode request for a listener without a codec.
	ErrNoCodec = errors.New("listener has no codec")
)
