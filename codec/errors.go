package codec

import "errors"

// Sentinel errors for codec operations.
var (
	// ErrEmptyPacket indicates a packet with no payload.
	ErrEmptyPacket = errors.New("empty packet")

	// ErrOddLength indicates a PCM payload that is not a whole number of samples.
	ErrOddLength = errors.New("pcm payload has odd length")

	// ErrCapacity indicates a packet that decodes to more samples than fit.
	ErrCapacity = errors.New("decoded samples exceed destination capacity")
)
