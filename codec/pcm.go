package codec

import (
	"encoding/binary"
	"fmt"
)

// PCM passes 16-bit little-endian samples through unchanged.
type PCM struct{}

// NewPCM creates a PCM passthrough codec.
func NewPCM() *PCM {
	return &PCM{}
}

// Decode copies the samples in packet into dst.
func (*PCM) Decode(packet []byte, dst []uint16) (int, error) {
	if len(packet)%2 != 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrOddLength, len(packet))
	}
	n := len(packet) / 2
	if n > len(dst) {
		return 0, fmt.Errorf("%w: %d samples (capacity %d)", ErrCapacity, n, len(dst))
	}
	for i := 0; i < n; i++ {
		dst[i] = binary.LittleEndian.Uint16(packet[i*2:])
	}
	return n, nil
}

// Encode serializes src as little-endian samples.
func (*PCM) Encode(src []uint16) ([]byte, error) {
	data := make([]byte, len(src)*2)
	for i, s := range src {
		binary.LittleEndian.PutUint16(data[i*2:], s)
	}
	return data, nil
}
