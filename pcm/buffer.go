package pcm

import (
	"errors"
	"fmt"
)

// ErrCapacity is returned when a sample count does not fit a buffer.
var ErrCapacity = errors.New("sample count exceeds buffer capacity")

// Buffer is a fixed-capacity run of wire samples with a live sample count.
//
// The backing slice is allocated once; Reset and SetLen only move the count,
// so a Buffer can be reused for every frame of a stream.
type Buffer struct {
	samples []uint16
	n       int
}

// NewBuffer allocates a buffer able to hold capacity samples.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{samples: make([]uint16, capacity)}
}

// Len returns the live sample count.
func (b *Buffer) Len() int { return b.n }

// SetLen updates the live sample count.
func (b *Buffer) SetLen(n int) error {
	if n < 0 || n > len(b.samples) {
		return fmt.Errorf("%w: %d (capacity %d)", ErrCapacity, n, len(b.samples))
	}
	b.n = n
	return nil
}

// Reset drops all live samples.
func (b *Buffer) Reset() { b.n = 0 }

// Raw exposes the whole backing slice, including samples past Len.
func (b *Buffer) Raw() []uint16 { return b.samples }

// Samples returns the live samples.
func (b *Buffer) Samples() []uint16 { return b.samples[:b.n] }
