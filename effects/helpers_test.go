package effects

import (
	"testing"

	"github.com/opd-ai/eightbit/pcm"
	"github.com/stretchr/testify/require"
)

// wire builds a wire buffer from signed sample values.
func wire(values ...int32) []uint16 {
	buf := make([]uint16, len(values))
	for i, v := range values {
		buf[i] = pcm.FromSigned(v)
	}
	return buf
}

// signed reads a wire buffer back as signed values.
func signed(buf []uint16) []int32 {
	out := make([]int32, len(buf))
	for i, s := range buf {
		out[i] = pcm.Signed(s)
	}
	return out
}

// newUnit builds a unit of kind from the default registry.
func newUnit(t *testing.T, kind Kind) Unit {
	t.Helper()
	u, err := NewDefaultRegistry().New(kind, Context{})
	require.NoError(t, err)
	return u
}
