package pcm

import "math"

const (
	// Scale is the divisor that maps a signed sample onto [-1.0, 1.0).
	Scale = 32768.0

	// MaxSigned is the largest signed sample value.
	MaxSigned = math.MaxInt16
	// MinSigned is the smallest signed sample value.
	MinSigned = math.MinInt16

	signBit  = 0x8000
	wrapSpan = 0x10000
)

// Signed interprets a wire sample as a two's-complement signed value.
func Signed(s uint16) int32 {
	if s&signBit != 0 {
		return int32(s) - wrapSpan
	}
	return int32(s)
}

// FromSigned stores a signed value in a wire sample. Values outside the
// signed 16-bit range saturate.
func FromSigned(v int32) uint16 {
	v = saturate(v)
	if v < 0 {
		return uint16(v + wrapSpan)
	}
	return uint16(v)
}

// saturate clamps v to the signed 16-bit range.
func saturate(v int32) int32 {
	if v > MaxSigned {
		return MaxSigned
	}
	if v < MinSigned {
		return MinSigned
	}
	return v
}

// Decode converts a wire sample to an amplitude in [-1.0, 1.0).
func Decode(s uint16) float64 {
	return float64(Signed(s)) / Scale
}

// Encode converts an amplitude back to a wire sample. The amplitude is
// clamped to [-1.0, 1.0] first, so no input magnitude can overflow. NaN
// encodes as silence.
func Encode(amp float64) uint16 {
	if math.IsNaN(amp) {
		return 0
	}
	amp = Clamp(amp, -1.0, 1.0)
	// Truncation toward zero; exact for every decoded sample.
	v := int32(amp * Scale)
	return FromSigned(v)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
