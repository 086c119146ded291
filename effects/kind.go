package effects

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies an effect. The set of kinds is closed.
type Kind uint8

const (
	// KindNone passes samples through untouched.
	KindNone Kind = iota
	// KindBitDepth quantizes samples to a coarser step and applies gain.
	KindBitDepth
	// KindDecimate drops every sample whose index is a multiple of the rate.
	KindDecimate
	// KindLowPass is a one-pole low-pass filter.
	KindLowPass
	// KindHighPass is a one-pole high-pass differencer.
	KindHighPass
	// KindNormalize scales the buffer so its peak hits a target.
	KindNormalize
	// KindCompress applies hard-ratio compression above a threshold.
	KindCompress
	// KindDelay mixes in a delayed copy with feedback.
	KindDelay
	// KindDistort hard-clips to a threshold.
	KindDistort
	// KindWaveShape applies a soft polynomial nonlinearity.
	KindWaveShape
	// KindReverb is a four-comb, two-allpass reverb.
	KindReverb

	kindCount
)

var kindNames = [kindCount]string{
	KindNone:      "none",
	KindBitDepth:  "bit-depth",
	KindDecimate:  "decimate",
	KindLowPass:   "low-pass",
	KindHighPass:  "high-pass",
	KindNormalize: "normalize",
	KindCompress:  "compress",
	KindDelay:     "delay",
	KindDistort:   "distort",
	KindWaveShape: "wave-shape",
	KindReverb:    "reverb",
}

// Kinds returns every effect kind in identifier order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Valid reports whether k belongs to the enumeration.
func (k Kind) Valid() bool {
	return k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind resolves a kind by name. Matching is case-insensitive and
// accepts underscores in place of dashes.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for k, n := range kindNames {
		if n == normalized {
			return Kind(k), nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrNoSuchEffect, name)
}

// Effect describes one chain stage: a kind and its positional parameters.
type Effect struct {
	Kind   Kind
	Params []float64
}

// NewEffect builds a descriptor. The parameters are copied.
func NewEffect(kind Kind, params ...float64) Effect {
	return Effect{Kind: kind, Params: append([]float64(nil), params...)}
}

func (e Effect) String() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return fmt.Sprintf("%s(%s)", e.Kind, strings.Join(parts, ", "))
}

// ParseEffect parses the "kind:p0,p1,..." form used on the command line,
// e.g. "bit-depth:350,1.2" or "none".
func ParseEffect(s string) (Effect, error) {
	name, args, _ := strings.Cut(s, ":")
	kind, err := ParseKind(name)
	if err != nil {
		return Effect{}, err
	}

	e := Effect{Kind: kind}
	if strings.TrimSpace(args) == "" {
		return e, nil
	}
	for i, field := range strings.Split(args, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Effect{}, fmt.Errorf("%w: %s parameter %d %q", ErrDomain, kind, i, field)
		}
		e.Params = append(e.Params, v)
	}
	return e, nil
}
