package effects

import (
	"fmt"
	"math"
)

// param returns the finite value at pos.
func param(params []float64, pos int, name string) (float64, error) {
	if pos >= len(params) {
		return 0, fmt.Errorf("%w: missing parameter %d (%s)", ErrDomain, pos, name)
	}
	v := params[pos]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be finite: %v", ErrDomain, name, v)
	}
	return v, nil
}

// rangeParam returns the value at pos, which must lie in [lo, hi].
func rangeParam(params []float64, pos int, name string, lo, hi float64) (float64, error) {
	v, err := param(params, pos, name)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s must be in [%g, %g]: %g", ErrDomain, name, lo, hi, v)
	}
	return v, nil
}

// unitParam returns a normalized value in [0, 1].
func unitParam(params []float64, pos int, name string) (float64, error) {
	return rangeParam(params, pos, name, 0, 1)
}

// countParam returns an integral value in [lo, hi].
func countParam(params []float64, pos int, name string, lo, hi int) (int, error) {
	v, err := rangeParam(params, pos, name, float64(lo), float64(hi))
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s must be a whole number: %g", ErrDomain, name, v)
	}
	return int(v), nil
}

var errZeroQuant = fmt.Errorf("%w: quant must be non-zero", ErrDomain)
