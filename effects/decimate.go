package effects

import "math"

// decimator drops every sample whose index is a multiple of rate and
// compacts the survivors to the front. The write cursor never passes the
// read cursor, so compaction needs no scratch buffer and the output always
// fits. For n samples the survivor count is n - ceil(n/rate).
type decimator struct{}

func newDecimator(Context) Unit { return decimator{} }

func (decimator) parse(params []float64) (int, error) {
	return countParam(params, 0, "rate", 1, math.MaxInt32)
}

func (d decimator) Validate(params []float64) error {
	_, err := d.parse(params)
	return err
}

func (d decimator) Process(buf []uint16, n int, params []float64) (int, error) {
	rate, err := d.parse(params)
	if err != nil {
		return n, err
	}

	out := 0
	for i := 0; i < n; i++ {
		if i%rate == 0 {
			continue
		}
		buf[out] = buf[i]
		out++
	}
	return out, nil
}

func (decimator) Reset() {}
