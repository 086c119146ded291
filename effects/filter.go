package effects

import "github.com/opd-ai/eightbit/pcm"

// lowPass is a one-pole IIR: y[n] = y[n-1] + c*(x[n]-y[n-1]).
// The first sample ever seen seeds the history and passes unfiltered.
// History carries over between buffers.
type lowPass struct {
	prevY  float64
	seeded bool
}

func newLowPass(Context) Unit { return &lowPass{} }

func (*lowPass) Validate(params []float64) error {
	_, err := unitParam(params, 0, "coefficient")
	return err
}

func (f *lowPass) Process(buf []uint16, n int, params []float64) (int, error) {
	c, err := unitParam(params, 0, "coefficient")
	if err != nil {
		return n, err
	}

	for i := 0; i < n; i++ {
		x := pcm.Decode(buf[i])
		if !f.seeded {
			f.prevY = x
			f.seeded = true
			continue
		}
		f.prevY += c * (x - f.prevY)
		buf[i] = pcm.Encode(f.prevY)
	}
	return n, nil
}

func (f *lowPass) Reset() {
	f.prevY = 0
	f.seeded = false
}

// highPass is a one-pole differencer: y[n] = c*(y[n-1]+x[n]-x[n-1]).
// Seeding follows the low-pass rule.
type highPass struct {
	prevX  float64
	prevY  float64
	seeded bool
}

func newHighPass(Context) Unit { return &highPass{} }

func (*highPass) Validate(params []float64) error {
	_, err := unitParam(params, 0, "coefficient")
	return err
}

func (f *highPass) Process(buf []uint16, n int, params []float64) (int, error) {
	c, err := unitParam(params, 0, "coefficient")
	if err != nil {
		return n, err
	}

	for i := 0; i < n; i++ {
		x := pcm.Decode(buf[i])
		if !f.seeded {
			f.prevX, f.prevY = x, x
			f.seeded = true
			continue
		}
		y := c * (f.prevY + x - f.prevX)
		f.prevX, f.prevY = x, y
		buf[i] = pcm.Encode(y)
	}
	return n, nil
}

func (f *highPass) Reset() {
	f.prevX, f.prevY = 0, 0
	f.seeded = false
}
