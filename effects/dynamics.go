package effects

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/opd-ai/eightbit/pcm"
)

// normalizeSilence is the peak below which a buffer counts as silence.
const normalizeSilence = 1e-4

// normalizer scales a buffer so its peak magnitude equals targetPeak.
// Samples are scaled block-wise through a scratch buffer allocated once at
// construction, so buffers larger than the frame capacity still work
// without allocating.
type normalizer struct {
	scratch []float64
}

func newNormalizer(ctx Context) Unit {
	return &normalizer{scratch: make([]float64, ctx.frameCapacity())}
}

func (*normalizer) Validate(params []float64) error {
	_, err := unitParam(params, 0, "targetPeak")
	return err
}

func (nz *normalizer) Process(buf []uint16, n int, params []float64) (int, error) {
	target, err := unitParam(params, 0, "targetPeak")
	if err != nil {
		return n, err
	}

	peak := 0.0
	for i := 0; i < n; i++ {
		if a := math.Abs(pcm.Decode(buf[i])); a > peak {
			peak = a
		}
	}
	if peak < normalizeSilence {
		return n, nil
	}

	gain := target / peak
	for start := 0; start < n; start += len(nz.scratch) {
		end := min(start+len(nz.scratch), n)
		block := nz.scratch[:end-start]
		for i := range block {
			block[i] = pcm.Decode(buf[start+i])
		}
		vecmath.ScaleBlock(block, block, gain)
		for i, v := range block {
			buf[start+i] = pcm.Encode(v)
		}
	}
	return n, nil
}

func (*normalizer) Reset() {}

// compressor reduces the magnitude above threshold by ratio. There is no
// knee: samples at or below the threshold pass unchanged.
type compressor struct{}

func newCompressor(Context) Unit { return compressor{} }

func (compressor) parse(params []float64) (threshold, ratio float64, err error) {
	threshold, err = unitParam(params, 0, "threshold")
	if err != nil {
		return 0, 0, err
	}
	ratio, err = rangeParam(params, 1, "ratio", 1, math.MaxFloat64)
	if err != nil {
		return 0, 0, err
	}
	return threshold, ratio, nil
}

func (c compressor) Validate(params []float64) error {
	_, _, err := c.parse(params)
	return err
}

func (c compressor) Process(buf []uint16, n int, params []float64) (int, error) {
	threshold, ratio, err := c.parse(params)
	if err != nil {
		return n, err
	}

	for i := 0; i < n; i++ {
		x := pcm.Decode(buf[i])
		mag := math.Abs(x)
		if mag <= threshold {
			continue
		}
		buf[i] = pcm.Encode(math.Copysign(threshold+(mag-threshold)/ratio, x))
	}
	return n, nil
}

func (compressor) Reset() {}
