package effects

import (
	"math"

	"github.com/opd-ai/eightbit/pcm"
)

const (
	maxBitDepthQuant = 32768.0
	maxBitDepthGain  = 4.0
)

// bitDepthReducer quantizes signed samples to multiples of quant and then
// applies gain. It works on the signed integer value of each sample and
// saturates on the way back, never on the raw unsigned container.
type bitDepthReducer struct{}

func newBitDepthReducer(Context) Unit { return bitDepthReducer{} }

func (bitDepthReducer) parse(params []float64) (quant, gain float64, err error) {
	quant, err = rangeParam(params, 0, "quant", 0, maxBitDepthQuant)
	if err != nil {
		return 0, 0, err
	}
	if quant == 0 {
		return 0, 0, errZeroQuant
	}
	gain, err = rangeParam(params, 1, "gain", 0, maxBitDepthGain)
	if err != nil {
		return 0, 0, err
	}
	return quant, gain, nil
}

func (b bitDepthReducer) Validate(params []float64) error {
	_, _, err := b.parse(params)
	return err
}

func (b bitDepthReducer) Process(buf []uint16, n int, params []float64) (int, error) {
	quant, gain, err := b.parse(params)
	if err != nil {
		return n, err
	}

	for i := 0; i < n; i++ {
		s := float64(pcm.Signed(buf[i]))
		// Small quant steps overflow int32, so truncate in float64.
		steps := math.Trunc(s / quant)
		v := pcm.Clamp(steps*quant*gain, pcm.MinSigned, pcm.MaxSigned)
		buf[i] = pcm.FromSigned(int32(v))
	}
	return n, nil
}

func (bitDepthReducer) Reset() {}
