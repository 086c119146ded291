package effects

import (
	"math"

	"github.com/opd-ai/eightbit/pcm"
)

// distortion hard-clips amplitudes to ±threshold.
type distortion struct{}

func newDistortion(Context) Unit { return distortion{} }

func (distortion) Validate(params []float64) error {
	_, err := unitParam(params, 0, "threshold")
	return err
}

func (distortion) Process(buf []uint16, n int, params []float64) (int, error) {
	threshold, err := unitParam(params, 0, "threshold")
	if err != nil {
		return n, err
	}

	for i := 0; i < n; i++ {
		x := pcm.Decode(buf[i])
		if math.Abs(x) <= threshold {
			continue
		}
		buf[i] = pcm.Encode(math.Copysign(threshold, x))
	}
	return n, nil
}

func (distortion) Reset() {}

// waveShaper applies y = x*(1+intensity*|x|) and clips to ±1.
type waveShaper struct{}

func newWaveShaper(Context) Unit { return waveShaper{} }

func (waveShaper) Validate(params []float64) error {
	_, err := unitParam(params, 0, "intensity")
	return err
}

func (waveShaper) Process(buf []uint16, n int, params []float64) (int, error) {
	intensity, err := unitParam(params, 0, "intensity")
	if err != nil {
		return n, err
	}

	for i := 0; i < n; i++ {
		x := pcm.Decode(buf[i])
		buf[i] = pcm.Encode(x * (1 + intensity*math.Abs(x)))
	}
	return n, nil
}

func (waveShaper) Reset() {}
