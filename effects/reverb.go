package effects

import "github.com/opd-ai/eightbit/pcm"

const (
	reverbNumCombs     = 4
	reverbNumAllpasses = 2

	// reverbMaxBase is the longest base comb length, 50 ms at 48 kHz,
	// reached at roomSize 1.
	reverbMaxBase = 2400
	// reverbMinLength keeps comb lines from degenerating at tiny rooms.
	reverbMinLength = 10

	reverbAllpassFeedback = 0.5
)

// Line lengths relative to the base length, in thousandths. The comb ratios
// are mutually prime-ish to spread the resonances.
var (
	reverbCombRatios    = [reverbNumCombs]int{1000, 1117, 1271, 1437}
	reverbAllpassRatios = [reverbNumAllpasses]int{347, 213}
)

type reverbLine struct {
	buffer []float64
	length int
	index  int
}

func newReverbLine(capacity int) reverbLine {
	return reverbLine{buffer: make([]float64, capacity), length: capacity}
}

func (l *reverbLine) resize(length int) {
	clear(l.buffer)
	l.length = length
	l.index = 0
}

func (l *reverbLine) advance() {
	l.index++
	if l.index >= l.length {
		l.index = 0
	}
}

// comb is a feedback delay line.
func (l *reverbLine) comb(input, feedback float64) float64 {
	output := l.buffer[l.index]
	l.buffer[l.index] = input + output*feedback
	l.advance()
	return output
}

// allpass is a Schroeder all-pass section.
func (l *reverbLine) allpass(input float64) float64 {
	bufOut := l.buffer[l.index]
	output := bufOut - input
	l.buffer[l.index] = input + bufOut*reverbAllpassFeedback
	l.advance()
	return output
}

// reverb runs four parallel combs, averages them, diffuses the sum through
// two all-pass stages and mixes the result with the dry input.
//
// The comb feedback is 0.5+decay*0.4, at most 0.9, so silence in gives
// silence out once the lines drain. Lines are allocated at their longest
// length up front; a room size change resizes them in place and clears them.
type reverb struct {
	combs   [reverbNumCombs]reverbLine
	allpass [reverbNumAllpasses]reverbLine

	roomSize   float64
	configured bool
}

func newReverb(Context) Unit {
	r := &reverb{}
	for i, ratio := range reverbCombRatios {
		r.combs[i] = newReverbLine(reverbMaxBase * ratio / 1000)
	}
	for i, ratio := range reverbAllpassRatios {
		r.allpass[i] = newReverbLine(reverbMaxBase * ratio / 1000)
	}
	return r
}

func (*reverb) parse(params []float64) (roomSize, decay, wet float64, err error) {
	if roomSize, err = unitParam(params, 0, "roomSize"); err != nil {
		return 0, 0, 0, err
	}
	if decay, err = unitParam(params, 1, "decay"); err != nil {
		return 0, 0, 0, err
	}
	if wet, err = unitParam(params, 2, "wetDry"); err != nil {
		return 0, 0, 0, err
	}
	return roomSize, decay, wet, nil
}

func (r *reverb) Validate(params []float64) error {
	_, _, _, err := r.parse(params)
	return err
}

// reverbLengths returns the comb and all-pass lengths for a room size.
func reverbLengths(roomSize float64) (combs [reverbNumCombs]int, allpasses [reverbNumAllpasses]int) {
	base := max(int(roomSize*reverbMaxBase), reverbMinLength)
	for i, ratio := range reverbCombRatios {
		combs[i] = max(base*ratio/1000, reverbMinLength)
	}
	for i, ratio := range reverbAllpassRatios {
		allpasses[i] = max(base*ratio/1000, 1)
	}
	return combs, allpasses
}

func (r *reverb) configure(roomSize float64) {
	if r.configured && roomSize == r.roomSize {
		return
	}
	combs, allpasses := reverbLengths(roomSize)
	for i := range r.combs {
		r.combs[i].resize(combs[i])
	}
	for i := range r.allpass {
		r.allpass[i].resize(allpasses[i])
	}
	r.roomSize = roomSize
	r.configured = true
}

func (r *reverb) Process(buf []uint16, n int, params []float64) (int, error) {
	roomSize, decay, wet, err := r.parse(params)
	if err != nil {
		return n, err
	}
	r.configure(roomSize)

	feedback := 0.5 + decay*0.4
	for i := 0; i < n; i++ {
		x := pcm.Decode(buf[i])

		var acc float64
		for c := range r.combs {
			acc += r.combs[c].comb(x, feedback)
		}
		acc /= reverbNumCombs
		for a := range r.allpass {
			acc = r.allpass[a].allpass(acc)
		}

		buf[i] = pcm.Encode(x*(1-wet) + acc*wet)
	}
	return n, nil
}

func (r *reverb) Reset() {
	for i := range r.combs {
		r.combs[i].resize(r.combs[i].length)
	}
	for i := range r.allpass {
		r.allpass[i].resize(r.allpass[i].length)
	}
}
