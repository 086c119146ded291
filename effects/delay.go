package effects

import "github.com/opd-ai/eightbit/pcm"

// DelayCapacity is the fixed length of every delay line, one second at
// 48 kHz. delaySamples may not exceed it.
const DelayCapacity = 48000

// delay mixes each input 50/50 with the line value written delaySamples
// earlier and writes the input plus the attenuated delayed value back.
// The line and its cursor persist between buffers.
type delay struct {
	line   []float64
	cursor int
}

func newDelay(Context) Unit {
	return &delay{line: make([]float64, DelayCapacity)}
}

func (d *delay) parse(params []float64) (samples int, feedback float64, err error) {
	samples, err = countParam(params, 0, "delaySamples", 1, len(d.line))
	if err != nil {
		return 0, 0, err
	}
	feedback, err = unitParam(params, 1, "feedback")
	if err != nil {
		return 0, 0, err
	}
	return samples, feedback, nil
}

func (d *delay) Validate(params []float64) error {
	_, _, err := d.parse(params)
	return err
}

func (d *delay) Process(buf []uint16, n int, params []float64) (int, error) {
	samples, feedback, err := d.parse(params)
	if err != nil {
		return n, err
	}

	size := len(d.line)
	for i := 0; i < n; i++ {
		x := pcm.Decode(buf[i])

		read := d.cursor - samples
		if read < 0 {
			read += size
		}
		delayed := d.line[read]

		buf[i] = pcm.Encode(0.5*x + 0.5*delayed)
		d.line[d.cursor] = pcm.Clamp(x+delayed*feedback, -1, 1)

		d.cursor++
		if d.cursor >= size {
			d.cursor = 0
		}
	}
	return n, nil
}

func (d *delay) Reset() {
	clear(d.line)
	d.cursor = 0
}
