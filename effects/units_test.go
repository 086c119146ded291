package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/opd-ai/eightbit/pcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitDepthReducer_Process(t *testing.T) {
	tests := []struct {
		name   string
		params []float64
		input  []int32
		want   []int32
	}{
		{
			name:   "unity gain quantizes toward zero",
			params: []float64{1000, 1},
			input:  []int32{1500, -1500, 999, 32767},
			want:   []int32{1000, -1000, 0, 32000},
		},
		{
			name:   "gain applied after quantization",
			params: []float64{1000, 2},
			input:  []int32{1500, -2500},
			want:   []int32{2000, -4000},
		},
		{
			name:   "saturates instead of wrapping",
			params: []float64{1, 4},
			input:  []int32{20000, -20000},
			want:   []int32{32767, -32768},
		},
		{
			name:   "original defaults",
			params: []float64{350, 1.2},
			input:  []int32{700, -1049},
			want:   []int32{840, -840},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t, KindBitDepth)
			buf := wire(tt.input...)
			n, err := u.Process(buf, len(buf), tt.params)
			require.NoError(t, err)
			assert.Equal(t, len(buf), n)
			assert.Equal(t, tt.want, signed(buf))
		})
	}
}

func TestBitDepthReducer_TinyQuant(t *testing.T) {
	tests := []struct {
		name  string
		quant float64
	}{
		{name: "below int32 step range", quant: 1e-5},
		{name: "far below one sample", quant: 1e-300},
		{name: "fraction of a sample", quant: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := []int32{30000, -30000, 1000}
			buf := wire(input...)
			n, err := newUnit(t, KindBitDepth).Process(buf, len(buf), []float64{tt.quant, 1})
			require.NoError(t, err)
			assert.Equal(t, 3, n)
			for i, v := range signed(buf) {
				assert.InDelta(t, input[i], v, 1, "sample %d keeps its sign and magnitude", i)
			}
		})
	}
}

func TestBitDepthReducer_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		params []float64
	}{
		{name: "zero quant", params: []float64{0, 1}},
		{name: "negative quant", params: []float64{-5, 1}},
		{name: "missing gain", params: []float64{100}},
		{name: "no parameters", params: nil},
		{name: "gain too high", params: []float64{100, 10}},
		{name: "nan quant", params: []float64{math.NaN(), 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t, KindBitDepth)
			buf := wire(1234, -1234)
			n, err := u.Process(buf, len(buf), tt.params)
			assert.ErrorIs(t, err, ErrDomain)
			assert.Equal(t, 2, n)
			assert.Equal(t, []int32{1234, -1234}, signed(buf), "buffer must be untouched")
		})
	}
}

func TestDecimator_ConstantBuffer(t *testing.T) {
	buf := make([]uint16, 8)
	for i := range buf {
		buf[i] = 40000
	}

	n, err := newUnit(t, KindDecimate).Process(buf, len(buf), []float64{2})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	assert.Equal(t, []uint16{40000, 40000, 40000, 40000}, buf[:n])
}

func TestDecimator_Counts(t *testing.T) {
	tests := []struct {
		name string
		n    int
		rate float64
		want []uint16
	}{
		{name: "rate 2 even", n: 8, rate: 2, want: []uint16{1, 3, 5, 7}},
		{name: "rate 2 odd", n: 7, rate: 2, want: []uint16{1, 3, 5}},
		{name: "rate 3", n: 10, rate: 3, want: []uint16{1, 2, 4, 5, 7, 8}},
		{name: "rate above count drops only first", n: 4, rate: 10, want: []uint16{1, 2, 3}},
		{name: "rate 1 drops everything", n: 5, rate: 1, want: []uint16{}},
		{name: "empty buffer", n: 0, rate: 2, want: []uint16{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]uint16, tt.n)
			for i := range buf {
				buf[i] = uint16(i)
			}
			n, err := newUnit(t, KindDecimate).Process(buf, tt.n, []float64{tt.rate})
			require.NoError(t, err)
			rate := int(tt.rate)
			assert.Equal(t, tt.n-(tt.n+rate-1)/rate, n)
			assert.Equal(t, tt.want, buf[:n])
		})
	}
}

func TestDecimator_DomainErrors(t *testing.T) {
	for _, rate := range []float64{0, -2, 1.5, math.Inf(1)} {
		buf := []uint16{1, 2, 3, 4}
		n, err := newUnit(t, KindDecimate).Process(buf, 4, []float64{rate})
		assert.ErrorIs(t, err, ErrDomain, "rate %v", rate)
		assert.Equal(t, 4, n)
		assert.Equal(t, []uint16{1, 2, 3, 4}, buf)
	}
}

func TestLowPass(t *testing.T) {
	t.Run("first sample seeds history", func(t *testing.T) {
		buf := wire(0, 16384)
		_, err := newUnit(t, KindLowPass).Process(buf, 2, []float64{0.5})
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 8192}, signed(buf))
	})

	t.Run("coefficient one passes through", func(t *testing.T) {
		buf := wire(100, -2000, 30000)
		_, err := newUnit(t, KindLowPass).Process(buf, 3, []float64{1})
		require.NoError(t, err)
		assert.Equal(t, []int32{100, -2000, 30000}, signed(buf))
	})

	t.Run("history persists across buffers", func(t *testing.T) {
		u := newUnit(t, KindLowPass)
		first := wire(1000)
		_, err := u.Process(first, 1, []float64{0})
		require.NoError(t, err)

		second := wire(5000, 7000)
		_, err = u.Process(second, 2, []float64{0})
		require.NoError(t, err)
		assert.Equal(t, []int32{1000, 1000}, signed(second))
	})

	t.Run("reset reseeds", func(t *testing.T) {
		u := newUnit(t, KindLowPass)
		_, err := u.Process(wire(1000), 1, []float64{0})
		require.NoError(t, err)
		u.Reset()

		buf := wire(3000, 9000)
		_, err = u.Process(buf, 2, []float64{0})
		require.NoError(t, err)
		assert.Equal(t, []int32{3000, 3000}, signed(buf))
	})

	t.Run("coefficient out of range", func(t *testing.T) {
		buf := wire(1, 2)
		_, err := newUnit(t, KindLowPass).Process(buf, 2, []float64{1.5})
		assert.ErrorIs(t, err, ErrDomain)
	})
}

func TestHighPass(t *testing.T) {
	t.Run("dc input decays", func(t *testing.T) {
		buf := wire(16384, 16384, 16384)
		_, err := newUnit(t, KindHighPass).Process(buf, 3, []float64{0.5})
		require.NoError(t, err)
		assert.Equal(t, []int32{16384, 8192, 4096}, signed(buf))
	})

	t.Run("history persists across buffers", func(t *testing.T) {
		u := newUnit(t, KindHighPass)
		_, err := u.Process(wire(16384), 1, []float64{0.5})
		require.NoError(t, err)

		buf := wire(16384)
		_, err = u.Process(buf, 1, []float64{0.5})
		require.NoError(t, err)
		assert.Equal(t, []int32{8192}, signed(buf))
	})

	t.Run("missing coefficient", func(t *testing.T) {
		_, err := newUnit(t, KindHighPass).Process(wire(1), 1, nil)
		assert.ErrorIs(t, err, ErrDomain)
	})
}

func TestNormalizer(t *testing.T) {
	t.Run("scales peak to target", func(t *testing.T) {
		buf := wire(8192, -16384, 4096)
		_, err := newUnit(t, KindNormalize).Process(buf, 3, []float64{1})
		require.NoError(t, err)
		assert.Equal(t, []int32{16384, -32768, 8192}, signed(buf))
	})

	t.Run("target equal to peak is identity", func(t *testing.T) {
		input := []int32{1200, -9000, 12345, 77}
		buf := wire(input...)
		peak := float64(12345) / pcm.Scale
		_, err := newUnit(t, KindNormalize).Process(buf, len(buf), []float64{peak})
		require.NoError(t, err)
		for i, v := range signed(buf) {
			assert.InDelta(t, input[i], v, 1)
		}
	})

	t.Run("silence is left alone", func(t *testing.T) {
		buf := wire(0, 1, -1, 0)
		_, err := newUnit(t, KindNormalize).Process(buf, 4, []float64{1})
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 1, -1, 0}, signed(buf))
	})

	t.Run("buffer larger than scratch", func(t *testing.T) {
		u, err := NewDefaultRegistry().New(KindNormalize, Context{FrameCapacity: 2})
		require.NoError(t, err)
		buf := wire(1000, 2000, -4096, 3000, 500)
		_, err = u.Process(buf, len(buf), []float64{0.25})
		require.NoError(t, err)
		assert.Equal(t, []int32{2000, 4000, -8192, 6000, 1000}, signed(buf))
	})

	t.Run("target out of range", func(t *testing.T) {
		_, err := newUnit(t, KindNormalize).Process(wire(100), 1, []float64{1.5})
		assert.ErrorIs(t, err, ErrDomain)
	})
}

func TestCompressor(t *testing.T) {
	buf := wire(24576, -24576, 8192, 16384)
	_, err := newUnit(t, KindCompress).Process(buf, 4, []float64{0.5, 2})
	require.NoError(t, err)
	assert.Equal(t, []int32{20480, -20480, 8192, 16384}, signed(buf))

	_, err = newUnit(t, KindCompress).Process(wire(1), 1, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, ErrDomain, "ratio below one")

	_, err = newUnit(t, KindCompress).Process(wire(1), 1, []float64{0.5})
	assert.ErrorIs(t, err, ErrDomain, "missing ratio")
}

func TestDelay(t *testing.T) {
	t.Run("cold start mixes with an empty line", func(t *testing.T) {
		const d = 4
		buf := wire(16384, 100, 200, 300, 16384, 0)
		_, err := newUnit(t, KindDelay).Process(buf, len(buf), []float64{d, 0})
		require.NoError(t, err)
		out := signed(buf)
		assert.Equal(t, []int32{8192, 50, 100, 150}, out[:d], "samples before D mix 50/50 with silence")
		assert.Equal(t, int32(16384), out[d], "sample at D mixes with the input D samples earlier")
		assert.Equal(t, int32(50), out[d+1])
	})

	t.Run("silent lead-in leaves only the current sample at D", func(t *testing.T) {
		const d = 3
		buf := wire(0, 0, 0, 20000)
		_, err := newUnit(t, KindDelay).Process(buf, len(buf), []float64{d, 0})
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 0, 0, 10000}, signed(buf))
	})

	t.Run("constant input", func(t *testing.T) {
		buf := make([]uint16, 8)
		for i := range buf {
			buf[i] = pcm.FromSigned(16384)
		}
		_, err := newUnit(t, KindDelay).Process(buf, 8, []float64{4, 0})
		require.NoError(t, err)
		assert.Equal(t, []int32{8192, 8192, 8192, 8192, 16384, 16384, 16384, 16384}, signed(buf))
	})

	t.Run("line persists across buffers", func(t *testing.T) {
		u := newUnit(t, KindDelay)
		first := wire(16384, 16384, 16384, 16384)
		_, err := u.Process(first, 4, []float64{4, 0})
		require.NoError(t, err)

		second := wire(0, 0, 0, 0)
		_, err = u.Process(second, 4, []float64{4, 0})
		require.NoError(t, err)
		assert.Equal(t, []int32{8192, 8192, 8192, 8192}, signed(second))
	})

	t.Run("feedback repeats attenuated", func(t *testing.T) {
		buf := wire(16384, 0, 0, 0, 0, 0)
		_, err := newUnit(t, KindDelay).Process(buf, 6, []float64{2, 0.5})
		require.NoError(t, err)
		assert.Equal(t, []int32{8192, 0, 8192, 0, 4096, 0}, signed(buf))
	})

	t.Run("full capacity delay", func(t *testing.T) {
		u := newUnit(t, KindDelay)
		assert.NoError(t, u.Validate([]float64{DelayCapacity, 0.2}))
	})

	t.Run("domain errors", func(t *testing.T) {
		u := newUnit(t, KindDelay)
		assert.ErrorIs(t, u.Validate([]float64{DelayCapacity + 1, 0}), ErrDomain)
		assert.ErrorIs(t, u.Validate([]float64{0, 0}), ErrDomain)
		assert.ErrorIs(t, u.Validate([]float64{10.5, 0}), ErrDomain)
		assert.ErrorIs(t, u.Validate([]float64{10, 1.1}), ErrDomain)
		assert.ErrorIs(t, u.Validate([]float64{10}), ErrDomain)
	})
}

func TestDistortion_BoundsOutput(t *testing.T) {
	for _, threshold := range []float64{0, 0.1, 0.3, 0.75, 1} {
		buf := make([]uint16, 0, 9400)
		for s := 0; s <= math.MaxUint16; s += 7 {
			buf = append(buf, uint16(s))
		}
		_, err := newUnit(t, KindDistort).Process(buf, len(buf), []float64{threshold})
		require.NoError(t, err)
		for i, s := range buf {
			if a := math.Abs(pcm.Decode(s)); a > threshold+1.0/pcm.Scale {
				t.Fatalf("threshold %v: sample %d amplitude %v", threshold, i, a)
			}
		}
	}

	_, err := newUnit(t, KindDistort).Process(wire(1), 1, []float64{1.2})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestWaveShaper(t *testing.T) {
	buf := wire(16384, -16384, 29491, 1000)
	_, err := newUnit(t, KindWaveShape).Process(buf, 4, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []int32{24576, -24576, 32767}, signed(buf)[:3])

	identity := wire(16384, -3, 32767, -32768)
	_, err = newUnit(t, KindWaveShape).Process(identity, 4, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, []int32{16384, -3, 32767, -32768}, signed(identity))

	_, err = newUnit(t, KindWaveShape).Process(wire(1), 1, []float64{-0.1})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestReverb_SilenceStaysSilent(t *testing.T) {
	for _, decay := range []float64{0, 0.5, 1} {
		for _, room := range []float64{0, 0.3, 1} {
			u := newUnit(t, KindReverb)
			buf := make([]uint16, 480)
			for iter := 0; iter < 50; iter++ {
				_, err := u.Process(buf, len(buf), []float64{room, decay, 1})
				require.NoError(t, err)
				for i, s := range buf {
					if s != 0 {
						t.Fatalf("room %v decay %v: sample %d = %d", room, decay, i, s)
					}
				}
			}
		}
	}
}

func TestReverb_ImpulseProducesTail(t *testing.T) {
	u := newUnit(t, KindReverb)
	buf := make([]uint16, 64)
	buf[0] = pcm.FromSigned(16384)
	_, err := u.Process(buf, len(buf), []float64{0, 0.5, 1})
	require.NoError(t, err)

	tail := false
	for _, s := range buf[1:] {
		if s != 0 {
			tail = true
			break
		}
	}
	assert.True(t, tail, "expected a reverb tail after the impulse")
}

func TestReverb_TailDecays(t *testing.T) {
	u := newUnit(t, KindReverb)
	params := []float64{0, 1, 1}
	buf := make([]uint16, 256)
	buf[0] = pcm.FromSigned(32767)
	_, err := u.Process(buf, len(buf), params)
	require.NoError(t, err)

	var last []uint16
	for iter := 0; iter < 200; iter++ {
		clear(buf)
		_, err := u.Process(buf, len(buf), params)
		require.NoError(t, err)
		last = buf
	}
	for _, s := range last {
		assert.Less(t, math.Abs(pcm.Decode(s)), 0.001)
	}
}

func TestReverb_DryOnly(t *testing.T) {
	buf := wire(100, -200, 16384, 0, 7)
	_, err := newUnit(t, KindReverb).Process(buf, 5, []float64{0.7, 0.9, 0})
	require.NoError(t, err)
	assert.Equal(t, []int32{100, -200, 16384, 0, 7}, signed(buf))
}

func TestReverb_Lengths(t *testing.T) {
	combs, allpasses := reverbLengths(0)
	for _, l := range combs {
		assert.GreaterOrEqual(t, l, reverbMinLength)
	}
	for _, l := range allpasses {
		assert.GreaterOrEqual(t, l, 1)
	}

	combs, _ = reverbLengths(1)
	assert.Equal(t, reverbMaxBase, combs[0])
	for i := 1; i < len(combs); i++ {
		assert.Greater(t, combs[i], combs[i-1], "comb lengths must be distinct")
	}
}

func TestReverb_DomainErrors(t *testing.T) {
	u := newUnit(t, KindReverb)
	for _, params := range [][]float64{
		{0.5, 0.5},
		{255, 0.5, 0.5},
		{0.5, 2, 0.5},
		{0.5, 0.5, -1},
	} {
		err := u.Validate(params)
		assert.True(t, errors.Is(err, ErrDomain), "params %v", params)
	}
}
