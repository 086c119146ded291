package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "bit-depth", KindBitDepth.String())
	assert.Equal(t, "reverb", KindReverb.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
	assert.Len(t, Kinds(), 11)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("  Wave_Shape ")
	require.NoError(t, err)
	assert.Equal(t, KindWaveShape, got)

	_, err = ParseKind("chorus")
	assert.ErrorIs(t, err, ErrNoSuchEffect)
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Effect
		wantErr error
	}{
		{name: "kind only", in: "none", want: Effect{Kind: KindNone}},
		{name: "two params", in: "bit-depth:350,1.2", want: NewEffect(KindBitDepth, 350, 1.2)},
		{name: "spaces", in: "reverb: 0.5, 0.25 ,1", want: NewEffect(KindReverb, 0.5, 0.25, 1)},
		{name: "unknown kind", in: "flange:1", wantErr: ErrNoSuchEffect},
		{name: "bad number", in: "decimate:two", wantErr: ErrDomain},
		{name: "trailing garbage", in: "bit-depth:350x,1.2", wantErr: ErrDomain},
		{name: "two decimal points", in: "bit-depth:350,1.2.7", wantErr: ErrDomain},
		{name: "empty field", in: "delay:10,", wantErr: ErrDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEffect(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffect_String(t *testing.T) {
	assert.Equal(t, "bit-depth(350, 1.2)", NewEffect(KindBitDepth, 350, 1.2).String())
	assert.Equal(t, "none()", NewEffect(KindNone).String())
}

func TestRegistry(t *testing.T) {
	reg := NewDefaultRegistry()
	assert.Equal(t, Kinds(), reg.Kinds())

	assert.Error(t, reg.Register(KindDelay, newDelay), "duplicate registration")
	assert.ErrorIs(t, reg.Register(Kind(77), newDelay), ErrNoSuchEffect)
	assert.Error(t, NewRegistry().Register(KindDelay, nil))
	assert.Panics(t, func() { reg.MustRegister(KindDelay, newDelay) })

	_, err := NewRegistry().Lookup(KindDelay)
	assert.ErrorIs(t, err, ErrNoSuchEffect)

	a, err := reg.New(KindDelay, Context{})
	require.NoError(t, err)
	b, err := reg.New(KindDelay, Context{})
	require.NoError(t, err)
	assert.NotSame(t, a, b, "every unit has its own state")

	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}
