// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/internal/audiotest"
)

func TestCompressorParams_GainDB(t *testing.T) {
	t.Parallel()

	p := audio.CompressorParams{ThresholdDB: -20, KneeDB: 10, Ratio: 4}

	tests := []struct {
		name  string
		level float64
		want  float64
	}{
		{"below knee", -30, 0},
		{"knee start", -25, 0},
		{"threshold", -20, -0.9375},
		{"knee end", -15, -3.75},
		{"full scale", 0, -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, p.GainDB(tt.level), 1e-9)
		})
	}

	hard := audio.CompressorParams{ThresholdDB: -10, Ratio: 2}
	assert.InDelta(t, 0, hard.GainDB(-10), 1e-12)
	assert.InDelta(t, -5, hard.GainDB(0), 1e-12)
}

func TestCompressorParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  audio.CompressorParams
		wantErr bool
	}{
		{"speech preset", audio.CompressorParams{ThresholdDB: -24, KneeDB: 30, Ratio: 12, Attack: 0.003, Release: 0.25}, false},
		{"unity ratio", audio.CompressorParams{Ratio: 1}, false},
		{"ratio below one", audio.CompressorParams{Ratio: 0.5}, true},
		{"nan ratio", audio.CompressorParams{Ratio: math.NaN()}, true},
		{"negative knee", audio.CompressorParams{Ratio: 2, KneeDB: -1}, true},
		{"negative attack", audio.CompressorParams{Ratio: 2, Attack: -0.1}, true},
		{"negative release", audio.CompressorParams{Ratio: 2, Release: -0.1}, true},
		{"threshold above zero", audio.CompressorParams{Ratio: 2, ThresholdDB: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, audio.ErrInvalidCompressor)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDynamicsCompressor_QuietSignalUntouched(t *testing.T) {
	t.Parallel()

	params := audio.CompressorParams{ThresholdDB: -20, KneeDB: 6, Ratio: 4, Attack: 0.003, Release: 0.25}
	sig := audiotest.SineSignal(8000, 1, 0.25, 200, 0.01)

	got, err := audio.Collect(audio.NewDynamicsCompressor(sig.Reader(), params))
	require.NoError(t, err)
	assert.Equal(t, sig.Channels[0], got.Channels[0])
}

func TestDynamicsCompressor_InstantGain(t *testing.T) {
	t.Parallel()

	params := audio.CompressorParams{ThresholdDB: -20, Ratio: 4}
	src := audiotest.NewConstantSource(8000, 2, 100, 0.5)

	got, err := audio.Collect(audio.NewDynamicsCompressor(src, params))
	require.NoError(t, err)

	level := 20 * math.Log10(0.5)
	want := 0.5 * math.Pow(10, params.GainDB(level)/20)
	for c := range 2 {
		for _, v := range got.Channels[c] {
			assert.InDelta(t, want, v, 1e-6)
		}
	}
}

func TestDynamicsCompressor_AttackSmoothsGain(t *testing.T) {
	t.Parallel()

	params := audio.CompressorParams{ThresholdDB: -30, KneeDB: 0, Ratio: 10, Attack: 0.01, Release: 0.1}
	src := audiotest.NewConstantSource(16000, 1, 16000, 0.9)

	got, err := audio.Collect(audio.NewDynamicsCompressor(src, params))
	require.NoError(t, err)

	out := got.Channels[0]
	assert.Greater(t, out[0], out[len(out)-1], "gain should settle downward")
	for i := 1; i < len(out); i++ {
		require.LessOrEqual(t, out[i], out[i-1])
	}

	level := 20 * math.Log10(0.9)
	settled := 0.9 * math.Pow(10, params.GainDB(level)/20)
	assert.InDelta(t, settled, out[len(out)-1], 1e-4)
}
