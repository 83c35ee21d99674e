// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/internal/audiotest"
)

func TestChannelPicker_KeepsOneChannel(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 3, 50, func(sample, channel int) float32 {
		return float32(channel) + float32(sample)/100
	})

	for _, channel := range []int{0, 2} {
		src := audiotest.NewMockSource(8000, 3, 50, func(sample, channel int) float32 {
			return float32(channel) + float32(sample)/100
		})
		picker := audio.NewChannelPicker(src, channel)
		assert.Equal(t, 1, picker.Channels())
		assert.Equal(t, 8000, picker.SampleRate())

		sig, err := audio.Collect(picker)
		require.NoError(t, err)
		require.Equal(t, 50, sig.Len())
		for i, v := range sig.Channels[0] {
			assert.InDelta(t, float64(channel)+float64(i)/100, v, 1e-6)
		}
	}

	require.NoError(t, audio.NewChannelPicker(src, 0).Close())
	assert.True(t, src.Closed)
}

func TestChannelPicker_MonoPassthrough(t *testing.T) {
	t.Parallel()

	sig := audiotest.RampSignal(8000, 1, 64)
	got, err := audio.Collect(audio.NewChannelPicker(sig.Reader(), 0))
	require.NoError(t, err)
	assert.Equal(t, sig.Channels[0], got.Channels[0])
}

func TestChannelPicker_OutOfRange(t *testing.T) {
	t.Parallel()

	picker := audio.NewChannelPicker(audiotest.NewSilentSource(8000, 2, 10), 2)
	_, err := picker.ReadSamples(make([]float32, 4))
	assert.ErrorIs(t, err, audio.ErrChannelOutOfRange)
}
