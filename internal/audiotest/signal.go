// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math/rand/v2"

	"github.com/ik5/audsqueeze/audio"
)

// SineSignal builds a decoded signal of the given length holding the same
// sine tone on every channel.
func SineSignal(sampleRate, channels int, seconds, frequency, amplitude float64) *audio.Signal {
	return buildSignal(sampleRate, channels, seconds, Sine(sampleRate, frequency, amplitude))
}

// NoiseSignal builds a signal of uniform white noise in [-amplitude, amplitude]
// from a fixed seed.
func NoiseSignal(sampleRate, channels int, seconds, amplitude float64, seed uint64) *audio.Signal {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return buildSignal(sampleRate, channels, seconds, func(int, int) float32 {
		return float32(amplitude * (2*rng.Float64() - 1))
	})
}

// RampSignal holds sample index i as i/n on every channel.
func RampSignal(sampleRate, channels, n int) *audio.Signal {
	sig := &audio.Signal{
		SampleRate: sampleRate,
		Duration:   float64(n) / float64(sampleRate),
		Channels:   make([][]float32, channels),
	}
	for c := range channels {
		ch := make([]float32, n)
		for i := range n {
			ch[i] = float32(i) / float32(n)
		}
		sig.Channels[c] = ch
	}

	return sig
}

func buildSignal(sampleRate, channels int, seconds float64, wave func(int, int) float32) *audio.Signal {
	n := audio.FrameCount(seconds, sampleRate)
	sig := &audio.Signal{
		SampleRate: sampleRate,
		Duration:   seconds,
		Channels:   make([][]float32, channels),
	}
	for c := range channels {
		sig.Channels[c] = make([]float32, n)
	}
	for i := range n {
		for c := range channels {
			sig.Channels[c][i] = wave(i, c)
		}
	}

	return sig
}
