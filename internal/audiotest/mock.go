// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds synthetic sources and signals shared by tests.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates frames from a waveform function.
// It satisfies audio.Source.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int
	waveform     func(sample int, channel int) float32

	// Err, when set, is returned instead of io.EOF once the waveform ends.
	Err    error
	Closed bool
}

func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return 0 })
}

func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, Sine(sampleRate, frequency, 1))
}

func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return value })
}

// Sine returns a waveform of the given frequency and peak amplitude,
// identical on every channel.
func Sine(sampleRate int, frequency, amplitude float64) func(int, int) float32 {
	return func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(amplitude * math.Sin(2*math.Pi*frequency*t))
	}
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	end := io.EOF
	if m.Err != nil {
		end = m.Err
	}
	if m.generated >= m.totalSamples {
		return 0, end
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for frame := range frames {
		idx := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(idx, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalSamples {
		return frames * m.channels, end
	}

	return frames * m.channels, nil
}
