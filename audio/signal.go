// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Signal is a fully decoded, deinterleaved PCM signal.
// Every channel holds FrameCount(Duration, SampleRate) samples.
type Signal struct {
	SampleRate int
	Duration   float64 // seconds
	Channels   [][]float32
}

// FrameCount returns ceil(duration*rate). The product is nudged down by a
// micro-sample so that n/rate*rate does not round up to n+1.
func FrameCount(duration float64, rate int) int {
	if duration <= 0 || rate <= 0 {
		return 0
	}

	return int(math.Ceil(duration*float64(rate) - 1e-6))
}

func (s *Signal) NumChannels() int { return len(s.Channels) }

// Len is the per-channel sample count.
func (s *Signal) Len() int {
	if len(s.Channels) == 0 {
		return 0
	}

	return len(s.Channels[0])
}

// Truncate keeps the first n samples of every channel.
func (s *Signal) Truncate(n int) *Signal {
	n = max(0, min(n, s.Len()))
	out := &Signal{
		SampleRate: s.SampleRate,
		Duration:   float64(n) / float64(s.SampleRate),
		Channels:   make([][]float32, len(s.Channels)),
	}
	for c, ch := range s.Channels {
		out.Channels[c] = ch[:n:n]
	}

	return out
}

// Decimate keeps every factor-th sample, dividing both the sample rate and
// the length by factor (the length rounds down).
func (s *Signal) Decimate(factor int) *Signal {
	if factor <= 1 {
		return s.Truncate(s.Len())
	}

	n := s.Len() / factor
	rate := s.SampleRate / factor
	out := &Signal{
		SampleRate: rate,
		Channels:   make([][]float32, len(s.Channels)),
	}
	if rate > 0 {
		out.Duration = float64(n) / float64(rate)
	}
	for c, ch := range s.Channels {
		reduced := make([]float32, n)
		for i := range n {
			reduced[i] = ch[i*factor]
		}
		out.Channels[c] = reduced
	}

	return out
}

// Reader streams the signal back as an interleaved Source.
func (s *Signal) Reader() Source {
	return &signalSource{sig: s}
}

type signalSource struct {
	sig *Signal
	pos int
}

func (r *signalSource) SampleRate() int { return r.sig.SampleRate }
func (r *signalSource) Channels() int   { return r.sig.NumChannels() }
func (r *signalSource) Close() error    { return nil }

func (r *signalSource) ReadSamples(dst []float32) (int, error) {
	channels := r.sig.NumChannels()
	if channels == 0 {
		return 0, io.EOF
	}
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := r.sig.Len() - r.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, remaining)
	for f := range frames {
		for c := range channels {
			dst[f*channels+c] = r.sig.Channels[c][r.pos+f]
		}
	}
	r.pos += frames

	if r.pos >= r.sig.Len() {
		return frames * channels, io.EOF
	}

	return frames * channels, nil
}

// Collect drains src into a Signal. The source is not closed.
func Collect(src Source) (*Signal, error) {
	channels := src.Channels()
	rate := src.SampleRate()
	if channels <= 0 {
		return nil, ErrEmptySignal
	}
	if rate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	out := &Signal{
		SampleRate: rate,
		Channels:   make([][]float32, channels),
	}
	buf := make([]float32, 4096*channels)
	idle := 0

	for {
		n, err := src.ReadSamples(buf)
		frames := n / channels
		for f := range frames {
			for c := range channels {
				out.Channels[c] = append(out.Channels[c], buf[f*channels+c])
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("collect samples: %w", err)
		}

		if n == 0 {
			idle++
			if idle > maxIdleReads {
				return nil, ErrNoProgress
			}
		} else {
			idle = 0
		}
	}

	out.Duration = float64(out.Len()) / float64(rate)

	return out, nil
}

const maxIdleReads = 100
