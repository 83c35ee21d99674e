// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audsqueeze/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Output frame k sits at source position k*srcRate/dstRate,
// computed in integers, so a source of N frames yields
// ceil(N*dstRate/srcRate) frames. Works on interleaved
// samples and preserves the channel count. A one-pole low-pass runs on the
// source when downsampling.
type Resampler struct {
	src      Source
	srcRate  int
	dstRate  int
	channels int

	// Source frames, interleaved, starting at frame index base.
	window []float32
	base   int
	total  int
	eof    bool
	next   int // index of the next output frame

	readBuf []float32

	useFilter   bool
	filterAlpha float32
	filterState []float32
	primed      bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(1, src.Channels())

	r := &Resampler{
		src:         src,
		srcRate:     src.SampleRate(),
		dstRate:     dstRate,
		channels:    channels,
		readBuf:     make([]float32, 1024*channels),
		useFilter:   src.SampleRate() > dstRate,
		filterState: make([]float32, channels),
	}
	if r.useFilter {
		// y[n] = alpha*x[n] + (1-alpha)*y[n-1]
		r.filterAlpha = 0.5
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// fill reads source frames until frame index upto is buffered or the source
// is exhausted.
func (r *Resampler) fill(upto int) error {
	idle := 0
	for !r.eof && r.total <= upto {
		n, err := r.src.ReadSamples(r.readBuf)
		frames := n / r.channels
		if frames > 0 {
			idle = 0
			chunk := r.readBuf[:frames*r.channels]
			if r.useFilter {
				r.lowPass(chunk)
			}
			r.window = append(r.window, chunk...)
			r.total += frames
		}

		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
		case err != nil:
			return fmt.Errorf("%w", err)
		case frames == 0:
			idle++
			if idle > maxIdleReads {
				return ErrNoProgress
			}
		}
	}

	return nil
}

func (r *Resampler) lowPass(chunk []float32) {
	if !r.primed {
		copy(r.filterState, chunk[:r.channels])
		r.primed = true
	}
	for i := range chunk {
		c := i % r.channels
		chunk[i] = r.filterAlpha*chunk[i] + (1-r.filterAlpha)*r.filterState[c]
		r.filterState[c] = chunk[i]
	}
}

// sample returns channel c of source frame j, holding the edge frames.
func (r *Resampler) sample(j, c int) float32 {
	j = max(0, min(j, r.total-1))
	return r.window[(j-r.base)*r.channels+c]
}

// position is the source frame at or before output frame k.
func (r *Resampler) position(k int) int {
	return int(int64(k) * int64(r.srcRate) / int64(r.dstRate))
}

// discard drops buffered frames that no future output can reference.
func (r *Resampler) discard() {
	keep := r.position(r.next) - 1
	drop := keep - r.base
	if drop <= 0 || drop*r.channels < len(r.window)/2 {
		return
	}

	n := copy(r.window, r.window[drop*r.channels:])
	r.window = r.window[:n]
	r.base += drop
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		i := r.position(r.next)
		rem := int64(r.next) * int64(r.srcRate) % int64(r.dstRate)
		alpha := float32(float64(rem) / float64(r.dstRate))

		if err := r.fill(i + 2); err != nil {
			return written * r.channels, err
		}
		if i >= r.total {
			return written * r.channels, io.EOF
		}

		for c := range r.channels {
			dst[written*r.channels+c] = utils.CubicInterpolate(
				r.sample(i-1, c), r.sample(i, c), r.sample(i+1, c), r.sample(i+2, c), alpha)
		}

		written++
		r.next++
	}

	r.discard()

	return written * r.channels, nil
}
