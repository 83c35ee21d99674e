// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

// CompressorParams configures a feed-forward dynamic-range compressor.
// Threshold and knee are in dB, attack and release in seconds.
type CompressorParams struct {
	ThresholdDB float64
	KneeDB      float64
	Ratio       float64
	Attack      float64
	Release     float64
}

func (p CompressorParams) Validate() error {
	switch {
	case p.Ratio < 1 || math.IsNaN(p.Ratio) || math.IsInf(p.Ratio, 0):
		return fmt.Errorf("%w: ratio %v", ErrInvalidCompressor, p.Ratio)
	case p.KneeDB < 0:
		return fmt.Errorf("%w: knee %v dB", ErrInvalidCompressor, p.KneeDB)
	case p.Attack < 0 || p.Release < 0:
		return fmt.Errorf("%w: attack %v s, release %v s", ErrInvalidCompressor, p.Attack, p.Release)
	case p.ThresholdDB > 0:
		return fmt.Errorf("%w: threshold %v dB above full scale", ErrInvalidCompressor, p.ThresholdDB)
	}

	return nil
}

// GainDB is the static curve: the gain change in dB (always <= 0) for an
// input level in dBFS. The knee is a quadratic blend centred on the threshold.
func (p CompressorParams) GainDB(levelDB float64) float64 {
	over := levelDB - p.ThresholdDB
	half := p.KneeDB / 2
	slope := 1/p.Ratio - 1

	switch {
	case over <= -half:
		return 0
	case p.KneeDB > 0 && over < half:
		d := over + half
		return slope * d * d / (2 * p.KneeDB)
	default:
		return slope * over
	}
}

const silenceDB = -120.0

func smoothing(seconds float64, rate int) float64 {
	if seconds <= 0 || rate <= 0 {
		return 0
	}

	return math.Exp(-1 / (seconds * float64(rate)))
}

// DynamicsCompressor applies CompressorParams sample by sample to every
// channel of src, each channel keeping its own gain envelope.
type DynamicsCompressor struct {
	src      Source
	params   CompressorParams
	attack   float64
	release  float64
	envelope []float64 // current gain per channel, dB
	pos      int
}

func NewDynamicsCompressor(src Source, params CompressorParams) *DynamicsCompressor {
	return &DynamicsCompressor{
		src:      src,
		params:   params,
		attack:   smoothing(params.Attack, src.SampleRate()),
		release:  smoothing(params.Release, src.SampleRate()),
		envelope: make([]float64, max(1, src.Channels())),
	}
}

func (d *DynamicsCompressor) SampleRate() int { return d.src.SampleRate() }
func (d *DynamicsCompressor) Channels() int   { return d.src.Channels() }
func (d *DynamicsCompressor) Close() error {
	if err := d.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (d *DynamicsCompressor) ReadSamples(dst []float32) (int, error) {
	n, err := d.src.ReadSamples(dst)
	channels := len(d.envelope)

	for i := range n {
		c := (d.pos + i) % channels
		x := float64(dst[i])

		level := silenceDB
		if a := math.Abs(x); a > 1e-6 {
			level = 20 * math.Log10(a)
		}

		target := d.params.GainDB(level)
		coef := d.release
		if target < d.envelope[c] {
			coef = d.attack
		}
		d.envelope[c] = coef*d.envelope[c] + (1-coef)*target

		dst[i] = float32(x * math.Pow(10, d.envelope[c]/20))
	}

	d.pos = (d.pos + n) % channels

	return n, err
}
