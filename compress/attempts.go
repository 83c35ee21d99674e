// SPDX-License-Identifier: EPL-2.0

package compress

import "github.com/ik5/audsqueeze/audio"

// Attempt is one rendering pass of the controller. Attempts run in table
// order, each more aggressive than the one before.
type Attempt struct {
	Name     string
	Suffix   string // appended to the input's base name
	Spec     audio.RenderSpec
	BitDepth int
	Volume   float64
	Progress float64 // reported once the attempt is encoded
}

var (
	// Standard is tried first: 8 kHz mono, heavy compression, 8-bit.
	Standard = Attempt{
		Name:   "standard",
		Suffix: ".wav",
		Spec: audio.RenderSpec{
			TargetSampleRate: 8000,
			TargetChannels:   1,
			Compressor: &audio.CompressorParams{
				ThresholdDB: -30, KneeDB: 40, Ratio: 20, Attack: 0, Release: 0.25,
			},
		},
		BitDepth: 8,
		Volume:   0.5,
		Progress: 60,
	}

	// Extreme drops to 6 kHz with a lower threshold and shorter release.
	Extreme = Attempt{
		Name:   "extreme",
		Suffix: "_compressed.wav",
		Spec: audio.RenderSpec{
			TargetSampleRate: 6000,
			TargetChannels:   1,
			Compressor: &audio.CompressorParams{
				ThresholdDB: -40, KneeDB: 30, Ratio: 25, Attack: 0, Release: 0.1,
			},
		},
		BitDepth: 8,
		Volume:   0.4,
		Progress: 80,
	}
)

// Last-resort encodings of the Extreme signal. Neither is checked against
// the ceiling.
const (
	trimSuffix     = "_trimmed.wav"
	trimVolume     = 0.4
	decimateSuffix = "_min_quality.wav"
	decimateVolume = 0.3
	decimateFactor = 2
)
