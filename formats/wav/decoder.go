// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/internal/pcm"
	"github.com/ik5/audsqueeze/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("buffer wav input: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	normalize, err := normalizer(int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	return pcm.NewSource(dec, int(dec.SampleRate), int(dec.NumChans), normalize), nil
}

// normalizer picks the int-to-float conversion for a bit depth. WAV stores
// 8-bit samples unsigned and wider ones signed.
func normalizer(bitDepth int) (func(int) float32, error) {
	switch bitDepth {
	case 8:
		return func(v int) float32 { return utils.DequantizeU8(uint8(v)) }, nil
	case 16, 24, 32:
		return func(v int) float32 { return utils.NormalizeInt(v, bitDepth) }, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}
