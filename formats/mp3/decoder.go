// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/utils"
)

// go-mp3 always produces interleaved stereo, 16-bit little-endian.
const (
	channels    = 2
	frameBytes  = 2 * channels
	defaultRead = 8192
)

// mp3Reader is the part of gomp3.Decoder used here, so tests can fake it.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / channels
	if frames == 0 {
		return 0, nil
	}

	need := frames * frameBytes
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	// ReadFull keeps every chunk frame-aligned.
	n, err := io.ReadFull(s.dec, s.buf)
	samples := (n / frameBytes) * channels
	for i := range samples {
		dst[i] = utils.DequantizeS16(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	switch {
	case err == nil:
		return samples, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("decode mp3: %w", err)
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("open mp3 stream: %w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, defaultRead),
	}, nil
}
