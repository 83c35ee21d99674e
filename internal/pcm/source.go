// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer PCM decoders to audio.Source.
package pcm

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audsqueeze/audio"
)

var _ audio.Source = (*Source)(nil)

// Reader is the part of the go-audio wav and aiff decoders used here.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams a Reader as float32 samples, converting every integer
// sample with normalize.
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	normalize  func(int) float32
	intBuf     *goaudio.IntBuffer
}

func NewSource(dec Reader, sampleRate, channels int, normalize func(int) float32) *Source {
	return &Source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		normalize:  normalize,
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("read pcm: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = s.normalize(s.intBuf.Data[i])
	}

	// A short read without error marks the end of the data chunk.
	if n < len(dst) || err == io.EOF {
		return n, io.EOF
	}

	return n, nil
}

// ReadSeeker returns r itself when it can seek, otherwise the buffered
// contents of r. The go-audio decoders need to seek between chunks.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer input: %w", err)
	}

	return bytes.NewReader(data), nil
}
