// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"bytes"
	"sync"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/formats/aiff"
	"github.com/ik5/audsqueeze/formats/mp3"
	"github.com/ik5/audsqueeze/formats/vorbis"
	"github.com/ik5/audsqueeze/formats/wav"
)

var (
	defaultRegistry *audio.Registry
	registryOnce    sync.Once
)

// Registry returns the process-wide registry holding every native decoder.
func Registry() *audio.Registry {
	registryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})

	return defaultRegistry
}

// NewRegistry returns a registry with the WAV, MP3, Ogg Vorbis and AIFF
// decoders.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(WAV, wav.Decoder{})
	r.Register(MP3, mp3.Decoder{})
	r.Register(Ogg, vorbis.Decoder{})
	r.Register(AIFF, aiff.Decoder{})

	return r
}

// Supports reports whether in can be decoded natively.
func Supports(in audio.Input) bool {
	return SupportsWith(Registry(), in)
}

func SupportsWith(r *audio.Registry, in audio.Input) bool {
	f, err := Detect(in)
	if err != nil {
		return false
	}
	_, ok := r.Get(f)

	return ok
}

// Decode turns in into a fully materialised signal using the default
// registry. Failures are returned as *DecodeError.
func Decode(in audio.Input) (*audio.Signal, error) {
	return DecodeWith(Registry(), in)
}

func DecodeWith(r *audio.Registry, in audio.Input) (*audio.Signal, error) {
	f, err := Detect(in)
	if err != nil {
		return nil, &DecodeError{Name: in.Name, Err: err}
	}

	dec, ok := r.Get(f)
	if !ok {
		return nil, &DecodeError{Format: f, Name: in.Name, Err: ErrNoDecoder}
	}

	src, err := dec.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return nil, &DecodeError{Format: f, Name: in.Name, Err: err}
	}
	defer src.Close()

	sig, err := audio.Collect(src)
	if err != nil {
		return nil, &DecodeError{Format: f, Name: in.Name, Err: err}
	}
	if sig.Len() == 0 {
		return nil, &DecodeError{Format: f, Name: in.Name, Err: audio.ErrNoFrames}
	}

	return sig, nil
}
