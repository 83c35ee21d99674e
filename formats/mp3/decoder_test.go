// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsqueeze/audio"
)

// fakeReader hands out PCM bytes in chunks of at most step bytes, which
// need not be frame-aligned.
type fakeReader struct {
	data []byte
	step int
	err  error
}

func (f *fakeReader) SampleRate() int { return 44100 }

func (f *fakeReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		if f.err != nil {
			return 0, f.err
		}
		return 0, io.EOF
	}
	n := copy(p[:min(len(p), f.step)], f.data)
	f.data = f.data[n:]
	return n, nil
}

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"garbage": []byte("This is not MP3 data"),
		"empty":   {},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Decoder{}.Decode(bytes.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestSource_Dequantizes(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &fakeReader{data: pcmBytes(-32768, 32767, 0, -16384, 16384, 0), step: 3},
		sampleRate: 44100,
	}

	sig, err := audio.Collect(src)
	require.NoError(t, err)

	assert.Equal(t, 44100, sig.SampleRate)
	assert.Equal(t, []float32{-1, 0, 16384.0 / 32767}, sig.Channels[0])
	assert.Equal(t, []float32{1, -0.5, 0}, sig.Channels[1])
}

func TestSource_DropsTrailingPartialFrame(t *testing.T) {
	t.Parallel()

	data := append(pcmBytes(100, 200), 0x01, 0x02, 0x03)
	src := &source{dec: &fakeReader{data: data, step: 64}, sampleRate: 44100}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
}

func TestSource_PropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad huffman table")
	src := &source{dec: &fakeReader{data: pcmBytes(1, 2), step: 4, err: boom}, sampleRate: 44100}

	_, err := audio.Collect(src)
	assert.ErrorIs(t, err, boom)
}

func TestSource_OddDestination(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeReader{data: pcmBytes(1, 2), step: 4}, sampleRate: 44100}
	n, err := src.ReadSamples(make([]float32, 1))
	assert.NoError(t, err)
	assert.Zero(t, n)
}
