// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"io"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsqueeze/audio"
)

type fakeReader struct {
	data []int
	pos  int
	err  error
}

func (f *fakeReader) Format() *goaudio.Format {
	return &goaudio.Format{NumChannels: 2, SampleRate: 8000}
}

func (f *fakeReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.data[f.pos:])
	f.pos += n
	return n, nil
}

func half(v int) float32 { return float32(v) / 2 }

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := NewSource(&fakeReader{data: []int{2, 4, 6, 8, 10, 12}}, 8000, 2, half)
	assert.Equal(t, 8000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, buf[:n])

	n, err = src.ReadSamples(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []float32{5, 6}, buf[:n])

	n, err = src.ReadSamples(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSource_Collect(t *testing.T) {
	t.Parallel()

	var src audio.Source = NewSource(&fakeReader{data: []int{2, 4, 6, 8, 10, 12}}, 8000, 2, half)

	sig, err := audio.Collect(src)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 3, 5}, {2, 4, 6}}, sig.Channels)
	assert.Equal(t, 8000, sig.SampleRate)
}

func TestSource_ReaderFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt chunk")
	src := NewSource(&fakeReader{err: boom}, 8000, 2, half)

	_, err := src.ReadSamples(make([]float32, 4))
	assert.ErrorIs(t, err, boom)
}

func TestReadSeeker(t *testing.T) {
	t.Parallel()

	rs, err := ReadSeeker(strings.NewReader("abc"))
	require.NoError(t, err)
	_, ok := rs.(*strings.Reader)
	assert.True(t, ok, "seekable input is used as is")

	rs, err = ReadSeeker(io.MultiReader(strings.NewReader("ab"), strings.NewReader("cd")))
	require.NoError(t, err)
	_, err = rs.Seek(2, io.SeekStart)
	require.NoError(t, err)
	rest, err := io.ReadAll(rs)
	require.NoError(t, err)
	assert.Equal(t, "cd", string(rest))
}
