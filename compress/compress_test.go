// SPDX-License-Identifier: EPL-2.0

package compress_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/compress"
	"github.com/ik5/audsqueeze/formats"
	"github.com/ik5/audsqueeze/formats/wav"
	"github.com/ik5/audsqueeze/internal/audiotest"
)

const header = 44

func fixed(sig *audio.Signal) compress.Option {
	return compress.WithDecoder(func(audio.Input) (*audio.Signal, error) { return sig, nil })
}

type recorder struct{ values []float64 }

func (r *recorder) report(p float64) { r.values = append(r.values, p) }

func (r *recorder) assertWellFormed(t *testing.T) {
	t.Helper()

	require.NotEmpty(t, r.values)
	for i := 1; i < len(r.values); i++ {
		assert.GreaterOrEqual(t, r.values[i], r.values[i-1], "progress went backwards: %v", r.values)
	}
	assert.Equal(t, 100.0, r.values[len(r.values)-1])

	hundreds := 0
	for _, v := range r.values {
		if v == 100 {
			hundreds++
		}
	}
	assert.Equal(t, 1, hundreds)
}

func wavRate(t *testing.T, data []byte) int {
	t.Helper()
	require.GreaterOrEqual(t, len(data), header)
	return int(binary.LittleEndian.Uint32(data[24:28]))
}

func TestCompress_StandardFits(t *testing.T) {
	t.Parallel()

	sig := audiotest.SineSignal(44100, 2, 2, 440, 0.8)
	in := audio.Input{Name: "meeting.m4a", MIMEType: "audio/x-m4a"}
	rec := &recorder{}

	out, err := compress.New(fixed(sig)).Compress(in, 20000, rec.report)
	require.NoError(t, err)

	assert.Equal(t, "meeting.wav", out.Name)
	assert.Equal(t, "audio/wav", out.MIMEType)
	assert.Equal(t, int64(header+16000), out.Size())
	assert.Equal(t, 8000, wavRate(t, out.Data))
	assert.Equal(t, []float64{10, 30, 60, 100}, rec.values)
}

func TestCompress_CeilingIsInclusive(t *testing.T) {
	t.Parallel()

	sig := audiotest.SineSignal(16000, 1, 2, 440, 0.8)

	out, err := compress.New(fixed(sig)).Compress(audio.Input{Name: "a.wav"}, header+16000, nil)
	require.NoError(t, err)
	assert.Equal(t, "a.wav", out.Name)

	out, err = compress.New(fixed(sig)).Compress(audio.Input{Name: "a.wav"}, header+16000-1, nil)
	require.NoError(t, err)
	assert.Equal(t, "a_compressed.wav", out.Name)
}

func TestCompress_ExtremeFits(t *testing.T) {
	t.Parallel()

	sig := audiotest.SineSignal(44100, 2, 2, 440, 0.8)
	rec := &recorder{}

	out, err := compress.New(fixed(sig)).Compress(audio.Input{Name: "talk.mp3"}, 14000, rec.report)
	require.NoError(t, err)

	assert.Equal(t, "talk_compressed.wav", out.Name)
	assert.Equal(t, int64(header+12000), out.Size())
	assert.Equal(t, 6000, wavRate(t, out.Data))
	assert.Equal(t, []float64{10, 30, 60, 80, 100}, rec.values)
}

func TestCompress_TrimsLongInput(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	sig := audiotest.SineSignal(16000, 2, 3, 300, 0.8)
	rec := &recorder{}

	c := compress.New(fixed(sig), compress.WithTrimAfter(time.Second), compress.WithLogger(logger))
	out, err := c.Compress(audio.Input{Name: "lecture.wav"}, 1000, rec.report)
	require.NoError(t, err)

	assert.Equal(t, "lecture_trimmed.wav", out.Name)
	assert.Equal(t, int64(header+6000), out.Size(), "min(horizon*6000, extreme length) samples")
	assert.Equal(t, 6000, wavRate(t, out.Data))
	assert.Contains(t, logs.String(), "last resort still over ceiling")
	rec.assertWellFormed(t)
}

func TestCompress_DecimatesShortInput(t *testing.T) {
	t.Parallel()

	sig := audiotest.SineSignal(16000, 2, 3, 300, 0.8)
	rec := &recorder{}

	c := compress.New(fixed(sig), compress.WithLogger(slog.New(slog.DiscardHandler)))
	out, err := c.Compress(audio.Input{Name: "call.ogg"}, 1000, rec.report)
	require.NoError(t, err)

	assert.Equal(t, "call_min_quality.wav", out.Name)
	assert.Equal(t, int64(header+9000), out.Size(), "floor(extreme length / 2) samples")
	assert.Equal(t, 3000, wavRate(t, out.Data))
	assert.Equal(t, []float64{10, 30, 60, 80, 100}, rec.values)
}

func TestCompress_OnlyLastResortExceedsCeiling(t *testing.T) {
	t.Parallel()

	sig := audiotest.NoiseSignal(22050, 1, 1, 0.6, 3)
	c := compress.New(fixed(sig), compress.WithLogger(slog.New(slog.DiscardHandler)))

	for _, ceiling := range []int64{0, 100, 4000, 6044, 7000, 8044, 9000, 1 << 20} {
		out, err := c.Compress(audio.Input{Name: "n.wav"}, ceiling, nil)
		require.NoError(t, err)
		if out.Size() > ceiling {
			assert.Equal(t, "n_min_quality.wav", out.Name, "ceiling %d", ceiling)
		}
	}
}

func TestCompress_DecodeFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	in := audio.Input{Data: []byte("not audio at all"), Name: "notes.txt"}

	out, err := compress.New().Compress(in, compress.WorkingCeiling, rec.report)
	assert.Nil(t, out)

	var cerr *compress.CompressionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "decode", cerr.Stage)

	var derr *formats.DecodeError
	assert.True(t, errors.As(err, &derr))
	assert.NotContains(t, rec.values, 100.0)
}

func TestCompress_RealWAV(t *testing.T) {
	t.Parallel()

	data, err := wav.Encode(audiotest.SineSignal(44100, 1, 1, 440, 0.5), 16, 1)
	require.NoError(t, err)

	out, err := compress.New().Compress(audio.Input{Data: data, Name: "tone.wav"}, compress.WorkingCeiling, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(header+8000), out.Size())

	sig, err := formats.Decode(audio.Input{Data: out.Data, Name: out.Name})
	require.NoError(t, err)
	assert.Equal(t, 8000, sig.SampleRate)
}

func TestConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(26214400), compress.UploadLimit)
	assert.Equal(t, int64(25690112), compress.WorkingCeiling)
}
