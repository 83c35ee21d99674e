// SPDX-License-Identifier: EPL-2.0

package compress

import (
	"log/slog"
	"time"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/formats"
	"github.com/ik5/audsqueeze/formats/wav"
)

const (
	// UploadLimit is the transcription API's hard upload size.
	UploadLimit int64 = 25 << 20
	// WorkingCeiling leaves room for multipart overhead under UploadLimit.
	WorkingCeiling int64 = 24<<20 + 512<<10

	// DefaultTrimAfter is the duration above which the last resort trims
	// instead of decimating.
	DefaultTrimAfter = 55 * time.Minute

	wavMIME = "audio/wav"
)

// Controller shrinks audio by rendering it at decreasing quality until the
// WAV encoding fits under a byte ceiling.
type Controller struct {
	logger    *slog.Logger
	trimAfter time.Duration
	decode    func(audio.Input) (*audio.Signal, error)
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTrimAfter moves the duration horizon of the last resort.
func WithTrimAfter(d time.Duration) Option {
	return func(c *Controller) { c.trimAfter = d }
}

// WithDecoder replaces formats.Decode.
func WithDecoder(fn func(audio.Input) (*audio.Signal, error)) Option {
	return func(c *Controller) { c.decode = fn }
}

func New(opts ...Option) *Controller {
	c := &Controller{
		logger:    slog.Default(),
		trimAfter: DefaultTrimAfter,
		decode:    formats.Decode,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compress returns the first attempt whose encoding is at most ceiling
// bytes. When none fits, it falls back to trimming long recordings or
// decimating short ones and returns that result whatever its size.
func (c *Controller) Compress(in audio.Input, ceiling int64, onProgress ProgressFunc) (*audio.Encoded, error) {
	progress := NewTracker(onProgress)
	log := c.logger.With(slog.String("name", in.Name), slog.Int64("ceiling", ceiling))

	progress.Report(10)
	sig, err := c.decode(in)
	if err != nil {
		return nil, &CompressionError{Stage: "decode", Err: err}
	}
	progress.Report(30)

	log.Debug("decoded input",
		slog.Int("sample_rate", sig.SampleRate),
		slog.Int("channels", sig.NumChannels()),
		slog.Float64("duration", sig.Duration))

	var rendered *audio.Signal
	for _, a := range []Attempt{Standard, Extreme} {
		rendered, err = audio.Render(sig, a.Spec)
		if err != nil {
			return nil, &CompressionError{Stage: a.Name, Err: err}
		}

		data, err := wav.Encode(rendered, a.BitDepth, a.Volume)
		if err != nil {
			return nil, &CompressionError{Stage: a.Name, Err: err}
		}
		progress.Report(a.Progress)

		size := int64(len(data))
		log.Info("compression attempt", slog.String("attempt", a.Name), slog.Int64("size", size))

		if size <= ceiling {
			progress.Done()
			return &audio.Encoded{Data: data, MIMEType: wavMIME, Name: in.Rename(a.Suffix)}, nil
		}
	}

	out, err := c.lastResort(in, sig.Duration, rendered)
	if err != nil {
		return nil, err
	}
	if out.Size() > ceiling {
		log.Warn("last resort still over ceiling",
			slog.String("output", out.Name),
			slog.Int64("size", out.Size()),
			slog.Any("error", ErrOversized))
	}
	progress.Done()

	return out, nil
}

// lastResort encodes the Extreme signal either trimmed to the horizon or
// decimated, depending on the source duration.
func (c *Controller) lastResort(in audio.Input, duration float64, extreme *audio.Signal) (*audio.Encoded, error) {
	stage, suffix, volume := "decimate", decimateSuffix, decimateVolume
	var sig *audio.Signal

	if duration > c.trimAfter.Seconds() {
		stage, suffix, volume = "trim", trimSuffix, trimVolume
		sig = extreme.Truncate(int(c.trimAfter.Seconds() * float64(extreme.SampleRate)))
	} else {
		sig = extreme.Decimate(decimateFactor)
	}

	data, err := wav.Encode(sig, Extreme.BitDepth, volume)
	if err != nil {
		return nil, &CompressionError{Stage: stage, Err: err}
	}

	return &audio.Encoded{Data: data, MIMEType: wavMIME, Name: in.Rename(suffix)}, nil
}
