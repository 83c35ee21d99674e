// SPDX-License-Identifier: EPL-2.0

package audsqueeze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/compress"
	"github.com/ik5/audsqueeze/formats"
	"github.com/ik5/audsqueeze/transcode"
)

// DefaultThreshold is the input size above which Prepare starts shrinking.
const DefaultThreshold int64 = 5 << 20

// Strategy is one way of shrinking an input.
type Strategy interface {
	Name() string
	// Available reports whether the strategy can handle in at all.
	Available(in audio.Input) bool
	Shrink(ctx context.Context, in audio.Input, onProgress compress.ProgressFunc) (*audio.Encoded, error)
}

// RenderStrategy decodes natively and runs the compression controller.
type RenderStrategy struct {
	Controller *compress.Controller
	Ceiling    int64
}

func (RenderStrategy) Name() string { return "render" }

func (RenderStrategy) Available(in audio.Input) bool { return formats.Supports(in) }

func (s RenderStrategy) Shrink(_ context.Context, in audio.Input, onProgress compress.ProgressFunc) (*audio.Encoded, error) {
	return s.Controller.Compress(in, s.Ceiling, onProgress)
}

// TranscodeStrategy hands the input to ffmpeg.
type TranscodeStrategy struct {
	Engine *transcode.Engine
}

func (TranscodeStrategy) Name() string { return "transcode" }

func (TranscodeStrategy) Available(in audio.Input) bool { return len(in.Data) > 0 }

func (s TranscodeStrategy) Shrink(ctx context.Context, in audio.Input, onProgress compress.ProgressFunc) (*audio.Encoded, error) {
	return s.Engine.Transcode(ctx, in, onProgress)
}

// Preparer makes an input ready for upload. Inputs above the threshold go
// through the strategies in order; the first success wins, and when all of
// them fail the input is used unchanged.
type Preparer struct {
	threshold  int64
	strategies []Strategy
	logger     *slog.Logger
}

type Option func(*Preparer)

// WithThreshold sets the size at or below which inputs pass through.
func WithThreshold(n int64) Option {
	return func(p *Preparer) { p.threshold = n }
}

// WithStrategies replaces the default render and transcode strategies.
func WithStrategies(s ...Strategy) Option {
	return func(p *Preparer) { p.strategies = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Preparer) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Preparer that renders under compress.WorkingCeiling and
// falls back to transcode.Default.
func New(opts ...Option) *Preparer {
	p := &Preparer{
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.strategies == nil {
		p.strategies = []Strategy{
			RenderStrategy{Controller: compress.New(compress.WithLogger(p.logger)), Ceiling: compress.WorkingCeiling},
			TranscodeStrategy{Engine: transcode.Default()},
		}
	}

	return p
}

// Prepare always returns a file: the first strategy that succeeds, or in
// itself. Progress is non-decreasing and ends with a single 100.
func (p *Preparer) Prepare(ctx context.Context, in audio.Input, onProgress compress.ProgressFunc) *audio.Encoded {
	progress := compress.NewTracker(onProgress)
	defer progress.Done()

	log := p.logger.With(slog.String("name", in.Name), slog.Int64("size", in.Size()))

	if in.Size() <= p.threshold {
		log.Debug("input under threshold, sending as is")
		return audio.Original(in)
	}

	for _, s := range p.strategies {
		out, err := shrink(ctx, s, in, progress.Func())
		if errors.Is(err, errUnavailable) {
			log.Debug("strategy unavailable", slog.String("strategy", s.Name()))
			continue
		}
		if err != nil {
			log.Warn("strategy failed", slog.String("strategy", s.Name()), slog.Any("error", err))
			continue
		}

		log.Info("input prepared",
			slog.String("strategy", s.Name()),
			slog.String("output", out.Name),
			slog.Int64("output_size", out.Size()))
		return out
	}

	log.Warn("all strategies failed, sending original")
	return audio.Original(in)
}

var errUnavailable = errors.New("strategy unavailable")

// shrink runs one strategy, capability check included, turning a panic
// into an error.
func shrink(ctx context.Context, s Strategy, in audio.Input, onProgress compress.ProgressFunc) (out *audio.Encoded, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%s strategy panicked: %v", s.Name(), r)
		}
	}()

	if !s.Available(in) {
		return nil, errUnavailable
	}

	out, err = s.Shrink(ctx, in, onProgress)
	if err == nil && out == nil {
		err = fmt.Errorf("%s strategy returned no output", s.Name())
	}

	return out, err
}
