// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// State is the lifecycle of an Engine's binary lookup.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Prober checks that path is a runnable ffmpeg.
type Prober func(ctx context.Context, path string) error

// Engine locates ffmpeg once and runs transcodes with it. The first call
// to Init resolves the binary; concurrent callers wait for that attempt and
// share its result. A failed lookup is final.
type Engine struct {
	sources []Source
	probe   Prober
	logger  *slog.Logger
	tempDir string

	mu    sync.Mutex
	state State
	done  chan struct{}
	path  string
	err   error
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithProber(p Prober) Option {
	return func(e *Engine) { e.probe = p }
}

// WithTempDir sets where inputs and outputs are staged. Empty means
// os.TempDir.
func WithTempDir(dir string) Option {
	return func(e *Engine) { e.tempDir = dir }
}

// NewEngine builds an engine that tries sources in order.
func NewEngine(sources []Source, opts ...Option) *Engine {
	e := &Engine{
		sources: sources,
		probe:   probeVersion,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

var (
	defaultEngine *Engine
	defaultOnce   sync.Once
)

// Environment read by DefaultSources.
const (
	EnvPath     = "FFMPEG_PATH"
	EnvURL      = "FFMPEG_URL"
	EnvCacheDir = "FFMPEG_CACHE_DIR"
)

// DefaultSources is the ordered list used by Default: the binary named by
// FFMPEG_PATH, PATH lookup, then a download from FFMPEG_URL. Unset
// variables leave their source unconfigured, so it is skipped at init.
// Callers needing S3 build their own list.
func DefaultSources() []Source {
	cacheDir := os.Getenv(EnvCacheDir)

	return []Source{
		PathSource{Path: os.Getenv(EnvPath)},
		LookPathSource{Binary: "ffmpeg"},
		URLSource{URL: os.Getenv(EnvURL), CacheDir: cacheDir},
	}
}

// Default returns the process-wide engine built from DefaultSources.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine(DefaultSources())
	})

	return defaultEngine
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Init resolves the ffmpeg binary and returns its path. The lookup itself
// is not cancelled by ctx, so one impatient caller cannot fail it for the
// others; ctx only bounds how long this caller waits.
func (e *Engine) Init(ctx context.Context) (string, error) {
	e.mu.Lock()
	switch e.state {
	case Ready:
		defer e.mu.Unlock()
		return e.path, nil
	case Failed:
		defer e.mu.Unlock()
		return "", e.err
	case Initializing:
		done := e.done
		e.mu.Unlock()
		return e.wait(ctx, done)
	}

	e.state = Initializing
	done := make(chan struct{})
	e.done = done
	e.mu.Unlock()

	go func() {
		path, err := e.resolve(context.WithoutCancel(ctx))

		e.mu.Lock()
		if err != nil {
			e.state, e.err = Failed, err
		} else {
			e.state, e.path = Ready, path
		}
		e.mu.Unlock()
		close(done)
	}()

	return e.wait(ctx, done)
}

func (e *Engine) wait(ctx context.Context, done <-chan struct{}) (string, error) {
	select {
	case <-done:
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for ffmpeg: %w", ctx.Err())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.path, e.err
}

func (e *Engine) resolve(ctx context.Context) (string, error) {
	if len(e.sources) == 0 {
		return "", &InitError{Err: ErrNoSources}
	}

	var errs []error
	for _, src := range e.sources {
		log := e.logger.With(slog.String("source", src.Name()))

		path, err := src.Resolve(ctx)
		if err != nil {
			log.Debug("ffmpeg source failed", slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		if err := e.probe(ctx, path); err != nil {
			log.Debug("ffmpeg probe failed", slog.String("path", path), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: probe %s: %w", src.Name(), path, err))
			continue
		}

		log.Info("ffmpeg ready", slog.String("path", path))
		return path, nil
	}

	return "", &InitError{Err: errors.Join(errs...)}
}

func probeVersion(ctx context.Context, path string) error {
	// #nosec G204 - path comes from a configured source, not user input
	cmd := exec.CommandContext(ctx, path, "-version")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExecError{Args: []string{"-version"}, Stderr: stderr.String(), Err: err}
	}

	return nil
}
