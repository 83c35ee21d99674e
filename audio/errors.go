// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize      = errors.New("dst size must be multiple of channels")
	ErrNoFrames            = errors.New("no audio frames")
	ErrEmptySignal         = errors.New("signal has no channels")
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
	ErrInvalidChannelCount = errors.New("only mono rendering is supported")
	ErrInvalidCompressor   = errors.New("invalid compressor parameters")
	ErrChannelOutOfRange   = errors.New("channel index out of range")
	ErrNoProgress          = errors.New("source returned no data")
)

// RenderError reports a rendering pass that could not run with the given spec.
type RenderError struct {
	Spec RenderSpec
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %d Hz/%d ch: %v", e.Spec.TargetSampleRate, e.Spec.TargetChannels, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
