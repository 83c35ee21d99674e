// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput    = errors.New("audio input is empty")
	ErrUnknownFormat = errors.New("unrecognised audio format")
	ErrNoDecoder     = errors.New("no decoder for audio format")
)

// DecodeError reports an input that could not be turned into a signal.
type DecodeError struct {
	Format string // empty when the format was never identified
	Name   string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decode %q: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("decode %q as %s: %v", e.Name, e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
