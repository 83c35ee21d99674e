// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
)

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrUnsupportedEncoding = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")
	ErrInvalidBitDepth     = errors.New("bit depth must be 8 or 16")
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
)

// EncodeError reports a signal that could not be written as PCM WAV.
type EncodeError struct {
	BitDepth int
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %d-bit wav: %v", e.BitDepth, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
