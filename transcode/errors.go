// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSources     = errors.New("no ffmpeg sources configured")
	ErrNotConfigured = errors.New("source not configured")
	ErrEmptyInput    = errors.New("audio input is empty")
	ErrDownload      = errors.New("download failed")
)

// InitError reports that no source produced a working ffmpeg binary.
// Err joins the failure of every source in order.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("ffmpeg unavailable: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ExecError represents a failed ffmpeg run, including its stderr output.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("ffmpeg failed: %v", e.Err)
	}

	return fmt.Sprintf("ffmpeg failed: %v: %s", e.Err, msg)
}

func (e *ExecError) Unwrap() error { return e.Err }
