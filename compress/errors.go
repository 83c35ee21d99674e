// SPDX-License-Identifier: EPL-2.0

package compress

import (
	"errors"
	"fmt"
)

// ErrOversized marks a last-resort encoding that is still above the
// ceiling. It is logged, never returned.
var ErrOversized = errors.New("encoded audio exceeds size ceiling")

// CompressionError reports the controller stage that failed.
type CompressionError struct {
	Stage string
	Err   error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compress (%s): %v", e.Stage, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }
