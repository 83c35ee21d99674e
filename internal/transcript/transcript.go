// SPDX-License-Identifier: EPL-2.0

// Package transcript sends prepared audio to the proxy and formats the
// segments it returns.
package transcript

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidResponse = errors.New("transcript: invalid response from transcription API")
	ErrNoAudio         = errors.New("transcript: no audio")
)

// UpstreamAPIError is a non-2xx answer relayed by the proxy.
type UpstreamAPIError struct {
	Status  int
	Message string
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("transcription API error (%d): %s", e.Status, e.Message)
}

// Result is the verbose JSON returned by the transcription API.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Timestamp renders seconds as MM:SS, with a tenths digit when it is not
// zero. Minutes are not wrapped into hours.
func Timestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	// Work in whole tenths so 75.3 does not become 75.29999.
	tenths := int(math.Floor(seconds*10 + 1e-6))
	minutes := tenths / 600
	secs := tenths / 10 % 60

	ts := fmt.Sprintf("%02d:%02d", minutes, secs)
	if t := tenths % 10; t > 0 {
		ts += fmt.Sprintf(".%d", t)
	}

	return ts
}

// Format writes one "[MM:SS] text" paragraph per segment.
func Format(r *Result) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	for _, s := range r.Segments {
		b.WriteString("[")
		b.WriteString(Timestamp(s.Start))
		b.WriteString("] ")
		b.WriteString(strings.TrimSpace(s.Text))
		b.WriteString("\n\n")
	}

	return b.String()
}
