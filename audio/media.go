// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"path/filepath"
	"strings"
)

// Input is an audio file as handed over by the user: raw bytes plus the
// declared media type and original file name.
type Input struct {
	Data     []byte
	MIMEType string
	Name     string
}

func (in Input) Size() int64 { return int64(len(in.Data)) }

// Ext returns the lower-cased file extension without the dot.
func (in Input) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(in.Name)), ".")
}

// Rename swaps the extension of the input name for suffix, so "talk.m4a"
// with suffix "_compressed.wav" becomes "talk_compressed.wav".
func (in Input) Rename(suffix string) string {
	base := filepath.Base(in.Name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "audio"
	}

	return base + suffix
}

// Encoded is a ready-to-upload audio file.
type Encoded struct {
	Data     []byte
	MIMEType string
	Name     string
}

func (e *Encoded) Size() int64 { return int64(len(e.Data)) }

// Original wraps an input unchanged.
func Original(in Input) *Encoded {
	return &Encoded{Data: in.Data, MIMEType: in.MIMEType, Name: in.Name}
}
