// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF recordings, the default export of
// many macOS voice recorders, using github.com/go-audio/aiff.
//
// Signed PCM at 8, 16, 24 and 32 bits is accepted at any rate and channel
// count. A file without a usable COMM chunk fails with
// ErrUnsupportedAiffLayout.
//
//	src, err := aiff.Decoder{}.Decode(bytes.NewReader(data))
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // try another decoder
//	}
//
// Unlike WAV, 8-bit AIFF samples are signed, so every depth goes through
// the same normalization. Readers that cannot seek are buffered first.
package aiff
