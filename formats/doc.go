// SPDX-License-Identifier: EPL-2.0

// Package formats turns raw audio files into decoded signals.
//
// Detect sniffs the container from the file contents with
// github.com/gabriel-vasile/mimetype, falling back to the declared MIME type
// and then to the file extension. Decode picks the matching decoder from the
// registry and materialises the whole stream:
//
//	sig, err := formats.Decode(audio.Input{Data: data, Name: "memo.wav"})
//
// WAV, MP3, Ogg Vorbis and AIFF decode natively. M4A, FLAC and WebM are
// recognised but have no native decoder; Supports reports false for them so
// callers can route them elsewhere.
package formats
