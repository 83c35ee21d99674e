// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files.
//
// The Decoder is built on github.com/go-audio/wav and accepts integer PCM
// (including WAVE_FORMAT_EXTENSIBLE) at 8, 16, 24 or 32 bits with any
// channel count and sample rate. Samples are returned as float32 in
// [-1.0, 1.0]:
//
//	source, err := wav.Decoder{}.Decode(file)
//
// Encode and WritePCM produce the smallest WAV the upload path needs: a
// canonical 44-byte header followed by mono 8-bit unsigned or 16-bit signed
// little-endian samples.
//
//	data, err := wav.Encode(sig, 8, 0.5)
//
// Header layout:
//
//	0  "RIFF"         24 SampleRate
//	4  36+dataLength  28 ByteRate (SampleRate*bytesPerSample)
//	8  "WAVE"         32 BlockAlign (bytesPerSample)
//	12 "fmt "         34 BitsPerSample
//	16 16             36 "data"
//	20 1 (PCM)        40 dataLength
//	22 1 (mono)       44 samples
//
// Any other bit depth is rejected with an *EncodeError wrapping
// ErrInvalidBitDepth.
package wav
