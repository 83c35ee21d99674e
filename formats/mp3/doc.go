// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always reports two channels, since go-mp3 upmixes mono
// streams to stereo. Samples are dequantized from 16-bit PCM to float32 in
// [-1.0, 1.0].
package mp3
