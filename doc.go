// SPDX-License-Identifier: EPL-2.0

// Package audsqueeze shrinks audio recordings so they fit under a
// transcription API's upload limit.
//
// A Preparer never fails. Inputs at or below the threshold (5 MiB by
// default) pass through untouched. Larger ones go through, in order:
//
//  1. render: native decode, then the compress.Controller which resamples
//     to 8 or 6 kHz mono, compresses dynamics and writes 8-bit WAV,
//     trimming or decimating as a last resort;
//  2. transcode: ffmpeg to 16 kHz mono 24 kbit/s MP3;
//  3. the original input.
//
// Quick start:
//
//	p := audsqueeze.New()
//	out := p.Prepare(ctx, audio.Input{Data: data, Name: "meeting.m4a"}, func(pct float64) {
//	    fmt.Fprintf(os.Stderr, "\r%3.0f%%", pct)
//	})
//
// The building blocks live in sub-packages:
//   - audio: signals, streaming sources and the rendering chain
//   - formats: format detection and decoders for WAV, MP3, Ogg Vorbis, AIFF
//   - formats/wav: the PCM WAV encoder
//   - compress: the size-driven controller
//   - transcode: the ffmpeg engine
package audsqueeze
