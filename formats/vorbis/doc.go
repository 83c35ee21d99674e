// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with github.com/jfreymuth/oggvorbis.
// The decoder produces float32 samples natively, so no dequantization step
// is involved.
package vorbis
