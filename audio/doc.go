// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory signal model and the offline
// rendering primitives used to shrink recordings before upload.
//
// # Source Interface
//
// Decoders and processors are chained through the pull-based Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// ReadSamples fills dst with interleaved float32 samples in [-1, 1] and
// returns io.EOF, possibly together with the final chunk, once the stream
// ends.
//
// # Signals
//
// Collect drains a Source into a Signal, which holds one slice per channel
// together with the sample rate and duration. Every channel holds
// FrameCount(Duration, SampleRate) samples. Signal.Reader streams it back.
//
// # Rendering
//
// Render runs a Signal through the processing chain
//
//	ChannelPicker(0) -> DynamicsCompressor (optional) -> Resampler
//
// and returns a mono signal at the requested rate whose length is exactly
// FrameCount(Duration, TargetSampleRate):
//
//	out, err := audio.Render(sig, audio.RenderSpec{
//	    TargetSampleRate: 16000,
//	    TargetChannels:   1,
//	})
//
// The Resampler uses cubic interpolation and a one-pole low-pass when
// downsampling. The DynamicsCompressor is a feed-forward soft-knee design
// with per-channel attack and release smoothing.
//
// # Registry
//
// Registry maps format keys to Decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.Get("wav")
//
// # Media Values
//
// Input is a user file (bytes, declared MIME type and name) and Encoded is
// the file that will be uploaded in its place.
package audio
