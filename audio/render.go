// SPDX-License-Identifier: EPL-2.0

package audio

// RenderSpec describes one offline rendering pass.
type RenderSpec struct {
	TargetSampleRate int
	TargetChannels   int
	// Compressor is optional; nil leaves dynamics untouched.
	Compressor *CompressorParams
}

func (s RenderSpec) validate() error {
	if s.TargetSampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if s.TargetChannels != 1 {
		return ErrInvalidChannelCount
	}
	if s.Compressor != nil {
		return s.Compressor.Validate()
	}

	return nil
}

// Render produces a mono signal at spec.TargetSampleRate from channel 0 of
// sig, optionally compressed. The result holds exactly
// FrameCount(sig.Duration, spec.TargetSampleRate) samples. The input is not
// modified.
func Render(sig *Signal, spec RenderSpec) (*Signal, error) {
	if sig == nil || sig.NumChannels() == 0 || sig.Len() == 0 {
		return nil, &RenderError{Spec: spec, Err: ErrEmptySignal}
	}
	if sig.SampleRate <= 0 {
		return nil, &RenderError{Spec: spec, Err: ErrInvalidSampleRate}
	}
	if err := spec.validate(); err != nil {
		return nil, &RenderError{Spec: spec, Err: err}
	}

	var src Source = NewChannelPicker(sig.Reader(), 0)
	if spec.Compressor != nil {
		src = NewDynamicsCompressor(src, *spec.Compressor)
	}
	src = NewResampler(src, spec.TargetSampleRate)
	defer src.Close()

	out, err := Collect(src)
	if err != nil {
		return nil, &RenderError{Spec: spec, Err: err}
	}

	want := FrameCount(sig.Duration, spec.TargetSampleRate)
	out.Channels[0] = fit(out.Channels[0], want)
	out.Duration = sig.Duration

	return out, nil
}

// fit truncates or pads samples to n, padding with the last sample.
func fit(samples []float32, n int) []float32 {
	if len(samples) >= n {
		return samples[:n:n]
	}

	var last float32
	if len(samples) > 0 {
		last = samples[len(samples)-1]
	}
	for len(samples) < n {
		samples = append(samples, last)
	}

	return samples
}
