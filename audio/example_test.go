// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/internal/audiotest"
)

// Example_resampler streams a 44.1 kHz tone through the resampler.
func Example_resampler() {
	source := audiotest.NewSineSource(44100, 1, 44100, 440.0) // 1 second

	resampler := audio.NewResampler(source, 16000)
	fmt.Printf("Output sample rate: %d Hz\n", resampler.SampleRate())

	sig, err := audio.Collect(resampler)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Total samples read: %d\n", sig.Len())
	// Output:
	// Output sample rate: 16000 Hz
	// Total samples read: 16000
}

// ExampleRender downmixes and compresses a stereo recording for upload.
func ExampleRender() {
	sig := audiotest.SineSignal(48000, 2, 2.5, 440, 0.8)

	out, err := audio.Render(sig, audio.RenderSpec{
		TargetSampleRate: 16000,
		TargetChannels:   1,
		Compressor: &audio.CompressorParams{
			ThresholdDB: -24, KneeDB: 30, Ratio: 12, Attack: 0.003, Release: 0.25,
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d Hz, %d channel, %d samples, %.1fs\n", out.SampleRate, out.NumChannels(), out.Len(), out.Duration)
	// Output:
	// 16000 Hz, 1 channel, 40000 samples, 2.5s
}

// ExampleSignal_Decimate halves the rate of a signal.
func ExampleSignal_Decimate() {
	sig := audiotest.RampSignal(16000, 1, 16001)
	half := sig.Decimate(2)

	fmt.Println(half.SampleRate, half.Len())
	// Output: 8000 8000
}
