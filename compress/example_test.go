// SPDX-License-Identifier: EPL-2.0

package compress_test

import (
	"fmt"
	"log/slog"

	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/compress"
	"github.com/ik5/audsqueeze/formats/wav"
	"github.com/ik5/audsqueeze/internal/audiotest"
)

func ExampleController_Compress() {
	data, _ := wav.Encode(audiotest.SineSignal(48000, 2, 1, 440, 0.5), 16, 1)
	in := audio.Input{Data: data, MIMEType: "audio/wav", Name: "standup.wav"}

	var steps []float64
	c := compress.New(compress.WithLogger(slog.New(slog.DiscardHandler)))
	out, err := c.Compress(in, compress.WorkingCeiling, func(p float64) {
		steps = append(steps, p)
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(steps)
	fmt.Printf("%s %d bytes\n", out.Name, out.Size())
	// Output:
	// [10 30 60 100]
	// standup.wav 8044 bytes
}
