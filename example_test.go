// SPDX-License-Identifier: EPL-2.0

package audsqueeze_test

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ik5/audsqueeze"
	"github.com/ik5/audsqueeze/audio"
	"github.com/ik5/audsqueeze/formats/wav"
	"github.com/ik5/audsqueeze/internal/audiotest"
)

// Example shrinks a 16-bit 48 kHz recording that is over the threshold.
func Example() {
	data, _ := wav.Encode(audiotest.SineSignal(48000, 1, 2, 300, 0.6), 16, 1)
	in := audio.Input{Data: data, MIMEType: "audio/wav", Name: "interview.wav"}

	p := audsqueeze.New(
		audsqueeze.WithThreshold(64<<10),
		audsqueeze.WithLogger(slog.New(slog.DiscardHandler)),
	)
	out := p.Prepare(context.Background(), in, nil)

	fmt.Printf("%s: %d -> %d bytes\n", out.Name, in.Size(), out.Size())
	// Output: interview.wav: 192044 -> 16044 bytes
}
