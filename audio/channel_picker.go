// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelPicker reduces a multi-channel stream to mono by keeping a single
// channel and dropping the rest.
type ChannelPicker struct {
	src     Source
	channel int
	tmp     []float32
}

func NewChannelPicker(src Source, channel int) *ChannelPicker {
	return &ChannelPicker{
		src:     src,
		channel: channel,
		tmp:     make([]float32, 8192),
	}
}

func (p *ChannelPicker) SampleRate() int { return p.src.SampleRate() }
func (p *ChannelPicker) Channels() int   { return 1 }
func (p *ChannelPicker) Close() error {
	if err := p.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (p *ChannelPicker) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := p.src.Channels()
	if p.channel < 0 || p.channel >= channels {
		return 0, ErrChannelOutOfRange
	}
	if channels == 1 {
		return p.src.ReadSamples(dst)
	}

	needed := len(dst) * channels
	if cap(p.tmp) < needed {
		p.tmp = make([]float32, needed)
	}
	p.tmp = p.tmp[:needed]

	n, err := p.src.ReadSamples(p.tmp)
	frames := n / channels
	for f := range frames {
		dst[f] = p.tmp[f*channels+p.channel]
	}

	return frames, err
}
