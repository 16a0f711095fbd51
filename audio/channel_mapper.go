// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper converts a source to a fixed output channel count.
// Mono sources are duplicated into every output channel; multi-channel sources
// are averaged down to mono, or folded into stereo by averaging odd and even channels.
type ChannelMapper struct {
	src Source
	out int
	tmp []float32
}

// NewChannelMapper wraps src so that it yields out channels (1 or 2).
func NewChannelMapper(src Source, out int) (*ChannelMapper, error) {
	if out != 1 && out != 2 {
		return nil, fmt.Errorf("%w: %d output channels", ErrUnsupportedChannels, out)
	}
	if src.Channels() < 1 {
		return nil, fmt.Errorf("%w: %d input channels", ErrUnsupportedChannels, src.Channels())
	}

	return &ChannelMapper{
		src: src,
		out: out,
		tmp: make([]float32, 4096),
	}, nil
}

// NewMonoMixer down-mixes src to a single channel.
func NewMonoMixer(src Source) *ChannelMapper {
	m, _ := NewChannelMapper(src, 1)
	return m
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.out }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMapper) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.out {
		// Pass-through
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	samplesNeeded := frames * in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}

	n, err := m.src.ReadSamples(m.tmp[:samplesNeeded])
	if n == 0 {
		return 0, err
	}
	got := n / in

	switch {
	case in == 1: // mono to stereo
		for f := range got {
			v := m.tmp[f]
			dst[2*f] = v
			dst[2*f+1] = v
		}
	case m.out == 1 && in == 2: // stereo to mono (most common)
		for f := range got {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	case m.out == 1: // generic down-mix
		inv := float32(1.0) / float32(in)
		for f := range got {
			sum := float32(0)
			base := f * in
			for c := range in {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}
	default: // fold many channels into stereo
		for f := range got {
			var l, r float32
			var nl, nr int
			base := f * in
			for c := range in {
				if c%2 == 0 {
					l += m.tmp[base+c]
					nl++
				} else {
					r += m.tmp[base+c]
					nr++
				}
			}
			dst[2*f] = l / float32(nl)
			dst[2*f+1] = r / float32(nr)
		}
	}

	return got * m.out, err
}
