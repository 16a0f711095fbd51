// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"

	"github.com/ik5/dimuse/utils"
)

// Flags describe the layout of a raw PCM buffer queued to a mixer.
type Flags uint8

const (
	// Unsigned marks 8-bit samples stored with a 0x80 bias.
	Unsigned Flags = 1 << iota
	// Bits16 marks 16-bit samples; without it samples are 8-bit.
	Bits16
	// LittleEndian marks 16-bit samples stored low byte first.
	LittleEndian
	// Stereo marks interleaved left/right frames.
	Stereo
)

// Channels returns the channel count implied by f.
func (f Flags) Channels() int {
	if f&Stereo != 0 {
		return 2
	}
	return 1
}

// SampleSize returns the byte width of a single sample.
func (f Flags) SampleSize() int {
	if f&Bits16 != 0 {
		return 2
	}
	return 1
}

// FrameSize returns the byte width of one interleaved frame.
func (f Flags) FrameSize() int {
	return f.SampleSize() * f.Channels()
}

// Samples reports how many samples data holds under f, ignoring a trailing partial sample.
func (f Flags) Samples(data []byte) int {
	return len(data) / f.SampleSize()
}

// Decode converts as many samples of data as fit into dst and returns the number written.
func Decode(dst []float32, data []byte, f Flags) int {
	n := min(len(dst), f.Samples(data))

	switch {
	case f&Bits16 != 0 && f&LittleEndian != 0:
		for i := range n {
			dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(data[2*i:])))
		}
	case f&Bits16 != 0:
		for i := range n {
			dst[i] = utils.Int16ToFloat32(int16(binary.BigEndian.Uint16(data[2*i:])))
		}
	case f&Unsigned != 0:
		for i := range n {
			dst[i] = utils.Uint8ToFloat32(data[i])
		}
	default:
		for i := range n {
			dst[i] = float32(int8(data[i])) / 128.0
		}
	}

	return n
}
