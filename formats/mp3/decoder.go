// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/dimuse/audio"
	"github.com/ik5/dimuse/pcm"
)

// go-mp3 always produces interleaved stereo 16-bit little-endian PCM.
const (
	channels = 2
	layout   = pcm.Bits16 | pcm.LittleEndian | pcm.Stereo
)

// mp3Reader is the part of gomp3.Decoder a source reads through.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	carry      int // bytes of a split sample kept at the front of buf
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%channels
	if want == 0 {
		return 0, nil
	}

	size := want * 2
	if cap(s.buf) < size {
		grown := make([]byte, size)
		copy(grown, s.buf[:s.carry])
		s.buf = grown
	}
	s.buf = s.buf[:size]

	var got int
	var err error
	for got == 0 && err == nil {
		var n int
		n, err = s.dec.Read(s.buf[s.carry:])
		n += s.carry

		// Keep the bytes of a trailing partial frame for the next read
		whole := n - n%layout.FrameSize()
		got = pcm.Decode(dst[:want], s.buf[:whole], layout)
		s.carry = copy(s.buf, s.buf[whole:n])
	}

	if err != nil && err != io.EOF {
		return got, fmt.Errorf("%w", err)
	}
	if err == io.EOF && got == 0 {
		return 0, io.EOF
	}
	return got, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
