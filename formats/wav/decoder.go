// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/dimuse/audio"
)

// source wraps a go-audio wav.Decoder positioned at the PCM chunk.
type source struct {
	dec        *wav.Decoder
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	cues       []audio.Cue
}

var _ audio.CueSource = (*source)(nil)

func (s *source) SampleRate() int   { return s.sampleRate }
func (s *source) Channels() int     { return s.channels }
func (s *source) Close() error      { return nil }
func (s *source) Cues() []audio.Cue { return s.cues }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	// 8-bit WAV data is unsigned, wider depths are signed
	bias, scale := 0, float32(int(1)<<(s.bitDepth-1))
	if s.bitDepth == 8 {
		bias = 128
	}
	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]-bias) / scale
	}

	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// Cue metadata lives after the data chunk and go-audio consumes the
	// whole stream to reach it, so the file is decoded from memory twice.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	if len(data) < 12 || !bytes.Equal(data[:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	if dec.NumChans == 0 || dec.WavAudioFormat != 1 {
		return nil, ErrUnsupportedWavLayout
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
		cues:       readCues(data),
	}, nil
}

// readCues collects the cue points of a WAV file, named from its labl chunks.
func readCues(data []byte) []audio.Cue {
	meta := wav.NewDecoder(bytes.NewReader(data))
	meta.ReadMetadata()
	if meta.Metadata == nil || len(meta.Metadata.CuePoints) == 0 {
		return nil
	}

	labels := readLabels(data)

	cues := make([]audio.Cue, 0, len(meta.Metadata.CuePoints))
	for _, cp := range meta.Metadata.CuePoints {
		id := binary.LittleEndian.Uint32(cp.ID[:])
		cues = append(cues, audio.Cue{
			ID:    id,
			Name:  labels[id],
			Frame: int(cp.Position),
		})
	}

	sort.SliceStable(cues, func(i, j int) bool { return cues[i].Frame < cues[j].Frame })
	return cues
}
