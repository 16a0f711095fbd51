// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/dimuse/audio"
	"github.com/ik5/dimuse/pcm"
	"github.com/ik5/dimuse/utils"
)

// Manifest describes the sounds of a bank and the files holding them.
// Positions are given in frames of the decoded file.
type Manifest struct {
	// Rate resamples every sound that does not set its own rate.
	Rate   int     `json:"rate,omitempty"`
	Sounds []Entry `json:"sounds"`
}

type Entry struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	File    string        `json:"file"`
	Group   string        `json:"group,omitempty"`
	Bits    int           `json:"bits,omitempty"` // 8, 12 or 16 (default)
	Rate    int           `json:"rate,omitempty"`
	Disk    int           `json:"disk,omitempty"`
	Regions []int         `json:"regions,omitempty"` // first frame of every region after the first
	Markers []MarkerEntry `json:"markers,omitempty"`
	Jumps   []Jump        `json:"jumps,omitempty"`
	LipSync []LipFrame    `json:"lipsync,omitempty"`
}

type MarkerEntry struct {
	Frame int    `json:"frame"`
	Name  string `json:"name"`
}

// ReadManifest parses a JSON manifest.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	seen := make(map[int]bool, len(m.Sounds))
	for _, e := range m.Sounds {
		if seen[e.ID] {
			return nil, fmt.Errorf("manifest: sound id %d listed twice", e.ID)
		}
		seen[e.ID] = true

		if _, ok := ParseGroup(e.Group); !ok {
			return nil, fmt.Errorf("manifest: sound %d: unknown group %q", e.ID, e.Group)
		}
		switch e.Bits {
		case 0, 8, 12, 16:
		default:
			return nil, fmt.Errorf("manifest: sound %d: %d bits per sample not supported", e.ID, e.Bits)
		}
	}

	return &m, nil
}

// LoadManifest reads the manifest called name from fsys and decodes every
// sound it lists into a new Memory bank.
func LoadManifest(ctx context.Context, fsys fs.FS, name string, reg *audio.Registry, opts ...Option) (*Memory, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	man, err := ReadManifest(f)
	if err != nil {
		return nil, err
	}

	m := NewMemory(opts...)
	if err := m.Load(ctx, fsys, man, reg); err != nil {
		return nil, err
	}
	return m, nil
}

// Load decodes the sounds of man concurrently and adds them to m. The first
// failure cancels the remaining work.
func (m *Memory) Load(ctx context.Context, fsys fs.FS, man *Manifest, reg *audio.Registry) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, e := range man.Sounds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rate := e.Rate
			if rate == 0 {
				rate = man.Rate
			}

			res, err := loadEntry(fsys, e, rate, reg)
			if err != nil {
				return fmt.Errorf("sound %d (%s): %w", e.ID, e.File, err)
			}

			m.log.Debug("sound loaded", "id", res.ID, "name", res.Name,
				"bytes", len(res.Data), "regions", len(res.Regions), "markers", len(res.Markers))
			m.Add(res)
			return nil
		})
	}

	return g.Wait()
}

func loadEntry(fsys fs.FS, e Entry, rate int, reg *audio.Registry) (*Resource, error) {
	dec, ok := reg.ForPath(e.File)
	if !ok {
		return nil, ErrUnknownFormat
	}

	f, err := fsys.Open(e.File)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer src.Close()

	var cues []audio.Cue
	if cs, ok := src.(audio.CueSource); ok {
		cues = cs.Cues()
	}

	srcRate := src.SampleRate()
	var stream audio.Source = src
	if rate > 0 && rate != srcRate {
		stream = audio.NewResampler(src, rate)
	} else {
		rate = srcRate
	}

	samples, err := readAll(stream)
	if err != nil {
		return nil, err
	}

	bits := e.Bits
	if bits == 0 {
		bits = 16
	}
	channels := stream.Channels()

	// Frame positions from the file are rescaled to the output rate
	scale := func(frame int) int {
		return int(int64(frame) * int64(rate) / int64(srcRate))
	}
	byteAt := func(frame int) int {
		return StoredSize(scale(frame), channels, bits)
	}

	group, _ := ParseGroup(e.Group)

	res := &Resource{
		ID:           e.ID,
		Name:         e.Name,
		Group:        group,
		Disk:         e.Disk,
		Bits:         bits,
		Channels:     channels,
		Freq:         rate,
		LittleEndian: bits == 16,
		Jumps:        e.Jumps,
		LipSync:      e.LipSync,
		Data:         encode(samples, bits),
	}

	for _, mk := range e.Markers {
		res.Markers = append(res.Markers, Marker{Pos: byteAt(mk.Frame), Name: mk.Name})
	}

	starts := e.Regions
	if len(starts) == 0 {
		// Every cue point opens a region
		for _, c := range cues {
			starts = append(starts, c.Frame)
			name := c.Name
			if name == "" {
				name = fmt.Sprintf("cue%d", c.ID)
			}
			res.Markers = append(res.Markers, Marker{Pos: byteAt(c.Frame), Name: name})
		}
	}
	res.Regions = regionsAt(starts, byteAt, len(res.Data))

	return res, nil
}

// regionsAt splits size bytes into regions beginning at every start frame.
func regionsAt(starts []int, byteAt func(int) int, size int) []Region {
	offsets := []int{0}
	sorted := append([]int(nil), starts...)
	sort.Ints(sorted)
	for _, f := range sorted {
		off := byteAt(f)
		if off > offsets[len(offsets)-1] && off < size {
			offsets = append(offsets, off)
		}
	}

	regions := make([]Region, len(offsets))
	for i, off := range offsets {
		end := size
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		regions[i] = Region{Offset: off, Length: end - off}
	}
	return regions
}

func readAll(src audio.Source) ([]float32, error) {
	ch := max(src.Channels(), 1)
	size := max(src.BufSize(), 1024)
	buf := make([]float32, size-size%ch)

	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			return out, nil
		}
	}
}

// encode renders samples in the stored layout for bits.
func encode(samples []float32, bits int) []byte {
	switch bits {
	case 8:
		out := make([]byte, len(samples))
		for i, v := range samples {
			out[i] = uint8(int(utils.Float32ToInt16(v)>>8) + 0x80)
		}
		return out
	case 12:
		be := make([]byte, 0, (len(samples)+1)*2)
		for _, v := range samples {
			be = binary.BigEndian.AppendUint16(be, uint16(utils.Float32ToInt16(v)))
		}
		if len(samples)%2 != 0 {
			be = append(be, 0, 0)
		}
		return pcm.Encode12Bit(be)
	}

	out := make([]byte, 0, len(samples)*2)
	for _, v := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(utils.Float32ToInt16(v)))
	}
	return out
}
