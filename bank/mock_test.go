// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ik5/dimuse/audio"
	"github.com/ik5/dimuse/internal/audiotest"
)

// cueSource wraps a constant mock source with cue points.
type cueSource struct {
	*audiotest.MockSource
	cues []audio.Cue
}

func (c *cueSource) Cues() []audio.Cue { return c.cues }

// textDecoder builds sources from a one-line description such as
// "22050 1 100 0.5 25,50": rate, channels, frames, value and cue frames.
type textDecoder struct{}

func (textDecoder) Decode(r io.Reader) (audio.Source, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rate, channels, frames int
	var value float32
	var cueList string
	n, _ := fmt.Sscan(string(raw), &rate, &channels, &frames, &value, &cueList)
	if n < 4 {
		return nil, fmt.Errorf("bad fixture %q", raw)
	}

	src := audiotest.NewConstantSource(rate, channels, frames, value)
	if cueList == "" {
		return src, nil
	}

	cs := &cueSource{MockSource: src}
	for i, f := range strings.Split(cueList, ",") {
		frame, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		cs.cues = append(cs.cues, audio.Cue{ID: uint32(i + 1), Frame: frame})
	}
	return cs, nil
}

func testRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("txt", textDecoder{})
	return reg
}

// threeRegions is a 16-bit mono resource with three 100-byte regions, a
// "start" marker on region 0 and a trigger marker in region 1.
func threeRegions() *Resource {
	return &Resource{
		ID:           100,
		Name:         "theme",
		Group:        GroupMusic,
		Bits:         16,
		Channels:     1,
		Freq:         22050,
		LittleEndian: true,
		Regions:      []Region{{0, 100}, {100, 100}, {200, 100}},
		Markers:      []Marker{{0, StartMarker}, {150, "boss"}},
		Jumps: []Jump{
			{From: 2, To: 0, Hook: 7},
			{From: 1, To: 0, Hook: 3, FadeMs: 500},
		},
		LipSync: []LipFrame{{Ms: 200, Width: 2, Height: 3}, {Ms: 0, Width: 1, Height: 1}},
		Data:    make([]byte, 300),
	}
}
