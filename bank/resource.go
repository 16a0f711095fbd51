// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"errors"
	"fmt"
	"sort"
)

// StartMarker names the marker that opens a region jumps must always reach.
const StartMarker = "start"

// Region is a contiguous byte range of a resource's data.
type Region struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Marker is a named byte position; it belongs to every region whose range
// includes Pos (ends inclusive).
type Marker struct {
	Pos  int    `json:"pos"`
	Name string `json:"name"`
}

// Jump moves playback from the end of region From to region To when the
// track's hook equals Hook. FadeMs > 0 crossfades instead of cutting.
type Jump struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Hook   int `json:"hook"`
	FadeMs int `json:"fade_ms,omitempty"`
}

// LipFrame is the mouth shape shown from Ms onward.
type LipFrame struct {
	Ms     int `json:"ms"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Resource is a fully loaded sound.
type Resource struct {
	ID           int
	Name         string
	Group        Group
	Disk         int // 0 means available on every disk
	Bits         int // 8 (unsigned), 12 (packed) or 16
	Channels     int
	Freq         int
	LittleEndian bool
	ExtComp      bool

	Regions []Region
	Markers []Marker
	Jumps   []Jump
	LipSync []LipFrame

	Data []byte
}

// Validate clamps region, marker and jump data into the bounds of Data.
// The resource is always usable afterwards; the returned error lists what
// had to be fixed.
func (r *Resource) Validate() error {
	var errs []error

	if r.Channels < 1 {
		r.Channels = 1
	}

	size := len(r.Data)
	if len(r.Regions) == 0 {
		r.Regions = []Region{{Offset: 0, Length: size}}
	}

	for i := range r.Regions {
		reg := &r.Regions[i]
		off := min(max(reg.Offset, 0), size)
		length := min(max(reg.Length, 0), size-off)
		if off != reg.Offset || length != reg.Length {
			errs = append(errs, fmt.Errorf("%w: region %d [%d,+%d) clamped to [%d,+%d)",
				ErrRegionOutOfRange, i, reg.Offset, reg.Length, off, length))
			reg.Offset, reg.Length = off, length
		}
	}

	markers := r.Markers[:0]
	for _, mk := range r.Markers {
		if mk.Pos < 0 || mk.Pos > size {
			errs = append(errs, fmt.Errorf("%w: marker %q at %d", ErrRegionOutOfRange, mk.Name, mk.Pos))
			continue
		}
		markers = append(markers, mk)
	}
	r.Markers = markers

	n := len(r.Regions)
	jumps := r.Jumps[:0]
	for _, j := range r.Jumps {
		if j.From < 0 || j.From >= n || j.To < 0 || j.To >= n {
			errs = append(errs, fmt.Errorf("%w: jump %d->%d with %d regions", ErrMalformedJumpTable, j.From, j.To, n))
			continue
		}
		if j.FadeMs < 0 {
			j.FadeMs = 0
		}
		jumps = append(jumps, j)
	}
	r.Jumps = jumps

	sort.SliceStable(r.LipSync, func(i, j int) bool { return r.LipSync[i].Ms < r.LipSync[j].Ms })

	return errors.Join(errs...)
}

// inRegion reports whether byte position pos lies in region i.
func (r *Resource) inRegion(i, pos int) bool {
	reg := r.Regions[i]
	return pos >= reg.Offset && pos <= reg.Offset+reg.Length
}

func (r *Resource) region(i int) (Region, bool) {
	if i < 0 || i >= len(r.Regions) {
		return Region{}, false
	}
	return r.Regions[i], true
}

// startsWithStart reports whether region i opens with a StartMarker.
func (r *Resource) startsWithStart(i int) bool {
	reg, ok := r.region(i)
	if !ok {
		return false
	}
	for _, mk := range r.Markers {
		if mk.Pos == reg.Offset && mk.Name == StartMarker {
			return true
		}
	}
	return false
}

// StoredSize returns how many data bytes frames take at the resource's
// layout.
func StoredSize(frames, channels, bits int) int {
	samples := frames * channels
	switch bits {
	case 8:
		return samples
	case 12:
		return samples / 2 * 3
	}
	return samples * 2
}
