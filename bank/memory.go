// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// Option configures a Memory bank.
type Option func(*Memory)

// WithLogger routes validation warnings to l.
func WithLogger(l *slog.Logger) Option {
	return func(m *Memory) {
		if l != nil {
			m.log = l
		}
	}
}

// Memory is a Bank over fully decoded resources held in memory. It is safe
// for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	byID   map[int]*Resource
	byName map[string]*Resource
	disk   int
	log    *slog.Logger
	open   atomic.Int64
}

var _ Bank = (*Memory)(nil)

func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		byID:   make(map[int]*Resource),
		byName: make(map[string]*Resource),
		disk:   1,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add validates r and stores it, replacing any resource with the same ID.
// Data problems are clamped and logged, never fatal.
func (m *Memory) Add(r *Resource) {
	if err := r.Validate(); err != nil {
		m.log.Warn("resource data clamped", "id", r.ID, "name", r.Name, "err", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byID[r.ID]; ok && old.Name != "" {
		delete(m.byName, old.Name)
	}
	m.byID[r.ID] = r
	if r.Name != "" {
		m.byName[r.Name] = r
	}
}

// Remove drops the resource with id. Handles already open keep working.
func (m *Memory) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.byID[id]; ok {
		delete(m.byName, r.Name)
		delete(m.byID, id)
	}
}

// Resources returns every stored resource sorted by ID.
func (m *Memory) Resources() []*Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Resource, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetDisk changes the disk AnyDisk requests resolve to.
func (m *Memory) SetDisk(disk int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disk = disk
}

// OpenHandles returns how many Sounds are open and not yet closed.
func (m *Memory) OpenHandles() int {
	return int(m.open.Load())
}

func (m *Memory) Open(req OpenRequest) (Sound, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byName[req.Name]
	if !ok || req.Name == "" {
		r, ok = m.byID[req.ID]
	}
	if !ok {
		return nil, fmt.Errorf("%w: id %d name %q", ErrSoundNotFound, req.ID, req.Name)
	}

	disk := req.Disk
	if disk == AnyDisk {
		disk = m.disk
	}
	if r.Disk != 0 && r.Disk != disk {
		return nil, fmt.Errorf("%w: %q is on disk %d, not %d", ErrSoundNotFound, r.Name, r.Disk, disk)
	}

	m.open.Add(1)
	return &sound{res: r, bank: m, endRegion: -1}, nil
}

type sound struct {
	res       *Resource
	bank      *Memory
	endRegion int
	closed    bool
}

func (s *sound) ID() int            { return s.res.ID }
func (s *sound) Name() string       { return s.res.Name }
func (s *sound) Bits() int          { return s.res.Bits }
func (s *sound) Channels() int      { return s.res.Channels }
func (s *sound) Freq() int          { return s.res.Freq }
func (s *sound) LittleEndian() bool { return s.res.LittleEndian }
func (s *sound) ExtComp() bool      { return s.res.ExtComp }
func (s *sound) NumRegions() int    { return len(s.res.Regions) }
func (s *sound) NumMarkers() int    { return len(s.res.Markers) }

func (s *sound) RegionOffset(region int) int {
	reg, _ := s.res.region(region)
	return reg.Offset
}

func (s *sound) RegionLength(region int) int {
	reg, _ := s.res.region(region)
	return reg.Length
}

func (s *sound) ReadRegion(region, offset int, dst []byte) int {
	reg, ok := s.res.region(region)
	if !ok || s.closed || offset < 0 || offset >= reg.Length {
		s.endRegion = region
		return 0
	}

	start := reg.Offset + offset
	end := min(start+len(dst), reg.Offset+reg.Length)
	n := copy(dst, s.res.Data[start:end])

	if offset+n >= reg.Length {
		s.endRegion = region
	} else {
		s.endRegion = -1
	}

	return n
}

func (s *sound) IsEndOfRegion(region int) bool {
	return s.endRegion == region
}

func (s *sound) CheckTrigger(region int, name string) bool {
	if _, ok := s.res.region(region); !ok {
		return false
	}
	for _, mk := range s.res.Markers {
		if mk.Name == name && s.res.inRegion(region, mk.Pos) {
			return true
		}
	}
	return false
}

func (s *sound) JumpID(region, hook int) int {
	fallback := -1
	for i, j := range s.res.Jumps {
		if j.From != region {
			continue
		}
		if j.Hook == hook {
			return i
		}
		if fallback < 0 && s.res.startsWithStart(j.To) {
			fallback = i
		}
	}
	return fallback
}

func (s *sound) jump(id int) (Jump, bool) {
	if id < 0 || id >= len(s.res.Jumps) {
		return Jump{}, false
	}
	return s.res.Jumps[id], true
}

func (s *sound) JumpDest(id int) int {
	j, ok := s.jump(id)
	if !ok {
		return -1
	}
	return j.To
}

func (s *sound) JumpHook(id int) int {
	j, _ := s.jump(id)
	return j.Hook
}

func (s *sound) JumpFade(id int) int {
	j, _ := s.jump(id)
	return j.FadeMs
}

func (s *sound) IsJumpToStart(id int) bool {
	j, ok := s.jump(id)
	return ok && s.res.startsWithStart(j.To)
}

func (s *sound) LipSync(ms int) (width, height int, ok bool) {
	frames := s.res.LipSync
	if len(frames) == 0 {
		return 0, 0, false
	}

	// Frames are sorted by Ms; take the last one already shown
	i := sort.Search(len(frames), func(i int) bool { return frames[i].Ms > ms })
	if i == 0 {
		return 0, 0, true
	}
	f := frames[i-1]
	return f.Width, f.Height, true
}

func (s *sound) Clone() Sound {
	s.bank.open.Add(1)
	return &sound{res: s.res, bank: s.bank, endRegion: -1}
}

func (s *sound) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.bank.open.Add(-1)
	return nil
}
