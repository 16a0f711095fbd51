// SPDX-License-Identifier: EPL-2.0

package bank

// Group is the volume group a sound plays under. Values match the group ids
// stored in saved engine state.
type Group int

const (
	GroupSpeech Group = 1
	GroupSFX    Group = 2
	GroupMusic  Group = 3
)

func (g Group) String() string {
	switch g {
	case GroupSpeech:
		return "speech"
	case GroupSFX:
		return "sfx"
	case GroupMusic:
		return "music"
	}
	return "unknown"
}

// ParseGroup maps a manifest group name to a Group.
func ParseGroup(s string) (Group, bool) {
	switch s {
	case "speech", "voice":
		return GroupSpeech, true
	case "sfx":
		return GroupSFX, true
	case "music", "":
		return GroupMusic, true
	}
	return 0, false
}

// Kind is the storage a sound is opened from.
type Kind int

const (
	KindResource Kind = 1
	KindBundle   Kind = 2
)

// AnyDisk asks Open to look on the disk currently inserted.
const AnyDisk = -1

// OpenRequest names a sound to open.
type OpenRequest struct {
	ID       int
	Name     string // preferred over ID when set
	Kind     Kind
	Group    Group
	Priority int
	Disk     int
}

// Bank resolves sound requests to open handles.
type Bank interface {
	Open(req OpenRequest) (Sound, error)
}

// Sound is an open handle on one sound resource. Region offsets and lengths
// are in stored bytes; for 12-bit sounds that is the packed layout.
//
// A Sound remembers whether its last ReadRegion reached the end of the region
// it read from, so it must not be shared between tracks; use Clone.
type Sound interface {
	ID() int
	Name() string

	Bits() int
	Channels() int
	Freq() int
	LittleEndian() bool
	ExtComp() bool

	NumRegions() int
	RegionOffset(region int) int
	RegionLength(region int) int
	// ReadRegion copies up to len(dst) bytes of region starting offset bytes
	// into it and returns the count copied.
	ReadRegion(region, offset int, dst []byte) int
	// IsEndOfRegion reports whether the last read of region hit its end.
	IsEndOfRegion(region int) bool

	NumMarkers() int
	// CheckTrigger reports whether region carries a marker called name.
	CheckTrigger(region int, name string) bool

	// JumpID returns the jump leaving region for hook, or -1.
	JumpID(region, hook int) int
	JumpDest(jump int) int
	JumpHook(jump int) int
	JumpFade(jump int) int
	// IsJumpToStart reports whether the destination of jump begins with a
	// "start" marker.
	IsJumpToStart(jump int) bool

	// LipSync returns the mouth shape at ms; ok is false for sounds without
	// sync data.
	LipSync(ms int) (width, height int, ok bool)

	Clone() Sound
	Close() error
}
