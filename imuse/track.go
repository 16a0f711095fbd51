// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"unicode/utf8"

	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/fade"
	"github.com/ik5/dimuse/mixer"
	"github.com/ik5/dimuse/pcm"
)

// VolumeGroup is the group a track's volume is governed by.
type VolumeGroup = bank.Group

const (
	GroupSpeech = bank.GroupSpeech
	GroupSFX    = bank.GroupSFX
	GroupMusic  = bank.GroupMusic
)

// TalkSoundID is the sound id actor speech plays under.
const TalkSoundID = 10000

// maxSoundName is the stored size of a sound name.
const maxSoundName = 15

// GainFade is the ducking ramp of a music track.
type GainFade struct {
	Active bool
	Dest   int
}

// Track is one slot of the engine arena.
type Track struct {
	Slot int

	SoundID   int
	SoundName string
	SoundType bank.Kind
	Priority  int
	Group     VolumeGroup

	Used          bool
	ToBeRemoved   bool // fade clone, released at the end of its region
	SouStreamUsed bool // plays an external stream, no feeding

	CurRegion    int // -1 until the first tick
	RegionOffset int // decoded bytes consumed in CurRegion
	DataOffset   int // stored offset of CurRegion
	CurHookID    int

	Vol     int // 0..fade.MaxVolume
	Pan     int // 0..127, 64 is centre
	VolFade fade.Fade

	GainReduction int
	GainRedFade   GainFade

	Bits         int
	Channels     int
	Freq         int
	LittleEndian bool
	ExtComp      bool
	FeedSize     int // decoded bytes per second
	MixerFlags   pcm.Flags
	DataMod12Bit int

	sound  bank.Sound
	queue  mixer.Queue
	handle mixer.Handle
	gen    uint64 // distinguishes successive tracks in one slot
}

func emptyTrack(slot int) Track {
	return Track{Slot: slot, CurRegion: -1, Pan: 64}
}

// mixKind maps a volume group onto the mixer bus it plays on.
func mixKind(g VolumeGroup) mixer.SoundType {
	switch g {
	case GroupMusic:
		return mixer.Music
	case GroupSpeech:
		return mixer.Speech
	case GroupSFX:
		return mixer.SFX
	}
	return mixer.Plain
}

func (t *Track) mixPan() int {
	if t.Pan == 64 {
		return 0
	}
	return 2*t.Pan - 127
}

// setFormat derives the feeding parameters from the open sound.
func (t *Track) setFormat(s bank.Sound) error {
	bits, channels, freq := s.Bits(), s.Channels(), s.Freq()
	if channels != 1 && channels != 2 {
		return formatError("channels", channels)
	}
	if freq <= 0 || freq > 65535 {
		return formatError("rate", freq)
	}

	var flags pcm.Flags
	if channels == 2 {
		flags |= pcm.Stereo
	}

	feed := freq * channels
	switch bits {
	case 12:
		flags |= pcm.Bits16
		feed *= 2
	case 16:
		flags |= pcm.Bits16
		if s.LittleEndian() {
			flags |= pcm.LittleEndian
		}
		feed *= 2
	case 8:
		flags |= pcm.Unsigned
	default:
		return formatError("bits", bits)
	}

	t.Bits, t.Channels, t.Freq = bits, channels, freq
	t.LittleEndian = s.LittleEndian()
	t.ExtComp = s.ExtComp()
	t.FeedSize = feed
	t.MixerFlags = flags
	return nil
}

// feedAlign masks a byte count down to whole frames, or returns false for a
// layout the feeder does not know.
func (t *Track) feedAlign(n int) (int, bool) {
	switch t.Bits {
	case 12, 16:
		if t.Channels == 2 {
			return n &^ 3, true
		}
		return n &^ 1, true
	case 8:
		if t.Channels == 2 {
			return n &^ 1, true
		}
		return n, true
	}
	return 0, false
}

func truncName(s string) string {
	if len(s) <= maxSoundName {
		return s
	}
	n := maxSoundName
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
