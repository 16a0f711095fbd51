// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/fade"
)

// DuplicatePolicy decides what StartSound does with a sound id that already
// has a regular track.
type DuplicatePolicy int

const (
	// DuplicateIgnore keeps the playing track and rejects the new start.
	DuplicateIgnore DuplicatePolicy = iota
	// DuplicateReplace stops the playing track and starts over.
	DuplicateReplace
)

// Profile holds the per-game engine parameters.
type Profile struct {
	Name string

	// TickRate is how many times per second Run calls Tick.
	TickRate int

	RegularSlots int
	FadeSlots    int

	FadeOutCurve fade.Curve
	FadeInCurve  fade.Curve

	// Ducking lowers music while speech plays, towards GainReductionDest
	// (x1000 volume units) over DuckWindowMs.
	Ducking           bool
	GainReductionDest int
	DuckWindowMs      int
	DuckCurve         fade.Curve

	// MixMultiplier scales the volume pushed to the mixer per group.
	// Missing groups play at 1.0.
	MixMultiplier map[bank.Group]float64

	Duplicates DuplicatePolicy

	// FlushOnFadeOut releases a track when any fade down reaches its
	// destination, not only a fade to silence.
	FlushOnFadeOut bool
	// EnforceStartJumps takes a jump whose hook does not match when its
	// destination opens with a start marker.
	EnforceStartJumps bool
	// RadioFilter allows SetRadioChatter to high-pass 8-bit speech.
	RadioFilter bool
}

const (
	defaultSlots    = 8
	defaultDuckMs   = 20
	defaultTickRate = 60
)

// ProfileDefault is a neutral profile: 60 Hz, linear fades, no ducking.
var ProfileDefault = Profile{
	Name:         "default",
	TickRate:     defaultTickRate,
	RegularSlots: defaultSlots,
	FadeSlots:    defaultSlots,
	FadeOutCurve: fade.Linear,
	FadeInCurve:  fade.Linear,
	DuckWindowMs: defaultDuckMs,
	DuckCurve:    fade.HalfRoot,
	Duplicates:   DuplicateIgnore,
}

// ProfileDig matches The Dig: 10 Hz, linear fades, no ducking.
var ProfileDig = Profile{
	Name:         "dig",
	TickRate:     10,
	RegularSlots: defaultSlots,
	FadeSlots:    defaultSlots,
	FadeOutCurve: fade.Linear,
	FadeInCurve:  fade.Linear,
	DuckWindowMs: defaultDuckMs,
	DuckCurve:    fade.HalfRoot,
	Duplicates:   DuplicateIgnore,
}

// ProfileFT matches Full Throttle, which runs the callback twice as often.
var ProfileFT = Profile{
	Name:              "ft",
	TickRate:          20,
	RegularSlots:      defaultSlots,
	FadeSlots:         defaultSlots,
	FadeOutCurve:      fade.Linear,
	FadeInCurve:       fade.Log3,
	Ducking:           true,
	GainReductionDest: 127 * 180,
	DuckWindowMs:      defaultDuckMs,
	DuckCurve:         fade.HalfRoot,
	MixMultiplier: map[bank.Group]float64{
		bank.GroupMusic:  1.5,
		bank.GroupSpeech: 1.1,
		bank.GroupSFX:    1.1,
	},
	Duplicates:  DuplicateIgnore,
	RadioFilter: true,
}

// ProfileCMI matches The Curse of Monkey Island.
var ProfileCMI = Profile{
	Name:              "cmi",
	TickRate:          10,
	RegularSlots:      defaultSlots,
	FadeSlots:         defaultSlots,
	FadeOutCurve:      fade.SquareRoot,
	FadeInCurve:       fade.SquareRoot,
	Ducking:           true,
	GainReductionDest: 127 * 290,
	DuckWindowMs:      defaultDuckMs,
	DuckCurve:         fade.HalfRoot,
	MixMultiplier: map[bank.Group]float64{
		bank.GroupMusic:  1.9,
		bank.GroupSpeech: 1.04,
	},
	Duplicates:        DuplicateIgnore,
	FlushOnFadeOut:    true,
	EnforceStartJumps: true,
}

// Profiles lists the presets by name.
var Profiles = map[string]Profile{
	ProfileDefault.Name: ProfileDefault,
	ProfileDig.Name:     ProfileDig,
	ProfileFT.Name:      ProfileFT,
	ProfileCMI.Name:     ProfileCMI,
}

// normalized fills zero fields with working values.
func (p Profile) normalized() Profile {
	if p.TickRate <= 0 {
		p.TickRate = defaultTickRate
	}
	if p.RegularSlots <= 0 {
		p.RegularSlots = defaultSlots
	}
	if p.FadeSlots < 0 {
		p.FadeSlots = 0
	}
	if p.DuckWindowMs <= 0 {
		p.DuckWindowMs = defaultDuckMs
	}
	return p
}

func (p Profile) multiplier(g bank.Group) float64 {
	if m, ok := p.MixMultiplier[g]; ok && m > 0 {
		return m
	}
	return 1
}
