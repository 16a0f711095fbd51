// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/mixer"
	"github.com/ik5/dimuse/utils"
)

// Option configures an Engine.
type Option func(*Engine)

// WithProfile selects the game profile. The default is ProfileDefault.
func WithProfile(p Profile) Option {
	return func(e *Engine) { e.profile = p }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithQueueFactory replaces the queue tracks feed. By default every track
// gets a mixer.QueuingStream.
func WithQueueFactory(f mixer.QueueFactory) Option {
	return func(e *Engine) {
		if f != nil {
			e.newQueue = f
		}
	}
}

// Trigger is a pending marker action. When a track crosses a marker named
// Marker the engine fades it out over FadeOutDelay 60 Hz ticks and starts
// music Filename as SoundID.
type Trigger struct {
	Marker       string
	FadeOutDelay int
	Filename     string
	SoundID      int
	HookID       int
	Volume       int
}

// Engine sequences digital tracks into a mixer.
type Engine struct {
	mu sync.Mutex

	profile  Profile
	bank     bank.Bank
	mixer    mixer.Mixer
	newQueue mixer.QueueFactory
	log      *slog.Logger

	pool    pool
	nextGen uint64

	trigger     Trigger
	triggerUsed bool

	paused       bool
	radioChatter bool
	speech       bool // a speech track was playing at the start of this tick

	scratch []byte
}

// New returns an engine reading sounds from b and playing them through m.
func New(b bank.Bank, m mixer.Mixer, opts ...Option) *Engine {
	e := &Engine{
		profile:  ProfileDefault,
		bank:     b,
		mixer:    m,
		newQueue: mixer.NewQueue,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.profile = e.profile.normalized()
	e.pool = newPool(e.profile.RegularSlots, e.profile.FadeSlots)
	return e
}

// Profile returns the profile the engine runs with.
func (e *Engine) Profile() Profile {
	return e.profile
}

// Run calls Tick at the profile's tick rate until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(e.profile.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Pause stops or resumes tick processing. Queued audio keeps playing.
func (e *Engine) Pause(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
}

// SetRadioChatter toggles the radio filter on 8-bit actor speech. It has no
// effect unless the profile allows it.
func (e *Engine) SetRadioChatter(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.radioChatter = on
}

// Tracks returns a copy of every used slot.
func (e *Engine) Tracks() []Track {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Track
	for _, t := range e.pool.slots {
		if t.Used {
			out = append(out, t)
		}
	}
	return out
}

// Close stops every track at once.
func (e *Engine) Close() error {
	e.StopAllSounds()
	return nil
}

func (e *Engine) mixVolume(t *Track) int {
	vol := t.Vol / 1000
	if e.profile.Ducking && t.Group == GroupMusic {
		vol = max(vol-t.GainReduction/1000, 0)
	}
	vol = int(math.Round(float64(vol) * e.profile.multiplier(t.Group)))
	return utils.ClampInt(vol, 0, mixer.MaxChannelVolume)
}
