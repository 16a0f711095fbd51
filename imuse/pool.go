// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"errors"
	"fmt"

	"github.com/ik5/dimuse/fade"
)

var (
	errNotClonable = errors.New("track cannot be cloned")
	errSilent      = errors.New("track is already silent")
)

// pool is the track arena: regular slots first, then fade slots.
type pool struct {
	slots   []Track
	regular int
}

func newPool(regular, fades int) pool {
	p := pool{slots: make([]Track, regular+fades), regular: regular}
	for i := range p.slots {
		p.slots[i] = emptyTrack(i)
	}
	return p
}

func (p *pool) isFade(i int) bool { return i >= p.regular }

func (p *pool) freeRegular() int {
	for i := range p.regular {
		if !p.slots[i].Used {
			return i
		}
	}
	return -1
}

func (p *pool) freeFade() int {
	for i := p.regular; i < len(p.slots); i++ {
		if !p.slots[i].Used {
			return i
		}
	}
	return -1
}

// victim picks the regular track a start at priority may steal.
// Tracks at priority 127 are never stolen.
func (p *pool) victim(priority int) int {
	lowest, slot := 127, -1
	for i := range p.regular {
		t := &p.slots[i]
		if t.Used && !t.ToBeRemoved && !t.SouStreamUsed && t.Priority < lowest {
			lowest, slot = t.Priority, i
		}
	}
	if slot < 0 || lowest > priority {
		return -1
	}
	return slot
}

// find returns the regular slot playing soundID, or -1.
func (p *pool) find(soundID int) int {
	for i := range p.regular {
		t := &p.slots[i]
		if t.Used && !t.ToBeRemoved && t.SoundID == soundID {
			return i
		}
	}
	return -1
}

// allocate returns a regular slot for a new track, stopping a lower
// priority track when every slot is taken.
func (e *Engine) allocate(priority int) (int, error) {
	if i := e.pool.freeRegular(); i >= 0 {
		return i, nil
	}

	v := e.pool.victim(priority)
	if v < 0 {
		return -1, fmt.Errorf("%w: priority %d too low", ErrPoolExhausted, priority)
	}
	e.log.Debug("stealing track", "slot", v, "sound", e.pool.slots[v].SoundID, "priority", e.pool.slots[v].Priority)
	e.kill(v)
	return v, nil
}

// cloneForFadeOut copies the track in slot i into a free fade slot with its
// own sound handle and queue, fading to silence over delay 60 Hz ticks.
func (e *Engine) cloneForFadeOut(i, delay int) (int, error) {
	src := &e.pool.slots[i]
	if !src.Used || src.ToBeRemoved || src.sound == nil {
		return -1, fmt.Errorf("%w: slot %d", errNotClonable, i)
	}
	if src.Vol == 0 {
		return -1, errSilent
	}

	j := e.pool.freeFade()
	if j < 0 {
		return -1, fmt.Errorf("%w: every fade slot is busy", ErrPoolExhausted)
	}

	c := *src
	c.Slot = j
	c.ToBeRemoved = true
	c.GainRedFade = GainFade{}
	c.VolFade = fade.New(c.Vol, 0, delay, e.profile.TickRate)
	c.sound = src.sound.Clone()
	c.queue = e.newQueue(c.Freq, c.Channels)
	c.handle = e.mixer.PlayStream(mixKind(c.Group), c.queue, c.Priority, e.mixVolume(&c), c.mixPan())
	if c.handle == 0 {
		_ = c.sound.Close()
		return -1, fmt.Errorf("%w: mixer rejected fade stream", ErrResourceUnavailable)
	}

	e.pool.slots[j] = c
	e.log.Debug("fade clone", "slot", i, "clone", j, "sound", c.SoundID, "delay", delay)
	return j, nil
}

// release ends a track. Samples already queued still play.
func (e *Engine) release(i int) {
	t := &e.pool.slots[i]
	if !t.Used {
		return
	}

	if t.SouStreamUsed {
		e.mixer.StopHandle(t.handle)
	} else if t.queue != nil {
		t.queue.Finish()
	}
	if t.sound != nil {
		_ = t.sound.Close()
	}

	e.log.Debug("track released", "slot", i, "sound", t.SoundID)
	*t = emptyTrack(i)
}

// kill ends a track and cuts its output.
func (e *Engine) kill(i int) {
	t := &e.pool.slots[i]
	if !t.Used {
		return
	}

	if t.handle != 0 {
		e.mixer.StopHandle(t.handle)
	}
	if t.sound != nil {
		_ = t.sound.Close()
	}

	*t = emptyTrack(i)
}
