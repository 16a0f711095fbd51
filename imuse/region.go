// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"errors"

	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/fade"
)

const (
	markerEnd  = "_end"
	markerExit = "exit"
)

// switchRegion moves slot i past the region it just exhausted. It reports
// whether the same track is still in the slot and should keep feeding.
func (e *Engine) switchRegion(i int) bool {
	t := &e.pool.slots[i]

	if e.pool.isFade(i) {
		e.release(i)
		return false
	}

	n := t.sound.NumRegions()
	if t.CurRegion == -1 {
		if n == 0 {
			e.log.Warn("sound has no regions", "slot", i, "sound", t.SoundID)
			e.release(i)
			return false
		}
		e.enterRegion(t, 0)
		return true
	}

	done := t.CurRegion

	if e.triggerUsed && t.sound.NumMarkers() > 0 && t.sound.CheckTrigger(done, e.trigger.Marker) {
		return e.fireTrigger(i, done)
	}

	if id := t.sound.JumpID(done, t.CurHookID); id != -1 {
		dest := t.sound.JumpDest(id)
		switch {
		case dest < 0 || dest >= n:
			e.log.Warn("jump out of range", "slot", i, "sound", t.SoundID, "region", done, "dest", dest)
		case t.sound.JumpHook(id) == t.CurHookID:
			if delay := 60 * t.sound.JumpFade(id) / 1000; delay > 0 {
				e.fadeRegion(i, done+1, delay)
			}
			e.log.Debug("jump", "slot", i, "sound", t.SoundID, "from", done, "to", dest, "hook", t.CurHookID)
			t.CurHookID = 0
			e.enterRegion(t, dest)
			return true
		case e.profile.EnforceStartJumps && t.sound.IsJumpToStart(id):
			e.log.Debug("jump to start", "slot", i, "sound", t.SoundID, "from", done, "to", dest)
			e.enterRegion(t, dest)
			return true
		}
	}

	if done+1 >= n {
		e.release(i)
		return false
	}
	e.enterRegion(t, done+1)
	return true
}

func (e *Engine) enterRegion(t *Track, region int) {
	t.CurRegion = region
	t.RegionOffset = 0
	t.DataOffset = t.sound.RegionOffset(region)
	e.log.Debug("region", "slot", t.Slot, "sound", t.SoundID, "region", region, "offset", t.DataOffset)
}

// fadeRegion lets a fade clone of slot i play region while fading out.
func (e *Engine) fadeRegion(i, region, delay int) {
	t := &e.pool.slots[i]
	if region >= t.sound.NumRegions() {
		return
	}

	j, err := e.cloneForFadeOut(i, delay)
	if errors.Is(err, errSilent) {
		return
	}
	if err != nil {
		e.log.Warn("crossfade dropped", "slot", i, "sound", t.SoundID, "err", err)
		return
	}

	c := &e.pool.slots[j]
	c.CurHookID = 0
	e.enterRegion(c, region)
}

// fireTrigger consumes the pending trigger on the region slot i exhausted.
func (e *Engine) fireTrigger(i, done int) bool {
	tr := e.trigger
	e.triggerUsed = false
	e.trigger = Trigger{}

	t := &e.pool.slots[i]
	gen := t.gen
	e.log.Debug("trigger", "slot", i, "sound", t.SoundID, "marker", tr.Marker, "start", tr.SoundID)

	if tr.Marker != markerEnd && tr.Marker != markerExit {
		e.fadeRegion(i, done+1, tr.FadeOutDelay)
		e.release(i)
		e.startTriggered(tr)
		return false
	}

	t.VolFade = fade.New(t.Vol, 0, tr.FadeOutDelay, e.profile.TickRate)
	t.CurHookID = 0
	if done+1 < t.sound.NumRegions() {
		e.enterRegion(t, done+1)
	} else {
		e.release(i)
	}

	if tr.Marker == markerExit {
		e.startTriggered(tr)
	}

	t = &e.pool.slots[i]
	return t.Used && t.gen == gen
}

func (e *Engine) startTriggered(tr Trigger) {
	vol := tr.Volume
	if vol == 0 {
		vol = 127
	}

	err := e.startSound(SoundRequest{
		ID:       tr.SoundID,
		Name:     tr.Filename,
		Kind:     bank.KindBundle,
		Group:    GroupMusic,
		HookID:   tr.HookID,
		Volume:   vol,
		Priority: musicPriority,
	}, nil)
	if err != nil {
		e.log.Warn("trigger start failed", "sound", tr.SoundID, "name", tr.Filename, "err", err)
	}
}
