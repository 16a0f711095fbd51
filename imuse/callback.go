// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"github.com/ik5/dimuse/fade"
	"github.com/ik5/dimuse/pcm"
)

// Tick runs one engine step over every used slot: ducking, fades, feeding
// and level updates, in slot order.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return
	}

	e.speech = e.speechPlaying()

	for i := range e.pool.slots {
		t := &e.pool.slots[i]
		if !t.Used {
			continue
		}

		if t.SouStreamUsed && !e.mixer.IsSoundHandleActive(t.handle) {
			e.release(i)
			continue
		}

		e.duck(t)

		if !e.stepFade(i) {
			continue
		}

		if !t.SouStreamUsed {
			e.feed(i)
			if !t.Used {
				continue
			}
		}

		if t.handle != 0 {
			e.mixer.SetChannelVolume(t.handle, e.mixVolume(t))
			e.mixer.SetChannelBalance(t.handle, t.mixPan())
		}
	}
}

func (e *Engine) speechPlaying() bool {
	for i := range e.pool.regular {
		t := &e.pool.slots[i]
		if t.Used && t.Group == GroupSpeech {
			return true
		}
	}
	return false
}

// duck moves a music track's gain reduction one tick towards the profile
// destination while speech plays and drops it at once when speech stops.
func (e *Engine) duck(t *Track) {
	if !e.profile.Ducking || t.Group != GroupMusic {
		return
	}

	if !e.speech {
		t.GainReduction = 0
		t.GainRedFade.Active = false
		return
	}

	dest := e.profile.GainReductionDest
	t.GainRedFade.Dest = dest
	if t.GainReduction >= dest {
		t.GainReduction = dest
		t.GainRedFade.Active = false
		return
	}

	t.GainRedFade.Active = true
	step := max((dest-t.GainReduction)*60*(1000/e.profile.TickRate)/(1000*e.profile.DuckWindowMs), 1)
	c := e.profile.DuckCurve
	next := fade.ToEqualPower(fade.ToLinear(t.GainReduction, c)+step, c)
	if next <= t.GainReduction {
		next = t.GainReduction + 1
	}
	if next >= dest {
		next = dest
		t.GainRedFade.Active = false
	}
	t.GainReduction = next
}

// stepFade advances the volume fade of slot i and reports whether the track
// is still playing.
func (e *Engine) stepFade(i int) bool {
	t := &e.pool.slots[i]
	if !t.VolFade.Active {
		return true
	}

	down := t.VolFade.Dest < t.Vol
	c := e.profile.FadeInCurve
	if down {
		c = e.profile.FadeOutCurve
	}

	vol, reached := t.VolFade.Advance(t.Vol, c)
	t.Vol = vol
	if down && (t.Vol == 0 || (reached && e.profile.FlushOnFadeOut)) {
		e.log.Debug("fade out done", "slot", i, "sound", t.SoundID, "vol", t.Vol)
		e.release(i)
		return false
	}
	return true
}

// feed queues the next chunk of sound data for slot i, crossing region
// boundaries as needed.
func (e *Engine) feed(i int) {
	t := &e.pool.slots[i]

	if t.CurRegion == -1 && !e.switchRegion(i) {
		return
	}

	if !e.mixer.IsReady() {
		return
	}

	size := t.FeedSize / e.profile.TickRate
	if t.queue.EndOfData() {
		size *= 2
	}

	size, ok := t.feedAlign(size)
	if !ok {
		e.log.Error("cannot feed track", "slot", i, "sound", t.SoundID, "err", formatError("bits", t.Bits))
		e.release(i)
		return
	}

	empty := 0
	for size > 0 {
		var (
			chunk []byte
			carry int
		)
		if t.Bits == 12 {
			size += t.DataMod12Bit
			packed := pcm.Packed12Size(size)
			t.DataMod12Bit = size - pcm.Unpacked12Size(packed)
			carry = t.DataMod12Bit
			buf := e.buffer(packed)
			n := t.sound.ReadRegion(t.CurRegion, pcm.Packed12Size(t.RegionOffset), buf)
			chunk = pcm.Decode12Bit(buf[:n])
		} else {
			buf := e.buffer(size)
			n := t.sound.ReadRegion(t.CurRegion, t.RegionOffset, buf)
			n, _ = t.feedAlign(n)
			chunk = buf[:n]
			if t.Bits == 8 && e.radioChatter && e.profile.RadioFilter && t.SoundID == TalkSoundID {
				radioChatter(chunk)
			}
		}

		cur := min(len(chunk), size)
		t.queue.QueueBuffer(chunk[:cur], t.MixerFlags)
		t.RegionOffset += cur

		if cur == 0 {
			empty++
		} else {
			empty = 0
		}

		if t.sound.IsEndOfRegion(t.CurRegion) {
			if empty > t.sound.NumRegions() {
				e.log.Warn("no data left in reachable regions", "slot", i, "sound", t.SoundID)
				e.release(i)
				return
			}
			if !e.switchRegion(i) {
				return
			}
		} else if cur == 0 {
			// Short read inside the region; retry next tick
			break
		}

		// The 12-bit remainder waits in DataMod12Bit for the next read
		size -= cur + carry
	}
}

func (e *Engine) buffer(n int) []byte {
	if cap(e.scratch) < n {
		e.scratch = make([]byte, n)
	}
	return e.scratch[:n]
}
