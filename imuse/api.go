// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"errors"
	"fmt"

	"github.com/ik5/dimuse/audio"
	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/fade"
	"github.com/ik5/dimuse/mixer"
	"github.com/ik5/dimuse/utils"
)

const (
	musicPriority = 126
	voicePriority = 127
	sfxVolume     = 127
)

// SoundRequest describes a sound to start.
type SoundRequest struct {
	ID       int
	Name     string
	Kind     bank.Kind
	Group    VolumeGroup
	HookID   int
	Volume   int // 0..127
	Priority int // 0..127
}

// StartSound opens the requested sound and gives it a track. The track
// enters its first region on the next Tick.
func (e *Engine) StartSound(req SoundRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startSound(req, nil)
}

// StartMusic starts a music bundle with the given hook and volume.
func (e *Engine) StartMusic(name string, soundID, hookID, volume int) error {
	return e.StartSound(SoundRequest{
		ID: soundID, Name: name, Kind: bank.KindBundle, Group: GroupMusic,
		HookID: hookID, Volume: volume, Priority: musicPriority,
	})
}

// StartVoice starts actor speech under TalkSoundID.
func (e *Engine) StartVoice(name string, volume int) error {
	return e.StartSound(SoundRequest{
		ID: TalkSoundID, Name: name, Kind: bank.KindBundle, Group: GroupSpeech,
		Volume: volume, Priority: voicePriority,
	})
}

// StartSFX starts a sound effect resource at full volume.
func (e *Engine) StartSFX(soundID, priority int) error {
	return e.StartSound(SoundRequest{
		ID: soundID, Kind: bank.KindResource, Group: GroupSFX,
		Volume: sfxVolume, Priority: priority,
	})
}

// StartVoiceStream plays speech from an already decoded stream. The engine
// does not feed it; the track ends when the mixer is done with it.
func (e *Engine) StartVoiceStream(soundID int, stream audio.Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkDuplicate(soundID); err != nil {
		return err
	}

	slot, err := e.allocate(voicePriority)
	if err != nil {
		e.log.Warn("cannot start voice stream", "sound", soundID, "err", err)
		return err
	}

	t := emptyTrack(slot)
	t.Used = true
	t.SouStreamUsed = true
	t.SoundID = soundID
	t.Group = GroupSpeech
	t.Priority = voicePriority
	t.Vol = 127 * 1000
	t.handle = e.mixer.PlayStream(mixer.Speech, stream, t.Priority, e.mixVolume(&t), t.mixPan())
	if t.handle == 0 {
		return fmt.Errorf("%w: mixer rejected voice stream", ErrResourceUnavailable)
	}

	e.nextGen++
	t.gen = e.nextGen
	e.pool.slots[slot] = t
	return nil
}

func (e *Engine) checkDuplicate(soundID int) error {
	i, err := e.duplicateOf(soundID)
	if i >= 0 {
		e.release(i)
	}
	return err
}

// duplicateOf returns the slot already playing soundID that a new start
// replaces, or -1. It fails when the profile ignores duplicates.
func (e *Engine) duplicateOf(soundID int) (int, error) {
	i := e.pool.find(soundID)
	if i < 0 {
		return -1, nil
	}
	if e.profile.Duplicates == DuplicateIgnore {
		e.log.Warn("sound already playing", "sound", soundID, "slot", i)
		return -1, fmt.Errorf("%w: %d", ErrDuplicateSound, soundID)
	}
	return i, nil
}

// startSound starts req; when from is set the new track picks up at from's
// position.
// A replaced duplicate keeps playing until the new sound has opened.
func (e *Engine) startSound(req SoundRequest, from *Track) error {
	dup, err := e.duplicateOf(req.ID)
	if err != nil {
		return err
	}

	s, err := e.bank.Open(bank.OpenRequest{
		ID:       req.ID,
		Name:     req.Name,
		Kind:     req.Kind,
		Group:    req.Group,
		Priority: req.Priority,
		Disk:     bank.AnyDisk,
	})
	if err != nil {
		e.log.Warn("cannot open sound", "sound", req.ID, "name", req.Name, "err", err)
		return fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}

	t := emptyTrack(0)
	if err := t.setFormat(s); err != nil {
		_ = s.Close()
		e.log.Warn("cannot play sound", "sound", req.ID, "err", err)
		return err
	}

	if dup >= 0 {
		e.release(dup)
	}

	priority := utils.ClampInt(req.Priority, 0, 127)
	slot, err := e.allocate(priority)
	if err != nil {
		_ = s.Close()
		e.log.Warn("cannot start sound", "sound", req.ID, "err", err)
		return err
	}

	t.Slot = slot
	t.Used = true
	t.SoundID = req.ID
	t.SoundName = truncName(req.Name)
	t.SoundType = req.Kind
	t.Group = req.Group
	t.Priority = priority
	t.Vol = utils.ClampInt(req.Volume, 0, 127) * 1000
	t.CurHookID = req.HookID
	t.sound = s

	if from != nil && from.CurRegion >= 0 && from.CurRegion < s.NumRegions() {
		t.CurRegion = from.CurRegion
		t.RegionOffset = from.RegionOffset
		t.DataOffset = s.RegionOffset(from.CurRegion)
		t.DataMod12Bit = from.DataMod12Bit
	}

	t.queue = e.newQueue(t.Freq, t.Channels)
	t.handle = e.mixer.PlayStream(mixKind(t.Group), t.queue, t.Priority, e.mixVolume(&t), t.mixPan())
	if t.handle == 0 {
		_ = s.Close()
		return fmt.Errorf("%w: mixer rejected stream", ErrResourceUnavailable)
	}

	e.nextGen++
	t.gen = e.nextGen
	e.pool.slots[slot] = t

	e.log.Debug("sound started", "slot", slot, "sound", t.SoundID, "name", t.SoundName,
		"bits", t.Bits, "rate", t.Freq, "channels", t.Channels, "regions", s.NumRegions())
	return nil
}

// StopSound ends every track playing soundID, fade clones included. Queued
// audio plays out.
func (e *Engine) StopSound(soundID int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.pool.slots {
		if t := &e.pool.slots[i]; t.Used && t.SoundID == soundID {
			e.release(i)
		}
	}
}

// StopAllSounds cuts every track at once.
func (e *Engine) StopAllSounds() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopAll()
}

func (e *Engine) stopAll() {
	for i := range e.pool.slots {
		e.kill(i)
	}
}

// each calls fn for the live tracks playing soundID, skipping fade clones.
func (e *Engine) each(soundID int, fn func(t *Track)) {
	for i := range e.pool.slots {
		t := &e.pool.slots[i]
		if t.Used && !t.ToBeRemoved && t.SoundID == soundID {
			fn(t)
		}
	}
}

func (e *Engine) SetPriority(soundID, priority int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.each(soundID, func(t *Track) { t.Priority = utils.ClampInt(priority, 0, 127) })
}

// SetVolume sets the volume (0..127) of soundID. A running fade continues
// from the new level.
func (e *Engine) SetVolume(soundID, volume int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.each(soundID, func(t *Track) { t.Vol = utils.ClampInt(volume, 0, 127) * 1000 })
}

// SetPan sets the pan (0 left, 64 centre, 127 right) of soundID.
func (e *Engine) SetPan(soundID, pan int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.each(soundID, func(t *Track) { t.Pan = utils.ClampInt(pan, 0, 127) })
}

// SetHookID arms the hook the next matching jump of soundID waits for.
func (e *Engine) SetHookID(soundID, hookID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.each(soundID, func(t *Track) { t.CurHookID = hookID })
}

// SetFade ramps soundID to volume dest (0..127) over delay 60 Hz ticks.
func (e *Engine) SetFade(soundID, dest, delay int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	dest = utils.ClampInt(dest, 0, 127) * 1000
	e.each(soundID, func(t *Track) { t.VolFade = fade.New(t.Vol, dest, delay, e.profile.TickRate) })
}

// FadeOutMusic fades every music track out over delay 60 Hz ticks.
func (e *Engine) FadeOutMusic(delay int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.pool.regular {
		t := &e.pool.slots[i]
		if !t.Used || t.ToBeRemoved || t.Group != GroupMusic {
			continue
		}
		e.fadeOut(i, delay)
	}
}

// FadeOutMusicAndStart fades the current music out and starts name as
// soundID at the same region and offset.
func (e *Engine) FadeOutMusicAndStart(delay int, name string, soundID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	req := SoundRequest{
		ID: soundID, Name: name, Kind: bank.KindBundle, Group: GroupMusic,
		Volume: 127, Priority: musicPriority,
	}

	for i := range e.pool.regular {
		t := &e.pool.slots[i]
		if !t.Used || t.ToBeRemoved || t.Group != GroupMusic {
			continue
		}
		old := *t
		e.fadeOut(i, delay)
		return e.startSound(req, &old)
	}
	return e.startSound(req, nil)
}

// fadeOut hands slot i over to a fade clone and releases it.
func (e *Engine) fadeOut(i, delay int) {
	if _, err := e.cloneForFadeOut(i, delay); err != nil && !errors.Is(err, errSilent) {
		e.log.Warn("fade out dropped", "slot", i, "sound", e.pool.slots[i].SoundID, "err", err)
	}
	e.release(i)
}

// SetTrigger arms tr; it fires on the next region boundary past a marker
// named tr.Marker. A zero Volume starts the target at full volume. An empty
// Marker clears the pending trigger.
func (e *Engine) SetTrigger(tr Trigger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trigger = tr
	e.triggerUsed = tr.Marker != ""
}

// SoundStatus reports whether soundID is playing.
func (e *Engine) SoundStatus(soundID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.find(soundID) >= 0
}

// PosInMs returns the playback position of soundID in milliseconds.
func (e *Engine) PosInMs(soundID int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.posInMs(soundID)
}

func (e *Engine) posInMs(soundID int) int {
	i := e.pool.find(soundID)
	if i < 0 {
		return 0
	}
	t := &e.pool.slots[i]
	if t.FeedSize/200 == 0 {
		return 0
	}
	return 5 * (t.DataOffset + t.RegionOffset) / (t.FeedSize / 200)
}

// LipSyncWidth returns the mouth width for the speech playing right now.
func (e *Engine) LipSyncWidth() int {
	w, _ := e.lipSync()
	return w
}

// LipSyncHeight returns the mouth height for the speech playing right now.
func (e *Engine) LipSyncHeight() int {
	_, h := e.lipSync()
	return h
}

func (e *Engine) lipSync() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.pool.find(TalkSoundID)
	if i < 0 {
		return 0, 0
	}
	t := &e.pool.slots[i]
	if t.sound == nil {
		return 0, 0
	}

	w, h, ok := t.sound.LipSync(e.posInMs(TalkSoundID) + 50)
	if !ok {
		return 0, 0
	}
	return w, h
}
