// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/fade"
	"github.com/ik5/dimuse/pcm"
)

// Saved state layout, little endian:
//
//	header   magic "IMDS", version uint16, slot count uint16
//	engine   radio chatter flag (v3+)
//	slots    one record per slot, oldest fields first
const (
	saveMagic   = "IMDS"
	saveVersion = 3
)

var le = binary.LittleEndian

type saveHeader struct {
	Magic   [4]byte
	Version uint16
	Slots   uint16
}

type slotV1 struct {
	Pan           int8
	Vol           int32
	VolFadeDest   int32
	VolFadeStep   int32
	VolFadeDelay  int32
	VolFadeUsed   bool
	SoundID       int32
	SoundName     [maxSoundName]byte
	Used          bool
	ToBeRemoved   bool
	SouStreamUsed bool
	Priority      int32
	RegionOffset  int32
	DataOffset    int32
	CurRegion     int32
	CurHookID     int32
	VolGroupID    int32
	SoundType     int32
	FeedSize      int32
	DataMod12Bit  int32
	MixerFlags    int32
}

type slotV2 struct {
	V1      slotV1
	ExtComp bool
}

type slotV3 struct {
	V2            slotV2
	GainReduction int32
}

func upgradeV1(s slotV1) slotV2 { return slotV2{V1: s} }
func upgradeV2(s slotV2) slotV3 { return slotV3{V2: s} }

type saveError struct {
	error
}

func pcall(f func()) (rerr error) {
	defer func() {
		switch r := recover().(type) {
		case saveError:
			rerr = r.error
		case nil:
		default:
			panic(r)
		}
	}()
	f()
	return
}

func chk(err error) {
	if err != nil {
		panic(saveError{err})
	}
}

func recordOf(t *Track) slotV3 {
	var s slotV3
	v1 := &s.V2.V1
	v1.Pan = int8(t.Pan)
	v1.Vol = int32(t.Vol)
	v1.VolFadeDest = int32(t.VolFade.Dest)
	v1.VolFadeStep = int32(t.VolFade.Step)
	v1.VolFadeDelay = int32(t.VolFade.Delay)
	v1.VolFadeUsed = t.VolFade.Active
	v1.SoundID = int32(t.SoundID)
	copy(v1.SoundName[:], t.SoundName)
	v1.Used = t.Used
	v1.ToBeRemoved = t.ToBeRemoved
	v1.SouStreamUsed = t.SouStreamUsed
	v1.Priority = int32(t.Priority)
	v1.RegionOffset = int32(t.RegionOffset)
	v1.DataOffset = int32(t.DataOffset)
	v1.CurRegion = int32(t.CurRegion)
	v1.CurHookID = int32(t.CurHookID)
	v1.VolGroupID = int32(t.Group)
	v1.SoundType = int32(t.SoundType)
	v1.FeedSize = int32(t.FeedSize)
	v1.DataMod12Bit = int32(t.DataMod12Bit)
	v1.MixerFlags = int32(t.MixerFlags)
	s.V2.ExtComp = t.ExtComp
	s.GainReduction = int32(t.GainReduction)
	return s
}

// SaveState writes every slot, used or not, to w.
func (e *Engine) SaveState(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bw := bufio.NewWriter(w)
	err := pcall(func() {
		h := saveHeader{Version: saveVersion, Slots: uint16(len(e.pool.slots))}
		copy(h.Magic[:], saveMagic)
		chk(binary.Write(bw, le, h))
		chk(binary.Write(bw, le, e.radioChatter))
		for i := range e.pool.slots {
			chk(binary.Write(bw, le, recordOf(&e.pool.slots[i])))
		}
		chk(bw.Flush())
	})
	if err != nil {
		return fmt.Errorf("save engine state: %w", err)
	}
	return nil
}

func readSlot(r io.Reader, version uint16) slotV3 {
	switch version {
	case 1:
		var s slotV1
		chk(binary.Read(r, le, &s))
		return upgradeV2(upgradeV1(s))
	case 2:
		var s slotV2
		chk(binary.Read(r, le, &s))
		return upgradeV2(s)
	}
	var s slotV3
	chk(binary.Read(r, le, &s))
	return s
}

// LoadState replaces every track with the state read from r. Tracks whose
// sound can no longer be opened are dropped with a warning; fade clones and
// external streams are never resumed.
func (e *Engine) LoadState(r io.Reader) error {
	var (
		h     saveHeader
		radio bool
		recs  []slotV3
	)
	err := pcall(func() {
		chk(binary.Read(r, le, &h))
		if !bytes.Equal(h.Magic[:], []byte(saveMagic)) {
			chk(fmt.Errorf("bad magic %q", h.Magic[:]))
		}
		if h.Version < 1 || h.Version > saveVersion {
			chk(fmt.Errorf("unknown version %d", h.Version))
		}
		if h.Version >= 3 {
			chk(binary.Read(r, le, &radio))
		}
		recs = make([]slotV3, h.Slots)
		for i := range recs {
			recs[i] = readSlot(r, h.Version)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadSaveState, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopAll()
	e.radioChatter = radio
	e.trigger = Trigger{}
	e.triggerUsed = false

	for i := range recs {
		if err := e.restore(recs[i]); err != nil {
			e.log.Warn("saved track not resumed", "record", i, "sound", recs[i].V2.V1.SoundID, "err", err)
		}
	}
	return nil
}

func (e *Engine) restore(rec slotV3) error {
	s := &rec.V2.V1
	if !s.Used || s.ToBeRemoved || s.SouStreamUsed || s.CurRegion == -1 {
		return nil
	}

	name := string(bytes.TrimRight(s.SoundName[:], "\x00"))
	req := bank.OpenRequest{
		ID:       int(s.SoundID),
		Name:     name,
		Kind:     bank.Kind(s.SoundType),
		Group:    bank.Group(s.VolGroupID),
		Priority: int(s.Priority),
	}

	var (
		snd bank.Sound
		err error
	)
	for _, disk := range []int{bank.AnyDisk, 1, 2} {
		req.Disk = disk
		if snd, err = e.bank.Open(req); err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveStateMismatch, err)
	}

	t := emptyTrack(0)
	if err := t.setFormat(snd); err != nil {
		_ = snd.Close()
		return fmt.Errorf("%w: %w", ErrSaveStateMismatch, err)
	}
	if int(s.CurRegion) >= snd.NumRegions() {
		_ = snd.Close()
		return fmt.Errorf("%w: region %d of %d", ErrSaveStateMismatch, s.CurRegion, snd.NumRegions())
	}
	if t.MixerFlags != pcm.Flags(s.MixerFlags) {
		e.log.Debug("sound layout changed since save", "sound", s.SoundID, "saved", s.MixerFlags, "now", t.MixerFlags)
	}

	slot := e.pool.freeRegular()
	if slot < 0 {
		_ = snd.Close()
		return ErrPoolExhausted
	}

	t.Slot = slot
	t.Used = true
	t.SoundID = int(s.SoundID)
	t.SoundName = name
	t.SoundType = bank.Kind(s.SoundType)
	t.Group = bank.Group(s.VolGroupID)
	t.Priority = int(s.Priority)
	t.Pan = int(s.Pan)
	t.Vol = int(s.Vol)
	t.VolFade = fade.Fade{
		Active: s.VolFadeUsed,
		Dest:   int(s.VolFadeDest),
		Step:   int(s.VolFadeStep),
		Delay:  int(s.VolFadeDelay),
	}
	t.CurRegion = int(s.CurRegion)
	t.RegionOffset = int(s.RegionOffset)
	t.DataOffset = snd.RegionOffset(t.CurRegion)
	t.CurHookID = int(s.CurHookID)
	t.DataMod12Bit = int(s.DataMod12Bit)
	t.GainReduction = int(rec.GainReduction)
	t.GainRedFade.Dest = e.profile.GainReductionDest
	t.sound = snd

	t.queue = e.newQueue(t.Freq, t.Channels)
	t.handle = e.mixer.PlayStream(mixKind(t.Group), t.queue, t.Priority, e.mixVolume(&t), t.mixPan())
	if t.handle == 0 {
		_ = snd.Close()
		return fmt.Errorf("%w: mixer rejected stream", ErrResourceUnavailable)
	}

	e.nextGen++
	t.gen = e.nextGen
	e.pool.slots[slot] = t
	return nil
}
