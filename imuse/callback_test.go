// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/pcm"
)

func TestFeed_12Bit(t *testing.T) {
	t.Parallel()

	const samples = 20000
	raw := make([]byte, 2*samples)
	for i := 0; i < len(raw); i += 2 {
		binary.BigEndian.PutUint16(raw[i:], 0x1230)
	}
	res := &bank.Resource{ID: 1, Group: GroupMusic, Bits: 12, Channels: 1, Freq: 22050, Data: pcm.Encode12Bit(raw)}

	h := newHarness(t, testProfile(), res)
	if err := h.engine.StartSound(music(1)); err != nil {
		t.Fatal(err)
	}
	tr := h.slot(0)
	if tr.MixerFlags != pcm.Bits16 {
		t.Errorf("flags = %v, want big-endian 16-bit mono", tr.MixerFlags)
	}

	// 8820 bytes from 6615 packed; then 4410 leaves a two byte remainder
	// that the third tick picks up.
	steps := []struct{ offset, mod int }{
		{8820, 0},
		{8820 + 4408, 2},
		{8820 + 4408 + 4412, 0},
	}
	for i, want := range steps {
		h.engine.Tick()
		if tr.RegionOffset != want.offset || tr.DataMod12Bit != want.mod {
			t.Fatalf("tick %d: offset = %d mod = %d, want %d %d", i+1, tr.RegionOffset, tr.DataMod12Bit, want.offset, want.mod)
		}
	}

	got := h.queues.queues[0].data
	if !bytes.Equal(got, raw[:len(got)]) {
		t.Error("decoded 12-bit data differs from the source")
	}
}

func TestFeed_Layouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bits     int
		channels int
		le       bool
		flags    pcm.Flags
		feed     int
	}{
		{"8-bit mono", 8, 1, false, pcm.Unsigned, 22050},
		{"8-bit stereo", 8, 2, false, pcm.Unsigned | pcm.Stereo, 44100},
		{"16-bit be", 16, 1, false, pcm.Bits16, 44100},
		{"16-bit le stereo", 16, 2, true, pcm.Bits16 | pcm.LittleEndian | pcm.Stereo, 88200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := &bank.Resource{
				ID: 1, Group: GroupSFX, Bits: tt.bits, Channels: tt.channels,
				Freq: 22050, LittleEndian: tt.le, Data: make([]byte, 100003),
			}
			h := newHarness(t, testProfile(), res)
			if err := h.engine.StartSFX(1, 10); err != nil {
				t.Fatal(err)
			}
			h.engine.Tick()

			tr := h.slot(0)
			if tr.MixerFlags != tt.flags || tr.FeedSize != tt.feed {
				t.Errorf("flags = %v feed = %d, want %v %d", tr.MixerFlags, tr.FeedSize, tt.flags, tt.feed)
			}
			if n := len(h.queues.queues[0].data); n%tt.flags.FrameSize() != 0 || n != 2*tt.feed/10 {
				t.Errorf("queued %d bytes, want %d whole frames", n, 2*tt.feed/10)
			}
		})
	}
}

func TestFeed_RadioChatter(t *testing.T) {
	t.Parallel()

	speech := func() *bank.Resource {
		r := &bank.Resource{ID: 7, Name: "line", Group: GroupSpeech, Bits: 8, Channels: 1, Freq: 11025, Data: make([]byte, 50000)}
		for i := range r.Data {
			r.Data[i] = byte(0x80 + i%7*8)
		}
		return r
	}

	tests := []struct {
		name    string
		profile Profile
		on      bool
		clean   bool
	}{
		{"filtered", ProfileFT, true, false},
		{"switched off", ProfileFT, false, true},
		{"not allowed", ProfileDig, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := speech()
			h := newHarness(t, tt.profile, res)
			h.engine.SetRadioChatter(tt.on)
			if err := h.engine.StartVoice("line", 127); err != nil {
				t.Fatal(err)
			}
			h.engine.Tick()

			got := h.queues.queues[0].data
			if len(got) == 0 {
				t.Fatal("nothing queued")
			}
			if clean := bytes.Equal(got, res.Data[:len(got)]); clean != tt.clean {
				t.Errorf("unfiltered = %v, want %v", clean, tt.clean)
			}
		})
	}
}

func TestRadioChatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"too short", []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}},
		{"silence", bytes.Repeat([]byte{0x80}, 8), bytes.Repeat([]byte{0x80}, 8)},
		{"click", []byte{0x90, 0x80, 0x80, 0x80, 0x80, 0x80}, []byte{0x98, 0x80, 0x80, 0x80, 0x80, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := bytes.Clone(tt.in)
			radioChatter(buf)
			if !bytes.Equal(buf, tt.want) {
				t.Errorf("radioChatter() = %x, want %x", buf, tt.want)
			}
		})
	}
}
