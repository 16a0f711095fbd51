// SPDX-License-Identifier: EPL-2.0

package imuse_test

import (
	"fmt"
	"testing"

	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/imuse"
	"github.com/ik5/dimuse/internal/audiotest"
	"github.com/ik5/dimuse/mixer"
)

func themeBank() *bank.Memory {
	b := bank.NewMemory()
	b.Add(&bank.Resource{
		ID:           1,
		Name:         "theme",
		Group:        bank.GroupMusic,
		Bits:         16,
		Channels:     1,
		Freq:         22050,
		LittleEndian: true,
		Regions:      []bank.Region{{Offset: 0, Length: 44100}, {Offset: 44100, Length: 44100}},
		Data:         audiotest.PCM16LE(44100, 8000),
	})
	return b
}

func Example() {
	out := mixer.NewSoft(22050)
	e := imuse.New(themeBank(), out, imuse.WithProfile(imuse.ProfileDig))
	defer e.Close()

	if err := e.StartMusic("theme", 1, 0, 127); err != nil {
		fmt.Println(err)
		return
	}
	e.Tick()

	frames := make([]float32, 2*1024)
	_, _ = out.ReadSamples(frames)

	fmt.Println("playing:", e.SoundStatus(1))
	fmt.Println("channels:", out.Active())
	fmt.Println("signal:", frames[0] > 0 && frames[1] > 0)
	// Output:
	// playing: true
	// channels: 1
	// signal: true
}

func ExampleEngine_FadeOutMusic() {
	out := mixer.NewSoft(22050)
	e := imuse.New(themeBank(), out, imuse.WithProfile(imuse.ProfileDig))
	defer e.Close()

	_ = e.StartMusic("theme", 1, 0, 127)
	e.Tick()
	e.FadeOutMusic(30)

	for _, t := range e.Tracks() {
		fmt.Println(t.SoundID, t.ToBeRemoved)
	}
	// Output:
	// 1 true
}

func TestSoftMixer_Drains(t *testing.T) {
	t.Parallel()

	out := mixer.NewSoft(22050)
	e := imuse.New(themeBank(), out, imuse.WithProfile(imuse.ProfileDig))
	t.Cleanup(func() { _ = e.Close() })

	if err := e.StartMusic("theme", 1, 0, 127); err != nil {
		t.Fatal(err)
	}

	// 88200 bytes at 4410 per tick, plus the first doubled feed
	frames := make([]float32, 2*2205)
	for range 40 {
		e.Tick()
		_, _ = out.ReadSamples(frames)
	}

	if e.SoundStatus(1) {
		t.Error("sound still playing after its last region")
	}
	for range 5 {
		e.Tick()
		_, _ = out.ReadSamples(frames)
	}
	if n := out.Active(); n != 0 {
		t.Errorf("active channels = %d, want 0", n)
	}
}
