// SPDX-License-Identifier: EPL-2.0

package dimuse_test

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ik5/dimuse"
	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/formats/wav"
	"github.com/ik5/dimuse/imuse"
	"github.com/ik5/dimuse/internal/audiotest"
	"github.com/ik5/dimuse/mixer"
)

// Example_render plays a one second cue through the software mixer.
func Example_render() {
	b := bank.NewMemory()
	b.Add(&bank.Resource{
		ID:           1,
		Name:         "cue",
		Group:        bank.GroupMusic,
		Bits:         16,
		Channels:     1,
		Freq:         22050,
		LittleEndian: true,
		Regions:      []bank.Region{{Offset: 0, Length: 44100}},
		Data:         audiotest.PCM16LE(22050, 4000),
	})

	out := mixer.NewSoft(22050)
	e := imuse.New(b, out, imuse.WithProfile(imuse.ProfileDig))
	defer e.Close()

	if err := e.StartMusic("cue", 1, 0, 127); err != nil {
		fmt.Println(err)
		return
	}

	pcm, err := dimuse.Render(e, out, time.Minute)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("rendered %.1fs\n", float64(len(pcm)/2)/22050)
	// Output: rendered 1.1s
}

// Example_renderWAV exports a cue as a WAV file.
func Example_renderWAV() {
	b := bank.NewMemory()
	b.Add(&bank.Resource{
		ID: 7, Group: bank.GroupSFX, Bits: 8, Channels: 1, Freq: 11025,
		Regions: []bank.Region{{Offset: 0, Length: 1024}},
		Data:    audiotest.Ramp8(1024),
	})

	out := mixer.NewSoft(11025)
	e := imuse.New(b, out, imuse.WithProfile(imuse.ProfileDig))
	defer e.Close()
	_ = e.StartSFX(7, 64)

	var file bytes.Buffer
	if err := dimuse.RenderWAV(&file, e, out, time.Second); err != nil {
		fmt.Println(err)
		return
	}

	src, _ := wav.Decoder{}.Decode(&file)
	fmt.Println(src.SampleRate(), src.Channels())
	// Output: 11025 2
}
