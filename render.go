// SPDX-License-Identifier: EPL-2.0

package dimuse

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/dimuse/formats/wav"
	"github.com/ik5/dimuse/imuse"
	"github.com/ik5/dimuse/mixer"
	"github.com/ik5/dimuse/utils"
)

var ErrNothingToRender = errors.New("nothing to render")

// Render drives the engine offline and collects what the mixer produces as
// interleaved stereo 16-bit PCM.
//
// Each step calls e.Tick once and then pulls exactly the number of frames
// that fit between two ticks at the engine's tick rate, so the output is
// identical to what a real-time Run would have produced.
//
// Parameters:
//   - e: The engine to tick. It must have been created with m as its mixer.
//   - m: The software mixer the engine feeds.
//   - limit: Upper bound on the rendered length. Rendering stops earlier
//     once the engine has no tracks left and the mixer has drained.
//
// Returns:
//   - []int16: Interleaved left/right samples at m.SampleRate()
//   - error: ErrNothingToRender for a nil engine or mixer or a non-positive
//     limit, or the mixer's read error
//
// Example:
//
//	out := mixer.NewSoft(22050)
//	e := imuse.New(b, out, imuse.WithProfile(imuse.ProfileDig))
//	_ = e.StartMusic("theme", 1, 0, 127)
//	pcm, err := dimuse.Render(e, out, 30*time.Second)
func Render(e *imuse.Engine, m *mixer.Soft, limit time.Duration) ([]int16, error) {
	if e == nil || m == nil || limit <= 0 {
		return nil, ErrNothingToRender
	}

	rate := m.SampleRate()
	tickRate := e.Profile().TickRate
	total := int(int64(rate) * int64(limit) / int64(time.Second))

	// Start small and grow as needed
	out := make([]int16, 0, 2*min(total, rate*4))
	buf := make([]float32, 2*(rate/tickRate+1))

	acc := 0
	for frames := 0; frames < total; {
		e.Tick()

		// Spread the remainder so no frame is lost over a second
		acc += rate
		n := acc / tickRate
		acc -= n * tickRate
		n = min(n, total-frames)
		if n == 0 {
			continue
		}

		got, err := m.ReadSamples(buf[:2*n])
		if err != nil {
			return out, fmt.Errorf("render: %w", err)
		}
		for _, x := range buf[:got] {
			out = append(out, utils.Float32ToInt16(x))
		}
		frames += n

		if m.Active() == 0 && len(e.Tracks()) == 0 {
			break
		}
	}

	return out, nil
}

// RenderWAV renders like Render and writes the result to w as a stereo
// 16-bit WAV file.
func RenderWAV(w io.Writer, e *imuse.Engine, m *mixer.Soft, limit time.Duration) error {
	samples, err := Render(e, m, limit)
	if err != nil {
		return err
	}

	if err := wav.WritePCM16(w, m.SampleRate(), m.Channels(), samples); err != nil {
		return fmt.Errorf("render wav: %w", err)
	}

	return nil
}
