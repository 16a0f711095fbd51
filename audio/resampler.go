// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/dimuse/utils"
)

// errStarved signals that a live source had nothing to hand over right now.
var errStarved = errors.New("source starved")

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
//
// Unlike a file decoder, src may be a live queue that runs dry between
// engine ticks. A starved read returns the frames produced so far with a nil
// error and resumes exactly where it stopped on the next call.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	ratio    float64 // srcRate / dstRate - how many source samples per output sample
	channels int

	// history holds interleaved source frames starting at absolute frame base.
	history []float32
	base    int
	total   int // frames pulled from src so far

	// Absolute source position of the next output frame.
	pos float64

	srcBuf []float32
	eof    bool

	// Simple low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	useFilter   bool
	filterAlpha float32
	primed      bool
}

// compactThreshold is how many stale frames may pile up before history is shifted.
const compactThreshold = 2048

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	// Enable simple low-pass filter when downsampling
	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		// One-pole low-pass, cutoff near the destination Nyquist frequency
		filterAlpha = 0.5
	}

	return &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, 1024*channels),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// fill pulls the next chunk of frames from src into history.
func (r *Resampler) fill() error {
	n, err := r.src.ReadSamples(r.srcBuf)
	frames := n / r.channels

	if frames > 0 {
		chunk := r.srcBuf[:frames*r.channels]
		if r.useFilter {
			if !r.primed {
				// Seed the filter with the first frame to avoid a warm-up transient
				copy(r.filterState, chunk[:r.channels])
			}
			for f := range frames {
				for c := range r.channels {
					i := f*r.channels + c
					// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
					chunk[i] = r.filterAlpha*chunk[i] + (1-r.filterAlpha)*r.filterState[c]
					r.filterState[c] = chunk[i]
				}
			}
		}
		r.primed = true
		r.history = append(r.history, chunk...)
		r.total += frames
	}

	switch {
	case err == io.EOF:
		r.eof = true
		return nil
	case err != nil:
		return fmt.Errorf("%w", err)
	case frames == 0:
		return errStarved
	}

	return nil
}

// frame returns source frame i, clamping to the frames seen so far.
func (r *Resampler) frame(i int) []float32 {
	i = utils.ClampInt(i, r.base, r.total-1)
	off := (i - r.base) * r.channels
	return r.history[off : off+r.channels]
}

// compact drops frames that can no longer take part in interpolation.
func (r *Resampler) compact(cur int) {
	stale := cur - 1 - r.base
	if stale < compactThreshold {
		return
	}

	n := copy(r.history, r.history[stale*r.channels:])
	r.history = r.history[:n]
	r.base += stale
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if r.srcRate == r.dstRate {
		return r.src.ReadSamples(dst)
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		cur := int(r.pos)
		r.compact(cur)

		// Cubic interpolation needs frames cur-1 .. cur+2
		for !r.eof && r.total < cur+3 {
			if err := r.fill(); err != nil {
				if errors.Is(err, errStarved) {
					return written * r.channels, nil
				}
				return written * r.channels, err
			}
		}

		if cur >= r.total {
			// Source exhausted
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, nil
		}

		alpha := float32(r.pos - float64(cur))
		y0, y1, y2, y3 := r.frame(cur-1), r.frame(cur), r.frame(cur+1), r.frame(cur+2)

		for c := range r.channels {
			dst[written*r.channels+c] = utils.CubicInterpolate(y0[c], y1[c], y2[c], y3[c], alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
