// SPDX-License-Identifier: EPL-2.0

package fade

// Fade is a volume ramp in progress. Step is signed and applied once per
// engine tick in the linear domain of the curve the caller passes to Advance.
type Fade struct {
	Active bool
	Dest   int
	Step   int
	Delay  int // length the fade was armed with, in 60 Hz ticks
}

// New arms a fade from one volume to another over delay 60 Hz ticks for an
// engine running at tickRate callbacks per second. A zero delay produces a
// single-tick fade. New returns an inactive Fade when from == to.
func New(from, to, delay, tickRate int) Fade {
	f := Fade{Dest: to, Delay: delay}
	if from == to {
		return f
	}

	f.Active = true
	if delay <= 0 || tickRate <= 0 {
		f.Step = to - from
		return f
	}

	f.Step = (to - from) * 60 / (tickRate * delay)
	if f.Step == 0 {
		// Ramp too long for the distance; crawl one unit per tick
		if to > from {
			f.Step = 1
		} else {
			f.Step = -1
		}
	}

	return f
}

// Ticks estimates how many Advance calls a linear fade from vol needs.
func (f Fade) Ticks(vol int) int {
	if !f.Active || f.Step == 0 {
		return 0
	}
	d := f.Dest - vol
	if d < 0 {
		d = -d
	}
	s := f.Step
	if s < 0 {
		s = -s
	}
	return (d + s - 1) / s
}

// Advance applies one tick to vol and returns the new volume. reached is true
// on the tick the destination is hit; the fade is then inactive.
// Every call moves the volume by at least one unit and never past Dest.
func (f *Fade) Advance(vol int, c Curve) (next int, reached bool) {
	if !f.Active {
		return vol, false
	}

	if vol == f.Dest || f.Step == 0 || (f.Step < 0) != (f.Dest < vol) {
		// Arrived, or the step points away from the destination
		f.Active = false
		return f.Dest, true
	}

	next = ToEqualPower(ToLinear(vol, c)+f.Step, c)

	if f.Step < 0 {
		if next >= vol {
			next = vol - 1
		}
		if next <= f.Dest {
			f.Active = false
			return f.Dest, true
		}
		return next, false
	}

	if next <= vol {
		next = vol + 1
	}
	if next >= f.Dest {
		f.Active = false
		return f.Dest, true
	}

	return next, false
}
