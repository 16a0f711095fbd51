// SPDX-License-Identifier: EPL-2.0

// Package fade holds the volume curve math and the per-tick fade stepper the
// sequencer uses for click-free fades and speech ducking.
//
// Volumes live on the 0..127000 scale (0..127 times 1000). A curve maps that
// range onto itself: ToEqualPower bends a linear value, ToLinear undoes it.
// Fades step in the linear domain and are converted back onto the curve each
// tick, which gives perceptually even ramps on the concave curves:
//
//	f := fade.New(track.Vol, 0, 30, 60) // to silence over half a second
//	for f.Active {
//	    vol, done := f.Advance(vol, fade.SquareRoot)
//	    ...
//	}
package fade
