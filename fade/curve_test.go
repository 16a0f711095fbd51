// SPDX-License-Identifier: EPL-2.0

package fade

import "testing"

func TestCurves_RoundTrip(t *testing.T) {
	t.Parallel()

	const tolerance = 3

	for _, c := range Curves {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			for v := 0; v <= MaxVolume; v += 7 {
				got := ToLinear(ToEqualPower(v, c), c)
				if diff := got - v; diff > tolerance || diff < -tolerance {
					t.Fatalf("ToLinear(ToEqualPower(%d)) = %d (diff %d)", v, got, diff)
				}
			}
		})
	}
}

func TestCurves_Monotonic(t *testing.T) {
	t.Parallel()

	for _, c := range Curves {
		prevEq, prevLin := -1, -1
		for v := 0; v <= MaxVolume; v += 100 {
			eq, lin := ToEqualPower(v, c), ToLinear(v, c)
			if eq < prevEq {
				t.Fatalf("%s: ToEqualPower decreases at %d", c, v)
			}
			if lin < prevLin {
				t.Fatalf("%s: ToLinear decreases at %d", c, v)
			}
			prevEq, prevLin = eq, lin
		}
	}
}

func TestCurves_Endpoints(t *testing.T) {
	t.Parallel()

	for _, c := range Curves {
		if got := ToEqualPower(0, c); got != 0 {
			t.Errorf("%s: ToEqualPower(0) = %d", c, got)
		}
		if got := ToEqualPower(MaxVolume, c); got != MaxVolume {
			t.Errorf("%s: ToEqualPower(max) = %d", c, got)
		}
		if got := ToLinear(MaxVolume, c); got != MaxVolume {
			t.Errorf("%s: ToLinear(max) = %d", c, got)
		}
	}
}

func TestCurves_ClampInput(t *testing.T) {
	t.Parallel()

	if got := ToEqualPower(-500, SquareRoot); got != 0 {
		t.Errorf("ToEqualPower(-500) = %d, want 0", got)
	}
	if got := ToLinear(MaxVolume+9000, Log9); got != MaxVolume {
		t.Errorf("ToLinear(over) = %d, want %d", got, MaxVolume)
	}
}

func TestCurves_ConcaveBoostsQuietValues(t *testing.T) {
	t.Parallel()

	quarter := MaxVolume / 4
	for _, c := range Curves[1:] {
		if got := ToEqualPower(quarter, c); got <= quarter {
			t.Errorf("%s: ToEqualPower(%d) = %d, want above linear", c, quarter, got)
		}
	}

	if got := ToEqualPower(quarter, Curve(42)); got != quarter {
		t.Errorf("unknown curve = %d, want linear %d", got, quarter)
	}
}

func BenchmarkToEqualPower(b *testing.B) {
	b.ReportAllocs()

	for i := range b.N {
		_ = ToEqualPower(i%MaxVolume, HalfRoot)
	}
}
