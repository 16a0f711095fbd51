// SPDX-License-Identifier: EPL-2.0

package fade

import "math"

// MaxVolume is full volume in the x1000 fixed-point scale tracks use.
const MaxVolume = 127000

// Curve selects the perceptual mapping between linear and equal-power volume.
type Curve int

const (
	Linear Curve = iota
	SquareRoot
	HalfRoot // average of linear and square root
	CubeRoot
	FourthRoot
	Log9 // ln(1+9x)/ln(10)
	Log3 // ln(1+3x)/ln(4)
)

// Curves lists every known curve id.
var Curves = []Curve{Linear, SquareRoot, HalfRoot, CubeRoot, FourthRoot, Log9, Log3}

func (c Curve) String() string {
	switch c {
	case Linear:
		return "linear"
	case SquareRoot:
		return "sqrt"
	case HalfRoot:
		return "half-root"
	case CubeRoot:
		return "cbrt"
	case FourthRoot:
		return "fourth-root"
	case Log9:
		return "log9"
	case Log3:
		return "log3"
	}
	return "unknown"
}

// ToEqualPower maps a linear volume (0..MaxVolume) onto curve c.
// Unknown curves behave as Linear. Out of range input is clamped.
func ToEqualPower(v int, c Curve) int {
	x := normalize(v)

	var y float64
	switch c {
	case SquareRoot:
		y = math.Sqrt(x)
	case HalfRoot:
		y = (x + math.Sqrt(x)) / 2
	case CubeRoot:
		y = math.Cbrt(x)
	case FourthRoot:
		y = math.Sqrt(math.Sqrt(x))
	case Log9:
		y = math.Log1p(9*x) / math.Log(10)
	case Log3:
		y = math.Log1p(3*x) / math.Log(4)
	default:
		y = x
	}

	return denormalize(y)
}

// ToLinear is the inverse of ToEqualPower.
func ToLinear(v int, c Curve) int {
	y := normalize(v)

	var x float64
	switch c {
	case SquareRoot:
		x = y * y
	case HalfRoot:
		s := (math.Sqrt(1+8*y) - 1) / 2
		x = s * s
	case CubeRoot:
		x = y * y * y
	case FourthRoot:
		x = y * y * y * y
	case Log9:
		x = math.Expm1(y*math.Log(10)) / 9
	case Log3:
		x = math.Expm1(y*math.Log(4)) / 3
	default:
		x = y
	}

	return denormalize(x)
}

func normalize(v int) float64 {
	if v <= 0 {
		return 0
	}
	if v >= MaxVolume {
		return 1
	}
	return float64(v) / MaxVolume
}

func denormalize(x float64) int {
	return int(math.Round(math.Min(math.Max(x, 0), 1) * MaxVolume))
}
