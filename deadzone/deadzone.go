// Package deadzone shapes raw analog stick samples.
//
// Apart from Default, every mode works on samples normalised to [-1, 1]
// and is based on https://github.com/Minimuino/thumbstick-deadzones.
package deadzone

import (
	"math"

	"github.com/dasdy/padkeys/model"
)

type Mode int

const (
	Default Mode = iota
	Axial
	Radial
	ScaledRadial
	SlopedAxial
	SlopedScaledAxial
	Hybrid
)

var modeNames = map[string]Mode{
	"default":             Default,
	"axial":               Axial,
	"radial":              Radial,
	"scaled_radial":       ScaledRadial,
	"sloped_axial":        SlopedAxial,
	"sloped_scaled_axial": SlopedScaledAxial,
	"hybrid":              Hybrid,
}

// ParseMode maps a mode name to a Mode. Unknown names fall back to Default.
func ParseMode(name string) (Mode, bool) {
	m, ok := modeNames[name]

	return m, ok
}

func (m Mode) String() string {
	for k, v := range modeNames {
		if v == m {
			return k
		}
	}

	return "default"
}

type Vector struct {
	X, Y float64
}

func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func AxialZone(in Vector, dz float64) Vector {
	out := in
	if math.Abs(out.X) < dz {
		out.X = 0
	}

	if math.Abs(out.Y) < dz {
		out.Y = 0
	}

	return out
}

func RadialZone(in Vector, dz float64) Vector {
	if in.Magnitude() < dz {
		return Vector{}
	}

	return in
}

func ScaledRadialZone(in Vector, dz float64) Vector {
	mag := in.Magnitude()
	if mag < dz || mag == 0 {
		return Vector{}
	}

	scale := mapRange(mag, dz, 1, 0, 1)

	return Vector{X: in.X / mag * scale, Y: in.Y / mag * scale}
}

// SlopedAxialZone scales the threshold of each axis by the magnitude of the other one.
func SlopedAxialZone(in Vector, dz float64) Vector {
	dzX := dz * math.Abs(in.Y)
	dzY := dz * math.Abs(in.X)

	out := in
	if math.Abs(out.X) < dzX {
		out.X = 0
	}

	if math.Abs(out.Y) < dzY {
		out.Y = 0
	}

	return out
}

func SlopedScaledAxialZone(in Vector, dz float64) Vector {
	dzX := dz * math.Abs(in.Y)
	dzY := dz * math.Abs(in.X)

	var out Vector
	if math.Abs(in.X) > dzX {
		out.X = sign(in.X) * mapRange(math.Abs(in.X), dzX, 1, 0, 1)
	}

	if math.Abs(in.Y) > dzY {
		out.Y = sign(in.Y) * mapRange(math.Abs(in.Y), dzY, 1, 0, 1)
	}

	return out
}

// HybridZone runs ScaledRadialZone and feeds its result to SlopedScaledAxialZone.
func HybridZone(in Vector, dz float64) Vector {
	if in.Magnitude() < dz {
		return Vector{}
	}

	return SlopedScaledAxialZone(ScaledRadialZone(in, dz), dz)
}

// Engine converts a raw stick sample into output units.
type Engine struct {
	Mode Mode
	// Threshold for the vector modes, raw units.
	Deadzone int
	// Per-axis thresholds for the Default mode, raw units.
	DeadzoneX, DeadzoneY int
	// Multiplier applied to the normalised output of the vector modes.
	Scale int
	// Divisor applied to the output of the Default mode.
	MouseScale int
}

func (e Engine) Apply(x, y int) (int, int) {
	if e.Mode == Default {
		return e.flat(x, y)
	}

	in := Vector{X: float64(x) / model.AxisMax, Y: float64(y) / model.AxisMax}
	dz := float64(e.Deadzone) / model.AxisMax

	var out Vector

	switch e.Mode {
	case Axial:
		out = AxialZone(in, dz)
	case Radial:
		out = RadialZone(in, dz)
	case ScaledRadial:
		out = ScaledRadialZone(in, dz)
	case SlopedAxial:
		out = SlopedAxialZone(in, dz)
	case SlopedScaledAxial:
		out = SlopedScaledAxialZone(in, dz)
	case Hybrid:
		out = HybridZone(in, dz)
	default:
		return e.flat(x, y)
	}

	return int(out.X * float64(e.Scale)), int(out.Y * float64(e.Scale))
}

func (e Engine) flat(x, y int) (int, int) {
	scale := e.MouseScale
	if scale == 0 {
		scale = 1
	}

	return Flat(x, e.DeadzoneX) / scale, Flat(y, e.DeadzoneY) / scale
}

// Flat zeroes value unless its magnitude exceeds dz.
func Flat(value, dz int) int {
	if value > dz || value < -dz {
		return value
	}

	return 0
}

func mapRange(value, oldMin, oldMax, newMin, newMax float64) float64 {
	if oldMax == oldMin {
		return newMax
	}

	return newMin + (newMax-newMin)*(value-oldMin)/(oldMax-oldMin)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}

	return 1
}
