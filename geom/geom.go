// Package geom has the small amount of 2D geometry the layout and routing
// code needs: vectors in meters, headings in radians.
package geom

import (
	"fmt"
	"math"
)

// Tolerances for deciding whether two connectors are joined.
const (
	// PosTolerance is 1 cm.
	PosTolerance = 0.01
	// AngleTolerance is 1 degree.
	AngleTolerance = math.Pi / 180
)

// Vec is a point or displacement in meters.
type Vec struct {
	X float64
	Y float64
}

func (v Vec) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}

func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y} }

func (v Vec) Scale(k float64) Vec { return Vec{k * v.X, k * v.Y} }

func (v Vec) Dist(w Vec) float64 {
	return math.Hypot(v.X-w.X, v.Y-w.Y)
}

// Heading returns the unit vector pointing along angle a.
func Heading(a float64) Vec {
	return Vec{math.Cos(a), math.Sin(a)}
}

// Angle returns the heading of v.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// RotateAround rotates p about center by a radians (counterclockwise).
func RotateAround(p, center Vec, a float64) Vec {
	d := p.Sub(center)
	sin, cos := math.Sincos(a)
	return center.Add(Vec{d.X*cos - d.Y*sin, d.X*sin + d.Y*cos})
}

// NormAngle brings a into (-π, π].
func NormAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Flip turns a heading around.
func Flip(a float64) float64 {
	return NormAngle(a + math.Pi)
}

// PosEq reports whether two points coincide within PosTolerance.
func PosEq(a, b Vec) bool {
	return a.Dist(b) <= PosTolerance
}

// AngleEq reports whether two headings coincide within AngleTolerance.
func AngleEq(a, b float64) bool {
	return math.Abs(NormAngle(a-b)) <= AngleTolerance
}
