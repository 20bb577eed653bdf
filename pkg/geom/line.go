package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// intersectTolerance absorbs floating point rounding when an intersection
// point computed from one line is checked against the other line's bounds.
const intersectTolerance = 1e-9

// Line is the cached geometry of a segment between two points.
//
// P1 is always the endpoint with the smaller x (ties: smaller y). When
// Vertical is set, Slope and Intercept are zero and must not be used.
// A line with both Horizontal and Vertical set is degenerate: its endpoints
// coincide within the axis threshold.
type Line struct {
	P1, P2     Point
	Slope      float64
	Intercept  float64
	Length     float64
	Angle      float64 // degrees, screen-space convention
	Horizontal bool
	Vertical   bool

	swapped bool
}

// NewLine derives the geometry of the segment a-b. axisEps is the threshold
// below which a coordinate delta counts as zero for the axis flags.
func NewLine(a, b Point, axisEps float64) Line {
	l := Line{P1: a, P2: b}
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		l.P1, l.P2 = b, a
		l.swapped = true
	}

	dx := l.P2.X - l.P1.X
	dy := l.P2.Y - l.P1.Y

	l.Vertical = math.Abs(dx) < axisEps
	l.Horizontal = math.Abs(dy) < axisEps
	if !l.Vertical {
		l.Slope = dy / dx
		l.Intercept = l.P1.Y - l.Slope*l.P1.X
	}
	l.Length = l.P1.Distance(l.P2)

	l.Angle = math.Atan2(math.Abs(dy), dx) * 180 / math.Pi
	if l.P2.Y > l.P1.Y {
		l.Angle = 360 - l.Angle
	}
	l.Angle = -l.Angle

	return l
}

// Swapped reports whether NewLine reversed the order of its arguments.
func (l Line) Swapped() bool { return l.swapped }

// Degenerate reports whether both axis flags are set.
func (l Line) Degenerate() bool { return l.Horizontal && l.Vertical }

// WithinBounds reports whether p falls inside the line's bounding box
// expanded by tol on each side.
func (l Line) WithinBounds(p Point, tol float64) bool {
	if p.X < l.P1.X-tol || p.X > l.P2.X+tol {
		return false
	}
	lo, hi := l.P1.Y, l.P2.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	return p.Y >= lo-tol && p.Y <= hi+tol
}

// YAt returns the y coordinate of the line at x. Not valid for vertical lines.
func (l Line) YAt(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Project returns the point on the line closest to p, using the axis flags:
// horizontal lines snap to P1.Y, vertical lines to P1.X, and other lines
// use the perpendicular foot.
func (l Line) Project(p Point) Point {
	switch {
	case l.Horizontal:
		return Point{X: p.X, Y: l.P1.Y}
	case l.Vertical:
		return Point{X: l.P1.X, Y: p.Y}
	}
	d := r2.Sub(l.P2.Vec(), l.P1.Vec())
	t := r2.Dot(r2.Sub(p.Vec(), l.P1.Vec()), d) / r2.Norm2(d)
	return Point(r2.Add(l.P1.Vec(), r2.Scale(t, d)))
}

// Intersects reports whether segments a and b cross.
//
// Two vertical lines never intersect, nor do lines with equal slopes or
// degenerate lines. The result does not depend on argument order.
func Intersects(a, b Line) bool {
	if a.Degenerate() || b.Degenerate() {
		return false
	}
	if less(b, a) {
		a, b = b, a
	}

	var x, y float64
	switch {
	case a.Vertical && b.Vertical:
		return false
	case a.Vertical:
		x = a.P1.X
		y = b.YAt(x)
	case b.Vertical:
		x = b.P1.X
		y = a.YAt(x)
	default:
		den := a.Slope - b.Slope
		if den == 0 {
			return false
		}
		x = (b.Intercept - a.Intercept) / den
		y = a.YAt(x)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return false
	}

	p := Point{X: x, Y: y}
	return a.WithinBounds(p, intersectTolerance) && b.WithinBounds(p, intersectTolerance)
}

// less orders lines so Intersects always solves the same pair the same way.
func less(a, b Line) bool {
	switch {
	case a.P1.X != b.P1.X:
		return a.P1.X < b.P1.X
	case a.P1.Y != b.P1.Y:
		return a.P1.Y < b.P1.Y
	case a.P2.X != b.P2.X:
		return a.P2.X < b.P2.X
	default:
		return a.P2.Y < b.P2.Y
	}
}
