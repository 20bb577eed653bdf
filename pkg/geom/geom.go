// Package geom provides the line geometry used by course edges.
//
// A [Line] is the cached derivation of two endpoint positions: the endpoints
// ordered by x, slope, y-intercept, length, screen-space angle, and two axis
// flags. The axis flags mark lines whose opposite-axis delta is below a small
// pixel-scale threshold. Slope-based math must branch on them first: a
// vertical line has no meaningful slope or intercept.
//
// All functions are pure and allocation free.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in course (screen) coordinates.
// Y grows downward, as on screen.
type Point r2.Vec

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vec returns p as a gonum vector.
func (p Point) Vec() r2.Vec { return r2.Vec(p) }

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point(r2.Add(p.Vec(), q.Vec()))
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point(r2.Sub(p.Vec(), q.Vec()))
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point(r2.Scale(s, p.Vec()))
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return r2.Dot(p.Vec(), q.Vec())
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return r2.Norm(r2.Sub(p.Vec(), q.Vec()))
}

// WithinBox reports whether q lies strictly inside the axis-aligned box of
// half-size r centered on p.
func (p Point) WithinBox(q Point, r float64) bool {
	d := r2.Sub(p.Vec(), q.Vec())
	return math.Abs(d.X) < r && math.Abs(d.Y) < r
}

// WithinCircle reports whether p lies inside or on the circle of radius r
// around center.
func WithinCircle(p, center Point, r float64) bool {
	return r2.Norm2(r2.Sub(p.Vec(), center.Vec())) <= r*r
}
