// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point2D represents a 2D point with floating-point coordinates.
// Overlay points are always in the source photograph's native pixel space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return r2.Norm(r2.Sub(p.Vec(), other.Vec()))
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return FromVec(r2.Add(p.Vec(), other.Vec()))
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return FromVec(r2.Sub(p.Vec(), other.Vec()))
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return FromVec(r2.Scale(factor, p.Vec()))
}

// Vec converts the point to a gonum vector.
func (p Point2D) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// FromVec converts a gonum vector to a point.
func FromVec(v r2.Vec) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point2D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// LineSegment connects two points.
type LineSegment struct {
	Start Point2D `json:"start"`
	End   Point2D `json:"end"`
}

// NewLineSegment creates a segment from raw coordinates.
func NewLineSegment(x1, y1, x2, y2 float64) LineSegment {
	return LineSegment{Start: Point2D{X: x1, Y: y1}, End: Point2D{X: x2, Y: y2}}
}

// Length returns the segment length.
func (s LineSegment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Direction returns the unit vector from Start to End.
// The zero vector is returned for a degenerate segment.
func (s LineSegment) Direction() r2.Vec {
	d := r2.Sub(s.End.Vec(), s.Start.Vec())
	if r2.Norm(d) == 0 {
		return r2.Vec{}
	}
	return r2.Unit(d)
}

// Normal returns the unit vector perpendicular to the segment (rotated +90°).
func (s LineSegment) Normal() r2.Vec {
	d := s.Direction()
	return r2.Vec{X: -d.Y, Y: d.X}
}
