package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point represents a 2D point or vector in image pixel space.
// The y axis points down, as in image coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPoint creates a new point
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func fromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Vec returns the point as a gonum vector
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return fromVec(r2.Add(p.Vec(), other.Vec()))
}

// Sub returns the difference between two points
func (p Point) Sub(other Point) Point {
	return fromVec(r2.Sub(p.Vec(), other.Vec()))
}

// Mul multiplies the point by a scalar
func (p Point) Mul(scalar float64) Point {
	return fromVec(r2.Scale(scalar, p.Vec()))
}

// Dot returns the dot product of two vectors
func (p Point) Dot(other Point) float64 {
	return r2.Dot(p.Vec(), other.Vec())
}

// Cross returns the z component of the cross product of two vectors
func (p Point) Cross(other Point) float64 {
	return r2.Cross(p.Vec(), other.Vec())
}

// Length returns the magnitude of the vector
func (p Point) Length() float64 {
	return r2.Norm(p.Vec())
}

// Distance returns the distance between two points
func (p Point) Distance(other Point) float64 {
	return p.Sub(other).Length()
}

// Normalize returns a unit vector in the same direction.
// The zero vector stays zero.
func (p Point) Normalize() Point {
	if p.X == 0 && p.Y == 0 {
		return Point{}
	}
	return fromVec(r2.Unit(p.Vec()))
}

// Equal reports whether both coordinates are exactly equal
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// IsFinite reports whether neither coordinate is NaN or infinite
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
