package geometry

import "math"

// Epsilon is the determinant threshold below which three points are
// treated as colinear or coincident.
const Epsilon = 1e-10

// Circle is a fitted circle in pixel space
type Circle struct {
	Center Point
	Radius float64
}

// CircleFromThreePoints returns the center of the circle passing through
// three points, i.e. the intersection of the perpendicular bisectors of
// (p1,p2) and (p2,p3). It reports false when the points are colinear or
// coincident.
//
// With b = p2-p1 and c = p3-p1:
//
//	D  = 2(b × c)
//	cx = p1.x + (c.y|b|² - b.y|c|²) / D
//	cy = p1.y + (b.x|c|² - c.x|b|²) / D
func CircleFromThreePoints(p1, p2, p3 Point) (Point, bool) {
	// Work relative to p1 so large image coordinates keep their precision
	b := p2.Sub(p1)
	c := p3.Sub(p1)

	D := 2.0 * b.Cross(c)
	if math.Abs(D) < Epsilon {
		return Point{}, false
	}

	bsq := b.X*b.X + b.Y*b.Y
	csq := c.X*c.X + c.Y*c.Y

	cx := (c.Y*bsq - b.Y*csq) / D
	cy := (b.X*csq - c.X*bsq) / D

	center := NewPoint(p1.X+cx, p1.Y+cy)
	if !center.IsFinite() {
		return Point{}, false
	}
	return center, true
}

// FitCircle fits a circle through three points. The radius is the distance
// from the center to the first point, which lies on the circle by
// construction.
func FitCircle(p1, p2, p3 Point) (Circle, bool) {
	center, ok := CircleFromThreePoints(p1, p2, p3)
	if !ok {
		return Circle{}, false
	}
	return Circle{Center: center, Radius: center.Distance(p1)}, true
}
