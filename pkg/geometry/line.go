package geometry

import "math"

// Segment represents a line segment between two points
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// NewSegment creates a new segment
func NewSegment(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Length returns the length of the segment
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Direction returns the vector from A to B
func (s Segment) Direction() Point {
	return s.B.Sub(s.A)
}

// IsDegenerate reports whether both endpoints coincide
func (s Segment) IsDegenerate() bool {
	return s.A.Equal(s.B)
}

// At returns the point at parameter t, A at 0 and B at 1
func (s Segment) At(t float64) Point {
	return s.A.Add(s.Direction().Mul(t))
}

// Translate returns the segment shifted by offset
func (s Segment) Translate(offset Point) Segment {
	return Segment{A: s.A.Add(offset), B: s.B.Add(offset)}
}

// ColinearPointAtDistance returns the point on the ray from→through,
// extended if needed, at the given distance from `from`. A degenerate ray
// yields `from`.
func ColinearPointAtDistance(from, through Point, distance float64) Point {
	dir := through.Sub(from)
	if dir.Length() == 0 {
		return from
	}
	return from.Add(dir.Normalize().Mul(distance))
}

// PerpendicularFoot returns the orthogonal projection of p onto the infinite
// line through the segment. A degenerate line yields its first point.
func PerpendicularFoot(p Point, line Segment) Point {
	dir := line.Direction()
	lenSq := dir.Dot(dir)
	if lenSq == 0 {
		return line.A
	}
	t := p.Sub(line.A).Dot(dir) / lenSq
	return line.A.Add(dir.Mul(t))
}

// LineIntersection returns the intersection of the two infinite lines
// through the segments. It reports false when the lines are parallel or
// either one is degenerate.
func LineIntersection(a, b Segment) (Point, bool) {
	da := a.Direction()
	db := b.Direction()
	denom := da.Cross(db)
	if math.Abs(denom) < Epsilon || a.IsDegenerate() || b.IsDegenerate() {
		return Point{}, false
	}
	t := b.A.Sub(a.A).Cross(db) / denom
	p := a.A.Add(da.Mul(t))
	if !p.IsFinite() {
		return Point{}, false
	}
	return p, true
}

// PointLineDistance returns the distance from p to the infinite line through
// the segment. A degenerate line yields the distance to its first point.
func PointLineDistance(p Point, line Segment) float64 {
	dir := line.Direction()
	length := dir.Length()
	if length == 0 {
		return p.Distance(line.A)
	}
	return math.Abs(dir.Cross(p.Sub(line.A))) / length
}

// ClipSegment clips the segment to the axis-aligned rectangle [lo, hi]
// (Liang-Barsky). It returns the parameter range of the part inside and
// reports false when nothing is inside.
func ClipSegment(s Segment, lo, hi Point) (t0, t1 float64, ok bool) {
	d := s.Direction()
	edges := [4][2]float64{
		{-d.X, s.A.X - lo.X},
		{d.X, hi.X - s.A.X},
		{-d.Y, s.A.Y - lo.Y},
		{d.Y, hi.Y - s.A.Y},
	}

	t0, t1 = 0, 1
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return t0, t1, true
}
