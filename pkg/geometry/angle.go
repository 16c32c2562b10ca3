package geometry

import "math"

// AngleDeg returns the angle at vertex between the rays to a and b, in
// degrees within [0,180]. A degenerate ray yields 0.
func AngleDeg(a, vertex, b Point) float64 {
	u := a.Sub(vertex)
	v := b.Sub(vertex)
	if u.Length() == 0 || v.Length() == 0 {
		return 0
	}
	u = u.Normalize()
	v = v.Normalize()
	return math.Abs(math.Atan2(u.Cross(v), u.Dot(v))) * 180 / math.Pi
}

// SmallestRotation folds an angle in degrees into [0,90]: the angle is
// reduced into [0,180] and values over 90 are reflected as 180 - angle.
func SmallestRotation(angle float64) float64 {
	angle = math.Mod(math.Abs(angle), 180)
	if angle > 90 {
		angle = 180 - angle
	}
	return angle
}

// LineAngleDeg returns the orientation of the direction a→b against the
// horizontal axis in degrees, within (-180,180]. Counter-clockwise on
// screen is positive, so the image y axis is flipped.
func LineAngleDeg(a, b Point) float64 {
	return math.Atan2(a.Y-b.Y, b.X-a.X) * 180 / math.Pi
}
