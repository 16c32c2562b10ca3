package shape

import (
	"math"

	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// PolarPoint returns the point at a screen angle (degrees, counter-clockwise
// from three o'clock) on the axis-aligned ellipse with radii rx and ry around
// center. The image y axis points down.
func PolarPoint(center geometry.Point, rx, ry, deg float64) geometry.Point {
	rad := deg * math.Pi / 180
	return geometry.NewPoint(center.X+rx*math.Cos(rad), center.Y-ry*math.Sin(rad))
}
