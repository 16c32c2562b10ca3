// Package shape describes display-agnostic drawing primitives. Shapes are
// in image pixel space; a renderer decides how to put them on a surface.
package shape

import (
	"image/color"

	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// Highlight colors used by the measurement tools
var (
	Cyan = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Pink = color.RGBA{R: 255, G: 175, B: 175, A: 255}
)

// Style controls how a shape is stroked or filled
type Style struct {
	Dash  float64     // Dash length in pixels, 0 for a solid stroke
	Color color.Color // Highlight color, nil for the tool's default color
	Fill  bool        // Fill the interior instead of stroking the outline
}

// Dashed reports whether the shape is drawn with a dashed stroke
func (s Style) Dashed() bool {
	return s.Dash > 0
}

// Shape is a styled drawing primitive
type Shape interface {
	Style() Style
	Bounds() (min, max geometry.Point)
}

// Line is a straight segment
type Line struct {
	Segment geometry.Segment
	Styling Style
}

// Ellipse is an axis-aligned ellipse given by its center and radii
type Ellipse struct {
	Center  geometry.Point
	RX, RY  float64
	Styling Style
}

// Arc is an open circular arc. Angles are in degrees, counter-clockwise
// on screen starting at three o'clock.
type Arc struct {
	Center  geometry.Point
	Radius  float64
	Start   float64
	Extent  float64
	Styling Style
}

// Path is a sequence of disconnected segments drawn as one shape
type Path struct {
	Segments []geometry.Segment
	Styling  Style
}

// Text is a label anchored at a point
type Text struct {
	At      geometry.Point
	Text    string
	Styling Style
}

// NewCircle returns an ellipse with equal radii
func NewCircle(c geometry.Circle, style Style) Ellipse {
	return Ellipse{Center: c.Center, RX: c.Radius, RY: c.Radius, Styling: style}
}

func (l Line) Style() Style    { return l.Styling }
func (e Ellipse) Style() Style { return e.Styling }
func (a Arc) Style() Style     { return a.Styling }
func (p Path) Style() Style    { return p.Styling }
func (t Text) Style() Style    { return t.Styling }

// Bounds returns the bounding box of the segment
func (l Line) Bounds() (geometry.Point, geometry.Point) {
	return boundsOf(l.Segment.A, l.Segment.B)
}

// Bounds returns the bounding box of the ellipse
func (e Ellipse) Bounds() (geometry.Point, geometry.Point) {
	r := geometry.NewPoint(e.RX, e.RY)
	return e.Center.Sub(r), e.Center.Add(r)
}

// Bounds returns the bounding box of the full circle the arc lies on
func (a Arc) Bounds() (geometry.Point, geometry.Point) {
	r := geometry.NewPoint(a.Radius, a.Radius)
	return a.Center.Sub(r), a.Center.Add(r)
}

// Bounds returns the bounding box of all segments
func (p Path) Bounds() (geometry.Point, geometry.Point) {
	pts := make([]geometry.Point, 0, 2*len(p.Segments))
	for _, s := range p.Segments {
		pts = append(pts, s.A, s.B)
	}
	return boundsOf(pts...)
}

// Bounds returns the anchor point
func (t Text) Bounds() (geometry.Point, geometry.Point) {
	return t.At, t.At
}

func boundsOf(pts ...geometry.Point) (geometry.Point, geometry.Point) {
	if len(pts) == 0 {
		return geometry.Point{}, geometry.Point{}
	}
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Bounds returns the bounding box of all shapes
func Bounds(shapes []Shape) (geometry.Point, geometry.Point) {
	var pts []geometry.Point
	for _, s := range shapes {
		min, max := s.Bounds()
		pts = append(pts, min, max)
	}
	return boundsOf(pts...)
}
