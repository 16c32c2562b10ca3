package viewer

import (
	"math"

	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// Camera maps image pixel coordinates to screen coordinates with a uniform
// scale followed by a translation
type Camera struct {
	Scale  float64
	Offset geometry.Point
}

// NewCamera returns the identity camera
func NewCamera() Camera {
	return Camera{Scale: 1}
}

// FitCamera returns a camera that fits an image into a viewport, centered
// and keeping its aspect ratio
func FitCamera(imageW, imageH int, viewW, viewH float64) Camera {
	if imageW <= 0 || imageH <= 0 || viewW <= 0 || viewH <= 0 {
		return NewCamera()
	}
	scale := math.Min(viewW/float64(imageW), viewH/float64(imageH))
	return Camera{
		Scale: scale,
		Offset: geometry.NewPoint(
			(viewW-float64(imageW)*scale)/2,
			(viewH-float64(imageH)*scale)/2,
		),
	}
}

// Project maps an image point to the screen
func (c Camera) Project(p geometry.Point) geometry.Point {
	return p.Mul(c.Scale).Add(c.Offset)
}

// Unproject maps a screen point back to the image
func (c Camera) Unproject(p geometry.Point) geometry.Point {
	if c.Scale == 0 {
		return p
	}
	return p.Sub(c.Offset).Mul(1 / c.Scale)
}

// Zoom scales around a fixed screen point
func (c Camera) Zoom(factor float64, at geometry.Point) Camera {
	if factor <= 0 {
		return c
	}
	anchor := c.Unproject(at)
	c.Scale *= factor
	c.Offset = at.Sub(anchor.Mul(c.Scale))
	return c
}

// Pan moves the view by a screen delta
func (c Camera) Pan(delta geometry.Point) Camera {
	c.Offset = c.Offset.Add(delta)
	return c
}

// After returns the camera that maps through inner first and then c
func (c Camera) After(inner Camera) Camera {
	return Camera{
		Scale:  c.Scale * inner.Scale,
		Offset: c.Project(inner.Offset),
	}
}
