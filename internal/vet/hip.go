package vet

import (
	"math"

	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
)

// HipPoints is the number of control points of the hip dysplasia tool
const HipPoints = 8

// HipCatalog lists the hip dysplasia measurements
var HipCatalog = measurement.Catalog{
	{Name: "Left Angle", ID: 1, Graphic: true, Table: true, Quantifiable: true},
	{Name: "Right Angle", ID: 2, Graphic: true, Table: true, Quantifiable: true},
	{Name: "Femoral Head Distance", ID: 3, Graphic: true, Table: true, Quantifiable: true},
}

// Hip measures the subluxation angle of both femoral heads. Each side uses
// four slots: three points on the femoral head rim and the acetabular rim
// landmark.
type Hip struct{}

// NewHip creates a hip dysplasia tool
func NewHip() *Hip {
	return &Hip{}
}

func (*Hip) Kind() Kind                   { return KindHip }
func (*Hip) Name() string                 { return "Hip dysplasia" }
func (*Hip) PointsNumber() int            { return HipPoints }
func (*Hip) Catalog() measurement.Catalog { return HipCatalog }

// HipSide is the geometry of one femoral head
type HipSide struct {
	Circle   *geometry.Circle // Femoral head
	Landmark *geometry.Point  // Acetabular rim
	Angle    *float64         // Degrees in [0,90]
}

// HipGeometry is the derived hip dysplasia geometry
type HipGeometry struct {
	Sides          [2]HipSide
	CenterDistance *float64 // Pixels between both femoral head centers
	complete       bool
}

func (g HipGeometry) Kind() Kind     { return KindHip }
func (g HipGeometry) Complete() bool { return g.complete }

// Valid reports whether all points are placed and both femoral heads fit
func (g HipGeometry) Valid() bool {
	return g.complete && g.Sides[0].Circle != nil && g.Sides[1].Circle != nil
}

// IsValid reports whether the points are complete and non-degenerate
func (h *Hip) IsValid(pts []geometry.Point) bool {
	return deriveHip(pts).Valid()
}

// Derive computes the hip geometry
func (h *Hip) Derive(pts []geometry.Point, _ *measurement.Calibration) Derived {
	return deriveHip(pts)
}

// Preview is Derive; the hip tool has no constrained points
func (h *Hip) Preview(pts []geometry.Point, cal *measurement.Calibration, _ Edit) Derived {
	return h.Derive(pts, cal)
}

// Commit is Derive; the hip tool has no constrained points
func (h *Hip) Commit(pts []geometry.Point, cal *measurement.Calibration, _ Edit) (Derived, *Companion) {
	return h.Derive(pts, cal), nil
}

func deriveHip(pts []geometry.Point) HipGeometry {
	g := HipGeometry{complete: len(pts) == HipPoints}

	for i := 0; i < 2; i++ {
		g.Sides[i].Circle = fitCircle(pts, 4*i)
		g.Sides[i].Landmark = slotPtr(pts, 4*i+3)
	}

	c0, c1 := g.Sides[0].Circle, g.Sides[1].Circle
	if c0 == nil || c1 == nil {
		return g
	}

	g.CenterDistance = ptr(c0.Center.Distance(c1.Center))

	// The angle at each center between its own landmark and the other center
	for i := 0; i < 2; i++ {
		side := &g.Sides[i]
		if side.Landmark == nil {
			continue
		}
		other := g.Sides[1-i].Circle.Center
		angle := geometry.AngleDeg(*side.Landmark, side.Circle.Center, other)
		side.Angle = ptr(math.Abs(geometry.SmallestRotation(angle)))
	}
	return g
}

func (g HipGeometry) shapes() []shape.Shape {
	var shapes []shape.Shape

	for _, side := range g.Sides {
		if side.Circle != nil && side.Circle.Radius != 0 {
			shapes = append(shapes, shape.NewCircle(*side.Circle, shape.Style{}))
		}
		if side.Circle != nil && side.Landmark != nil {
			shapes = append(shapes, shape.Line{Segment: geometry.NewSegment(side.Circle.Center, *side.Landmark)})
		}
	}

	c0, c1 := g.Sides[0].Circle, g.Sides[1].Circle
	if c0 != nil && c1 != nil {
		shapes = append(shapes, shape.Line{Segment: geometry.NewSegment(c0.Center, c1.Center)})
	}

	// Angle labels below each center, the left one shifted outwards
	for i, side := range g.Sides {
		if side.Angle == nil {
			continue
		}
		at := side.Circle.Center.Add(geometry.NewPoint(float64(i*30-30), 30))
		shapes = append(shapes, shape.Text{At: at, Text: measurement.Format(*side.Angle, measurement.Degree)})
	}
	return shapes
}

func (g HipGeometry) measure(cal measurement.Calibration) []measurement.Item {
	items := make([]measurement.Item, 0, len(HipCatalog))
	for i, side := range g.Sides {
		if side.Angle != nil {
			items = append(items, measurement.NewAngle(HipCatalog[i], *side.Angle))
		}
	}
	if g.CenterDistance != nil {
		items = append(items, measurement.NewCalibrated(HipCatalog[2], *g.CenterDistance, cal))
	}
	return items
}
