package vet

import (
	"math"

	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
)

// TPLOPoints is the number of control points of the TPLO tool
const TPLOPoints = 9

// Saw radius bounds in physical units. A radius is accepted only strictly
// inside them.
const (
	MinSawRadius = 5
	MaxSawRadius = 50
)

// TPLOCatalog lists the TPLO measurements
var TPLOCatalog = measurement.Catalog{
	{Name: "Radial Saw Radius", ID: 1, Graphic: true, Table: true, Quantifiable: true},
	{Name: "Tibial Plateau Angle", ID: 2, Graphic: true, Table: true, Quantifiable: true},
}

// TPLO plans a tibial plateau leveling osteotomy.
//
// Slots 0-1 are the tibial plateau, 2-4 and 5-7 fit two circles and slot 8
// sets the radial saw radius. The saw is centered where the plateau line
// crosses the line joining both circle centers.
//
// The saw radius is sticky: a freshly computed radius outside
// (MinSawRadius, MaxSawRadius) is ignored and the last accepted one kept.
type TPLO struct {
	radius *acceptedRadius
}

type acceptedRadius struct {
	value float64 // Physical units, truncated to whole units
	cal   measurement.Calibration
}

// NewTPLO creates a TPLO tool
func NewTPLO() *TPLO {
	return &TPLO{}
}

func (*TPLO) Kind() Kind                   { return KindTPLO }
func (*TPLO) Name() string                 { return "Tibial Plateau Leveling Osteotomy" }
func (*TPLO) PointsNumber() int            { return TPLOPoints }
func (*TPLO) Catalog() measurement.Catalog { return TPLOCatalog }

// SawRadius returns the last accepted saw radius in physical units
func (t *TPLO) SawRadius() (float64, bool) {
	if t.radius == nil {
		return 0, false
	}
	return t.radius.value, true
}

// SawUnit returns the unit label of the accepted saw radius
func (t *TPLO) SawUnit() string {
	if t.radius == nil {
		return ""
	}
	return t.radius.cal.Unit
}

// Restore sets the accepted saw radius, e.g. when reopening a document.
// Values outside the saw radius bounds are ignored.
func (t *TPLO) Restore(radius float64, cal measurement.Calibration) {
	t.accept(radius, cal)
}

func (t *TPLO) accept(raw float64, cal measurement.Calibration) bool {
	if raw <= MinSawRadius || raw >= MaxSawRadius {
		return false
	}
	t.radius = &acceptedRadius{value: math.Trunc(raw), cal: cal}
	return true
}

// TPLOGeometry is the derived TPLO geometry
type TPLOGeometry struct {
	Plateau     *geometry.Segment
	TPA         *float64 // Tibial plateau angle in degrees, at most 90
	Circles     [2]*geometry.Circle
	SawCenter   *geometry.Point
	SawLandmark *geometry.Point
	RawRadius   *float64 // Freshly computed saw radius in physical units
	SawRadius   *float64 // Accepted saw radius in physical units
	SawUnit     string   // Unit label of SawRadius
	SawPixels   *float64 // Accepted saw radius in pixels
	complete    bool
}

func (g TPLOGeometry) Kind() Kind     { return KindTPLO }
func (g TPLOGeometry) Complete() bool { return g.complete }

// Valid reports whether all points are placed and the saw center exists
func (g TPLOGeometry) Valid() bool {
	return g.complete && g.Circles[0] != nil && g.Circles[1] != nil && g.SawCenter != nil
}

// IsValid reports whether the points are complete and non-degenerate
func (t *TPLO) IsValid(pts []geometry.Point) bool {
	return deriveTPLO(pts, nil).Valid()
}

// Derive computes the TPLO geometry and updates the sticky saw radius
func (t *TPLO) Derive(pts []geometry.Point, cal *measurement.Calibration) Derived {
	g := deriveTPLO(pts, cal)
	if g.RawRadius != nil {
		t.accept(*g.RawRadius, *cal)
	}
	if t.radius != nil {
		g.SawRadius = ptr(t.radius.value)
		g.SawUnit = t.radius.cal.Unit
		if t.radius.cal.Ratio > 0 {
			g.SawPixels = ptr(t.radius.value / t.radius.cal.Ratio)
		}
	}
	return g
}

// Preview is Derive; the TPLO tool has no constrained points
func (t *TPLO) Preview(pts []geometry.Point, cal *measurement.Calibration, _ Edit) Derived {
	return t.Derive(pts, cal)
}

// Commit is Derive; the TPLO tool has no constrained points
func (t *TPLO) Commit(pts []geometry.Point, cal *measurement.Calibration, _ Edit) (Derived, *Companion) {
	return t.Derive(pts, cal), nil
}

// deriveTPLO computes everything except the sticky saw radius
func deriveTPLO(pts []geometry.Point, cal *measurement.Calibration) TPLOGeometry {
	g := TPLOGeometry{complete: len(pts) == TPLOPoints}

	g.Plateau = segment(pts, 0, 1)
	if g.Plateau != nil {
		tpa := math.Abs(geometry.LineAngleDeg(g.Plateau.A, g.Plateau.B))
		if tpa > 90 {
			tpa = 180 - tpa
		}
		g.TPA = &tpa
	}

	for i := 0; i < 2; i++ {
		g.Circles[i] = fitCircle(pts, 2+3*i)
	}

	if g.Plateau != nil && g.Circles[0] != nil && g.Circles[1] != nil {
		centers := geometry.NewSegment(g.Circles[0].Center, g.Circles[1].Center)
		if p, ok := geometry.LineIntersection(*g.Plateau, centers); ok {
			g.SawCenter = &p
		}
	}

	g.SawLandmark = slotPtr(pts, 8)
	if g.complete && g.SawCenter != nil && cal != nil && cal.Ratio > 0 {
		g.RawRadius = ptr(g.SawCenter.Distance(*g.SawLandmark) * cal.Ratio)
	}
	return g
}

func (g TPLOGeometry) shapes() []shape.Shape {
	var shapes []shape.Shape

	if g.Plateau != nil {
		shapes = append(shapes, shape.Line{Segment: *g.Plateau})
	}
	for _, c := range g.Circles {
		if c != nil && c.Radius != 0 {
			shapes = append(shapes, shape.NewCircle(*c, shape.Style{Dash: 1}))
		}
	}
	if g.Circles[0] != nil && g.Circles[1] != nil {
		shapes = append(shapes, shape.Line{Segment: geometry.NewSegment(g.Circles[0].Center, g.Circles[1].Center)})
	}

	// Osteotomy arcs around the saw center, rotated with the plateau
	if g.SawCenter != nil && g.SawPixels != nil && *g.SawPixels != 0 && g.TPA != nil {
		shapes = append(shapes,
			shape.Arc{Center: *g.SawCenter, Radius: *g.SawPixels, Start: 180 - *g.TPA, Extent: 120, Styling: shape.Style{Dash: 2}},
			shape.Arc{Center: *g.SawCenter, Radius: *g.SawPixels, Start: 300 - *g.TPA, Extent: 240},
		)
	}
	return shapes
}

func (g TPLOGeometry) measure(cal measurement.Calibration) []measurement.Item {
	items := make([]measurement.Item, 0, len(TPLOCatalog))
	if g.SawRadius != nil {
		item := measurement.Item{Descriptor: TPLOCatalog[0], Value: *g.SawRadius, Unit: g.SawUnit, Calibrated: true}
		if g.SawUnit != cal.Unit && g.SawPixels != nil {
			item = measurement.NewCalibrated(TPLOCatalog[0], *g.SawPixels, cal)
		}
		// A radius accepted in another unit is reported only within bounds
		if item.Value > MinSawRadius && item.Value < MaxSawRadius {
			items = append(items, item)
		}
	}
	if g.TPA != nil {
		items = append(items, measurement.NewAngle(TPLOCatalog[1], *g.TPA))
	}
	return items
}
