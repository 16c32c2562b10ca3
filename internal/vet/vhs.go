package vet

import (
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// VHSPoints is the number of control points of the vertebral heart score tool
const VHSPoints = 6

// VHSCatalog lists the vertebral heart score measurements
var VHSCatalog = measurement.Catalog{
	{Name: "Vertebral Heart Score", ID: 1, Graphic: true, Table: true, Quantifiable: true},
	{Name: "Average Vertebra", ID: 2, Graphic: true, Table: true, Quantifiable: true},
}

// VHS computes the vertebral heart score.
//
// Slots 0-1 span five vertebrae, 2-3 the horizontal heart extent at its
// widest point and 4-5 the vertical extent. The vertical segment is kept
// perpendicular to the horizontal one: dragging one of its endpoints moves
// the other one.
type VHS struct{}

// NewVHS creates a vertebral heart score tool
func NewVHS() *VHS {
	return &VHS{}
}

func (*VHS) Kind() Kind                   { return KindVHS }
func (*VHS) Name() string                 { return "Vertebral Heart Score" }
func (*VHS) PointsNumber() int            { return VHSPoints }
func (*VHS) Catalog() measurement.Catalog { return VHSCatalog }

// IsValid reports whether the points are complete and non-degenerate
func (v *VHS) IsValid(pts []geometry.Point) bool {
	return deriveVertebral(KindVHS, pts, VHSPoints, 2).Valid()
}

// Derive computes the geometry for the points as they are
func (v *VHS) Derive(pts []geometry.Point, _ *measurement.Calibration) Derived {
	return deriveVertebral(KindVHS, pts, VHSPoints, 2)
}

// Preview computes the geometry with the vertical segment constrained. The
// points are not modified.
func (v *VHS) Preview(pts []geometry.Point, cal *measurement.Calibration, edit Edit) Derived {
	d, _ := v.constrain(pts, edit)
	return d
}

// Commit computes the geometry with the vertical segment constrained and
// returns the recomputed endpoint to write back.
func (v *VHS) Commit(pts []geometry.Point, cal *measurement.Calibration, edit Edit) (Derived, *Companion) {
	return v.constrain(pts, edit)
}

func (v *VHS) constrain(pts []geometry.Point, edit Edit) (Derived, *Companion) {
	companion := perpendicularCompanion(pts, edit)
	if companion == nil {
		return deriveVertebral(KindVHS, pts, VHSPoints, 2), nil
	}
	constrained := make([]geometry.Point, len(pts))
	copy(constrained, pts)
	constrained[companion.Index] = companion.Point
	return deriveVertebral(KindVHS, constrained, VHSPoints, 2), companion
}

// perpendicularCompanion recomputes the endpoint of the vertical segment
// that was not dragged. It lies on the perpendicular from the moved point
// onto the horizontal segment, at the segment's length from before the
// drag.
func perpendicularCompanion(pts []geometry.Point, edit Edit) *Companion {
	if edit.Index != 4 && edit.Index != 5 {
		return nil
	}
	horizontal := segment(pts, 2, 3)
	if horizontal == nil || segment(pts, 4, 5) == nil {
		return nil
	}

	other := 9 - edit.Index
	moved := pts[edit.Index]

	var length float64
	if len(edit.Before) >= VHSPoints {
		length = edit.Before[4].Distance(edit.Before[5])
	} else {
		length = geometry.PointLineDistance(moved, *horizontal) + geometry.PointLineDistance(pts[other], *horizontal)
	}

	foot := geometry.PerpendicularFoot(moved, *horizontal)
	if !moved.Equal(foot) {
		return &Companion{Index: other, Point: geometry.ColinearPointAtDistance(moved, foot, length)}
	}

	// The moved point sits on the horizontal line: keep the other point's side
	dir := horizontal.Direction()
	normal := geometry.NewPoint(-dir.Y, dir.X).Normalize()
	if pts[other].Sub(foot).Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}
	return &Companion{Index: other, Point: moved.Add(normal.Mul(length))}
}
