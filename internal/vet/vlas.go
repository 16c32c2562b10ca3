package vet

import (
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// VLASPoints is the number of control points of the vertebral left atrial
// size tool
const VLASPoints = 4

// VLASCatalog lists the vertebral left atrial size measurements
var VLASCatalog = measurement.Catalog{
	{Name: "Vertebral Left Atrial Size", ID: 1, Graphic: true, Table: true, Quantifiable: true},
	{Name: "Average Vertebra", ID: 2, Graphic: true, Table: true, Quantifiable: true},
}

// VLAS computes the vertebral left atrial size.
//
// Slots 0-1 span five vertebrae starting at the fourth thoracic one, 2-3
// run from the tracheal bifurcation to where the caudal border of the left
// atrium crosses the caudal vena cava. Both endpoints move freely.
type VLAS struct{}

// NewVLAS creates a vertebral left atrial size tool
func NewVLAS() *VLAS {
	return &VLAS{}
}

func (*VLAS) Kind() Kind                   { return KindVLAS }
func (*VLAS) Name() string                 { return "Vertebral Left Atrial Size" }
func (*VLAS) PointsNumber() int            { return VLASPoints }
func (*VLAS) Catalog() measurement.Catalog { return VLASCatalog }

// IsValid reports whether the points are complete and non-degenerate
func (v *VLAS) IsValid(pts []geometry.Point) bool {
	return deriveVertebral(KindVLAS, pts, VLASPoints, 1).Valid()
}

// Derive computes the VLAS geometry
func (v *VLAS) Derive(pts []geometry.Point, _ *measurement.Calibration) Derived {
	return deriveVertebral(KindVLAS, pts, VLASPoints, 1)
}

// Preview is Derive
func (v *VLAS) Preview(pts []geometry.Point, cal *measurement.Calibration, _ Edit) Derived {
	return v.Derive(pts, cal)
}

// Commit is Derive; there is nothing to write back
func (v *VLAS) Commit(pts []geometry.Point, cal *measurement.Calibration, _ Edit) (Derived, *Companion) {
	return v.Derive(pts, cal), nil
}
