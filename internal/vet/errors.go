package vet

import (
	"errors"
	"fmt"

	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// ErrShapeInvalid is returned when a shape is finalized before it can be
// drawn or measured
var ErrShapeInvalid = errors.New("this shape cannot be drawn")

// Finalize derives the geometry of a finished shape. It fails with
// ErrShapeInvalid when the points are incomplete or degenerate.
func Finalize(t Tool, pts []geometry.Point, cal *measurement.Calibration) (Derived, error) {
	if !t.IsValid(pts) {
		if len(pts) != t.PointsNumber() {
			return nil, fmt.Errorf("%w: %s needs %d points, got %d", ErrShapeInvalid, t.Name(), t.PointsNumber(), len(pts))
		}
		return nil, fmt.Errorf("%w: %s points are degenerate", ErrShapeInvalid, t.Name())
	}
	return t.Derive(pts, cal), nil
}
