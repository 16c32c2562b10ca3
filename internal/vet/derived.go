package vet

import (
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/shape"
)

// Derived is the geometry a tool derived from one point snapshot. Optional
// fields of the concrete types are nil when their inputs are missing or
// degenerate.
type Derived interface {
	Kind() Kind
	// Complete reports whether every slot has a point
	Complete() bool
	// Valid reports whether the geometry is complete and non-degenerate
	Valid() bool

	shapes() []shape.Shape
	measure(cal measurement.Calibration) []measurement.Item
}

// AssembleShapes returns the drawing primitives for derived geometry. Later
// shapes are meant to be drawn over earlier ones.
func AssembleShapes(d Derived) []shape.Shape {
	if d == nil {
		return nil
	}
	return d.shapes()
}

// ComputeMeasurements returns the tool's catalog populated with values. The
// result is empty when the geometry is incomplete or invalid, or when no
// calibration is available.
func ComputeMeasurements(d Derived, cal *measurement.Calibration) []measurement.Item {
	if d == nil || cal == nil || !d.Complete() || !d.Valid() {
		return nil
	}
	return d.measure(*cal)
}

// Measure computes measurements on a layer in the given display unit. The
// result is empty when the layer has no content or cannot be calibrated.
func Measure(d Derived, layer measurement.Layer, unit measurement.Unit) []measurement.Item {
	if layer == nil || !layer.HasContent() {
		return nil
	}
	cal, ok := layer.Calibration(unit)
	if !ok {
		return nil
	}
	return ComputeMeasurements(d, &cal)
}
