package vet

import (
	"errors"
	"testing"

	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

var fixtures = map[Kind]func() []geometry.Point{
	KindHip:  hipPoints,
	KindTPLO: func() []geometry.Point { return tploPoints(70) },
	KindVHS:  vhsPoints,
	KindVLAS: vlasPoints,
}

func TestMeasurementsNeedContentPointsAndCalibration(t *testing.T) {
	loaded := measurement.SpacingLayer{Loaded: true, PixelSpacing: 0.1}
	empty := measurement.SpacingLayer{Loaded: false, PixelSpacing: 0.1}
	uncalibrated := measurement.SpacingLayer{Loaded: true}

	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			tool, err := New(kind)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			pts := fixtures[kind]()
			cal, _ := loaded.Calibration(measurement.Millimeter)
			d := tool.Derive(pts, &cal)

			if items := Measure(d, loaded, measurement.Millimeter); len(items) == 0 {
				t.Errorf("expected measurements on a loaded layer")
			}
			if items := Measure(d, empty, measurement.Millimeter); len(items) != 0 {
				t.Errorf("expected none without content, got %+v", items)
			}
			if items := Measure(d, nil, measurement.Millimeter); len(items) != 0 {
				t.Errorf("expected none without a layer, got %+v", items)
			}
			if items := Measure(d, uncalibrated, measurement.Millimeter); len(items) != 0 {
				t.Errorf("expected none without calibration, got %+v", items)
			}
			if items := ComputeMeasurements(d, nil); len(items) != 0 {
				t.Errorf("expected none with a nil calibration, got %+v", items)
			}

			partial := tool.Derive(pts[:len(pts)-1], &cal)
			if items := ComputeMeasurements(partial, &cal); len(items) != 0 {
				t.Errorf("expected none for incomplete points, got %+v", items)
			}
		})
	}
}

func TestMeasurementsFollowCatalogOrder(t *testing.T) {
	for _, kind := range Kinds {
		tool, _ := New(kind)
		items := ComputeMeasurements(tool.Derive(fixtures[kind](), pixels), pixels)

		catalog := tool.Catalog()
		if len(items) != len(catalog) {
			t.Errorf("%s: expected %d items, got %d", kind, len(catalog), len(items))
			continue
		}
		for i := range items {
			if items[i].Descriptor != catalog[i] {
				t.Errorf("%s: item %d expected %q, got %q", kind, i, catalog[i].Name, items[i].Name)
			}
		}
	}
}

func TestFinalize(t *testing.T) {
	for _, kind := range Kinds {
		tool, _ := New(kind)
		pts := fixtures[kind]()

		if _, err := Finalize(tool, pts, pixels); err != nil {
			t.Errorf("%s: unexpected error %v", kind, err)
		}

		_, err := Finalize(tool, pts[:len(pts)-1], pixels)
		if !errors.Is(err, ErrShapeInvalid) {
			t.Errorf("%s: expected ErrShapeInvalid, got %v", kind, err)
		}
	}
}

func TestPointsNumber(t *testing.T) {
	expected := map[Kind]int{KindHip: 8, KindTPLO: 9, KindVHS: 6, KindVLAS: 4}
	for kind, n := range expected {
		tool, _ := New(kind)
		if tool.PointsNumber() != n {
			t.Errorf("%s: expected %d points, got %d", kind, n, tool.PointsNumber())
		}
		if tool.Kind() != kind {
			t.Errorf("%s: wrong kind %s", kind, tool.Kind())
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds {
		parsed, err := ParseKind(kind.String())
		if err != nil || parsed != kind {
			t.Errorf("ParseKind(%q) failed: got %v, %v", kind.String(), parsed, err)
		}
	}
	if _, err := ParseKind("knee"); err == nil {
		t.Errorf("expected an error for an unknown tool")
	}
	if _, err := New(Kind(42)); err == nil {
		t.Errorf("expected an error for an unknown kind")
	}
}

func TestAssembleShapesOfNil(t *testing.T) {
	if shapes := AssembleShapes(nil); shapes != nil {
		t.Errorf("expected no shapes, got %v", shapes)
	}
}
