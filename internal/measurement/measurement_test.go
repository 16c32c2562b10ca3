package measurement

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSpacingLayerCalibration(t *testing.T) {
	layer := SpacingLayer{Loaded: true, PixelSpacing: 0.2}

	tests := []struct {
		unit  Unit
		ratio float64
		label string
	}{
		{Pixel, 1, "px"},
		{Millimeter, 0.2, "mm"},
		{Centimeter, 0.02, "cm"},
		{Inch, 0.2 / 25.4, "in"},
	}

	for _, tt := range tests {
		cal, ok := layer.Calibration(tt.unit)
		if !ok {
			t.Fatalf("%v: expected a calibration", tt.unit)
		}
		if !scalar.EqualWithinAbs(cal.Ratio, tt.ratio, 1e-12) || cal.Unit != tt.label {
			t.Errorf("%v: expected %v %s, got %v %s", tt.unit, tt.ratio, tt.label, cal.Ratio, cal.Unit)
		}
	}
}

func TestSpacingLayerWithoutSpacing(t *testing.T) {
	layer := SpacingLayer{Loaded: true}

	if _, ok := layer.Calibration(Millimeter); ok {
		t.Errorf("expected no millimeter calibration without pixel spacing")
	}
	if _, ok := layer.Calibration(Pixel); !ok {
		t.Errorf("expected pixel calibration without pixel spacing")
	}
}

func TestParseUnit(t *testing.T) {
	for _, s := range []string{"mm", "MM", " millimeters "} {
		if u, err := ParseUnit(s); err != nil || u != Millimeter {
			t.Errorf("ParseUnit(%q) failed: got %v, %v", s, u, err)
		}
	}
	if _, err := ParseUnit("furlong"); err == nil {
		t.Errorf("expected an error for an unknown unit")
	}
}

func TestItemConstructors(t *testing.T) {
	d := Descriptor{Name: "Length", ID: 1, Graphic: true, Table: true, Quantifiable: true}

	item := NewCalibrated(d, 50, Calibration{Ratio: 0.5, Unit: "mm"})
	if item.Value != 25 || item.Unit != "mm" || !item.Calibrated {
		t.Errorf("NewCalibrated failed: got %+v", item)
	}

	angle := NewAngle(d, 12.5)
	if angle.Unit != Degree || angle.Calibrated {
		t.Errorf("NewAngle failed: got %+v", angle)
	}

	score := NewScore(d, 3.5)
	if score.Unit != "" || score.Calibrated {
		t.Errorf("NewScore failed: got %+v", score)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		value    float64
		unit     string
		expected string
	}{
		{3.5, "", "3.50"},
		{12.345, Degree, "12.3°"},
		{20, "mm", "20.00 mm"},
	}

	for _, tt := range tests {
		if got := Format(tt.value, tt.unit); got != tt.expected {
			t.Errorf("Format(%v, %q) failed: expected %q, got %q", tt.value, tt.unit, tt.expected, got)
		}
	}
}

func TestFormatTable(t *testing.T) {
	items := []Item{
		NewScore(Descriptor{Name: "Vertebral Heart Score", Table: true}, 3.5),
		NewCalibrated(Descriptor{Name: "Average Vertebra", Table: true}, 20, Calibration{Ratio: 1, Unit: "px"}),
		NewScore(Descriptor{Name: "Hidden", Table: false}, 1),
	}

	table := FormatTable(items)
	if !strings.Contains(table, "Vertebral Heart Score  3.50") {
		t.Errorf("missing score row in %q", table)
	}
	if !strings.Contains(table, "Average Vertebra       20.00 px") {
		t.Errorf("missing vertebra row in %q", table)
	}
	if strings.Contains(table, "Hidden") {
		t.Errorf("hidden row rendered in %q", table)
	}
}
