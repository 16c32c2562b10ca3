package measurement

import (
	"fmt"
	"strings"
)

// Calibration converts pixel distances to physical distances
type Calibration struct {
	Ratio float64 // Physical units per pixel
	Unit  string  // Unit label, e.g. "mm"
}

// Unit is a display unit for calibrated values
type Unit int

const (
	Pixel Unit = iota
	Millimeter
	Centimeter
	Inch
)

var unitNames = map[Unit]string{
	Pixel:      "px",
	Millimeter: "mm",
	Centimeter: "cm",
	Inch:       "in",
}

// millimeters per unit
var unitScale = map[Unit]float64{
	Millimeter: 1,
	Centimeter: 10,
	Inch:       25.4,
}

// String returns the unit label
func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// ParseUnit parses a unit label such as "mm" or "inch"
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "px", "pixel", "pixels":
		return Pixel, nil
	case "mm", "millimeter", "millimeters":
		return Millimeter, nil
	case "cm", "centimeter", "centimeters":
		return Centimeter, nil
	case "in", "inch", "inches":
		return Inch, nil
	}
	return Pixel, fmt.Errorf("unknown unit %q", s)
}

// Layer is the image layer a tool is drawn on
type Layer interface {
	// HasContent reports whether the image data is loaded
	HasContent() bool
	// Calibration returns the calibration for a display unit, or false when
	// the layer cannot provide one
	Calibration(unit Unit) (Calibration, bool)
}

// SpacingLayer is a layer calibrated by a square pixel spacing in millimeters
type SpacingLayer struct {
	Loaded       bool
	PixelSpacing float64 // mm per pixel, 0 when unknown
}

// HasContent reports whether the image data is loaded
func (l SpacingLayer) HasContent() bool {
	return l.Loaded
}

// Calibration returns the calibration for the requested unit. Pixel is
// always available; physical units need a known pixel spacing.
func (l SpacingLayer) Calibration(unit Unit) (Calibration, bool) {
	if unit == Pixel {
		return Calibration{Ratio: 1, Unit: Pixel.String()}, true
	}
	scale, ok := unitScale[unit]
	if !ok || l.PixelSpacing <= 0 {
		return Calibration{}, false
	}
	return Calibration{Ratio: l.PixelSpacing / scale, Unit: unit.String()}, true
}
