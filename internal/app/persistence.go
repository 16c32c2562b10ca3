package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/internal/vet"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is written to every saved document
const DocumentVersion = "1.0"

// Document is the saved state of the tools placed on one radiograph
type Document struct {
	Version     string          `json:"version" yaml:"version"`
	Image       ImageData       `json:"image" yaml:"image"`
	Calibration CalibrationData `json:"calibration" yaml:"calibration"`
	Tools       []ToolData      `json:"tools" yaml:"tools"`
}

// ImageData describes the radiograph the points refer to
type ImageData struct {
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// CalibrationData holds the pixel spacing and the display unit
type CalibrationData struct {
	PixelSpacing float64 `json:"pixelSpacing" yaml:"pixelSpacing"` // mm per pixel, 0 when unknown
	Unit         string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// ToolData is a saved tool instance
type ToolData struct {
	ID     string           `json:"id" yaml:"id"`
	Kind   string           `json:"kind" yaml:"kind"`
	Points []geometry.Point `json:"points" yaml:"points"`
	// SawRadius is the accepted TPLO saw radius in SawUnit
	SawRadius *float64 `json:"sawRadius,omitempty" yaml:"sawRadius,omitempty"`
	SawUnit   string   `json:"sawUnit,omitempty" yaml:"sawUnit,omitempty"`
}

// Format is a document encoding
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the encoding from a file name
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// DocumentPath returns the document file stored next to an image
func DocumentPath(imagePath string) string {
	return imagePath + ".vetm.json"
}

// Layer returns the calibration layer described by the document
func (d *Document) Layer() measurement.SpacingLayer {
	return measurement.SpacingLayer{
		Loaded:       d.Image.Width > 0 && d.Image.Height > 0,
		PixelSpacing: d.Calibration.PixelSpacing,
	}
}

// Unit returns the display unit, millimeters when a spacing is known and
// pixels otherwise
func (d *Document) Unit() (measurement.Unit, error) {
	if d.Calibration.Unit != "" {
		return measurement.ParseUnit(d.Calibration.Unit)
	}
	if d.Calibration.PixelSpacing > 0 {
		return measurement.Millimeter, nil
	}
	return measurement.Pixel, nil
}

// Sessions recreates the tool sessions. Accepted TPLO saw radii are
// restored.
func (d *Document) Sessions() ([]*Session, error) {
	sessions := make([]*Session, 0, len(d.Tools))
	for i, t := range d.Tools {
		kind, err := vet.ParseKind(t.Kind)
		if err != nil {
			return nil, fmt.Errorf("tool %d: %w", i, err)
		}
		s, err := NewSession(kind)
		if err != nil {
			return nil, fmt.Errorf("tool %d: %w", i, err)
		}
		if t.ID != "" {
			id, err := uuid.Parse(t.ID)
			if err != nil {
				return nil, fmt.Errorf("tool %d: invalid id: %w", i, err)
			}
			s.ID = id
		}
		if len(t.Points) > s.tool.PointsNumber() {
			return nil, fmt.Errorf("tool %d: %w: %s takes %d points, got %d",
				i, ErrTooManyPoints, s.tool.Name(), s.tool.PointsNumber(), len(t.Points))
		}
		s.points = clonePoints(t.Points)

		if tplo, ok := s.tool.(*vet.TPLO); ok && t.SawRadius != nil {
			if cal, ok := d.savedCalibration(t.SawUnit); ok {
				tplo.Restore(*t.SawRadius, cal)
			}
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (d *Document) savedCalibration(unit string) (measurement.Calibration, bool) {
	u, err := measurement.ParseUnit(unit)
	if err != nil {
		return measurement.Calibration{}, false
	}
	return d.Layer().Calibration(u)
}

// SetSessions replaces the saved tools with the sessions' current state
func (d *Document) SetSessions(sessions []*Session) {
	d.Tools = make([]ToolData, 0, len(sessions))
	for _, s := range sessions {
		t := ToolData{
			ID:     s.ID.String(),
			Kind:   s.tool.Kind().String(),
			Points: s.Points(),
		}
		if tplo, ok := s.tool.(*vet.TPLO); ok {
			if r, ok := tplo.SawRadius(); ok {
				t.SawRadius = &r
				t.SawUnit = tplo.SawUnit()
			}
		}
		d.Tools = append(d.Tools, t)
	}
}

// Encode serializes the document
func (d *Document) Encode(format Format) ([]byte, error) {
	if d.Version == "" {
		d.Version = DocumentVersion
	}
	if format == FormatYAML {
		data, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses a document
func DecodeDocument(data []byte, format Format) (*Document, error) {
	var d Document
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &d)
	} else {
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if d.Version == "" {
		return nil, fmt.Errorf("document has no version")
	}
	for i, t := range d.Tools {
		for j, p := range t.Points {
			if !p.IsFinite() {
				return nil, fmt.Errorf("tool %d point %d is not finite", i, j)
			}
		}
	}
	return &d, nil
}

// LoadDocument reads a document, JSON or YAML depending on the extension
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	d, err := DecodeDocument(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// SaveDocument writes a document, JSON or YAML depending on the extension
func SaveDocument(path string, d *Document) error {
	data, err := d.Encode(FormatOf(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
