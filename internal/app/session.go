package app

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/internal/vet"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// ErrTooManyPoints is returned when a point is added to a full session
var ErrTooManyPoints = errors.New("all points are placed")

// Session is the point store of one tool instance on an image. It keeps the
// ordered control points, forwards edits to the tool and writes recomputed
// companion points back when a drag ends.
type Session struct {
	ID   uuid.UUID
	tool vet.Tool

	points  []geometry.Point
	drag    *vet.Edit
	derived vet.Derived
}

// NewSession creates an empty session for a tool kind
func NewSession(kind vet.Kind) (*Session, error) {
	tool, err := vet.New(kind)
	if err != nil {
		return nil, err
	}
	return &Session{ID: uuid.New(), tool: tool}, nil
}

// Tool returns the session's tool instance
func (s *Session) Tool() vet.Tool {
	return s.tool
}

// Points returns a copy of the placed points
func (s *Session) Points() []geometry.Point {
	return clonePoints(s.points)
}

// Full reports whether every slot has a point
func (s *Session) Full() bool {
	return len(s.points) >= s.tool.PointsNumber()
}

// Dragging reports whether a handle is being moved
func (s *Session) Dragging() bool {
	return s.drag != nil
}

// Derived returns the geometry of the last update, nil before the first one
func (s *Session) Derived() vet.Derived {
	return s.derived
}

// Append places the next point
func (s *Session) Append(p geometry.Point, cal *measurement.Calibration) (vet.Derived, error) {
	if s.Full() {
		return nil, fmt.Errorf("%w: %s takes %d points", ErrTooManyPoints, s.tool.Name(), s.tool.PointsNumber())
	}
	if !p.IsFinite() {
		return nil, fmt.Errorf("point %v is not finite", p)
	}
	s.points = append(s.points, p)
	return s.Update(cal), nil
}

// Remove deletes the point at index i, later points move down one slot
func (s *Session) Remove(i int, cal *measurement.Calibration) (vet.Derived, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	s.drag = nil
	s.points = append(s.points[:i], s.points[i+1:]...)
	return s.Update(cal), nil
}

// Clear removes all points
func (s *Session) Clear() {
	s.points = nil
	s.drag = nil
	s.derived = nil
}

// Move previews point i at a new position. The first move of a drag
// remembers the points as they were before it.
func (s *Session) Move(i int, p geometry.Point, cal *measurement.Calibration) (vet.Derived, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	if s.drag == nil || s.drag.Index != i {
		s.drag = &vet.Edit{Index: i, Before: clonePoints(s.points)}
	}
	s.points[i] = p
	s.derived = s.tool.Preview(s.points, cal, *s.drag)
	return s.derived, nil
}

// Release ends the drag and writes the companion point back, if the tool
// recomputed one
func (s *Session) Release(cal *measurement.Calibration) (vet.Derived, error) {
	if s.drag == nil {
		return nil, fmt.Errorf("no point is being moved")
	}
	edit := *s.drag
	s.drag = nil

	d, companion := s.tool.Commit(s.points, cal, edit)
	if companion != nil {
		if err := s.checkIndex(companion.Index); err != nil {
			return nil, fmt.Errorf("companion point: %w", err)
		}
		s.points[companion.Index] = companion.Point
	}
	s.derived = d
	return d, nil
}

// Update recomputes the geometry for the current points
func (s *Session) Update(cal *measurement.Calibration) vet.Derived {
	s.derived = s.tool.Derive(s.points, cal)
	return s.derived
}

// Finalize checks that the shape is complete and drawable
func (s *Session) Finalize(cal *measurement.Calibration) (vet.Derived, error) {
	d, err := vet.Finalize(s.tool, s.points, cal)
	if err != nil {
		return nil, err
	}
	s.derived = d
	return d, nil
}

// Measure derives the geometry in the layer's calibration for unit and
// computes its measurements
func (s *Session) Measure(layer measurement.Layer, unit measurement.Unit) []measurement.Item {
	var cal *measurement.Calibration
	if layer != nil {
		if c, ok := layer.Calibration(unit); ok {
			cal = &c
		}
	}
	return vet.Measure(s.Update(cal), layer, unit)
}

// NearestPoint returns the index of the placed point closest to p within
// tolerance, or -1
func (s *Session) NearestPoint(p geometry.Point, tolerance float64) int {
	best, index := tolerance, -1
	for i, q := range s.points {
		if d := q.Distance(p); d <= best {
			best, index = d, i
		}
	}
	return index
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("point %d does not exist, %d placed", i, len(s.points))
	}
	return nil
}

func clonePoints(pts []geometry.Point) []geometry.Point {
	if pts == nil {
		return nil
	}
	out := make([]geometry.Point, len(pts))
	copy(out, pts)
	return out
}
