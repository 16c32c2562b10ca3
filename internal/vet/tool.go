// Package vet implements the veterinary radiograph measurement tools: hip
// dysplasia, TPLO, vertebral heart score and vertebral left atrial size.
//
// Every tool turns an ordered snapshot of control points into an immutable
// derived geometry value. Shapes and measurements are computed from that
// value. A tool instance is not safe for concurrent use.
package vet

import (
	"fmt"
	"strings"

	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

// Kind identifies a measurement tool
type Kind int

const (
	KindHip Kind = iota
	KindTPLO
	KindVHS
	KindVLAS
)

// Kinds lists every tool kind in display order
var Kinds = []Kind{KindHip, KindTPLO, KindVHS, KindVLAS}

var kindNames = map[Kind]string{
	KindHip:  "hip",
	KindTPLO: "tplo",
	KindVHS:  "vhs",
	KindVLAS: "vlas",
}

// String returns the short name used in documents and on the command line
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a short tool name
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Edit describes a handle being dragged
type Edit struct {
	Index  int              // Slot of the moved point
	Before []geometry.Point // Points as they were when the drag started, may be nil
}

// Companion is a point the tool recomputed while a handle was dragged. The
// host writes it back into its point store on commit.
type Companion struct {
	Index int
	Point geometry.Point
}

// Tool is one measurement tool instance
type Tool interface {
	Kind() Kind
	Name() string
	PointsNumber() int
	Catalog() measurement.Catalog

	// IsValid reports whether the points are complete and non-degenerate.
	// It never changes the tool's state.
	IsValid(pts []geometry.Point) bool

	// Derive computes the geometry for the points.
	Derive(pts []geometry.Point, cal *measurement.Calibration) Derived

	// Preview computes the geometry while a handle is being dragged.
	// Constrained companion points are reflected in the result only.
	Preview(pts []geometry.Point, cal *measurement.Calibration, edit Edit) Derived

	// Commit computes the geometry when a drag ends and returns the
	// companion point to write back, if any.
	Commit(pts []geometry.Point, cal *measurement.Calibration, edit Edit) (Derived, *Companion)
}

// New creates a tool instance of the given kind
func New(kind Kind) (Tool, error) {
	switch kind {
	case KindHip:
		return NewHip(), nil
	case KindTPLO:
		return NewTPLO(), nil
	case KindVHS:
		return NewVHS(), nil
	case KindVLAS:
		return NewVLAS(), nil
	}
	return nil, fmt.Errorf("unknown tool kind %d", int(kind))
}

// slot returns the point at index i if it has been placed
func slot(pts []geometry.Point, i int) (geometry.Point, bool) {
	if i < 0 || i >= len(pts) {
		return geometry.Point{}, false
	}
	return pts[i], true
}

// slotPtr is slot returning a pointer, nil when absent
func slotPtr(pts []geometry.Point, i int) *geometry.Point {
	p, ok := slot(pts, i)
	if !ok {
		return nil
	}
	return &p
}

// segment returns the segment between slots i and j, nil when either point
// is missing or both coincide
func segment(pts []geometry.Point, i, j int) *geometry.Segment {
	a, okA := slot(pts, i)
	b, okB := slot(pts, j)
	if !okA || !okB || a.Equal(b) {
		return nil
	}
	s := geometry.NewSegment(a, b)
	return &s
}

// fitCircle fits a circle through slots i, i+1, i+2, nil when a point is
// missing or the points are degenerate
func fitCircle(pts []geometry.Point, i int) *geometry.Circle {
	if len(pts) < i+3 {
		return nil
	}
	c, ok := geometry.FitCircle(pts[i], pts[i+1], pts[i+2])
	if !ok {
		return nil
	}
	return &c
}

func ptr[T any](v T) *T {
	return &v
}
