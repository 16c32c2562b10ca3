package vet

import (
	"image/color"
	"math"

	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
)

// Vertebrae is the number of vertebrae spanned by the reference segment
const Vertebrae = 5

// VertebraOffset is the spacing in pixels between the reference segment and
// its parallel display copies
const VertebraOffset = 20

// lineColors are the highlight colors of the reference segment and the
// measured segments
var lineColors = []color.Color{nil, shape.Cyan, shape.Pink}

// VertebralGeometry is the derived geometry of the vertebral heart score
// and vertebral left atrial size tools. Both measure segments in units of
// the average vertebra length.
type VertebralGeometry struct {
	kind      Kind
	Reference *geometry.Segment   // Five vertebrae, slots 0-1
	Lines     []*geometry.Segment // Measured segments, nil entries when invalid
	// Skew is |sin| of the reference segment's slope. It only offsets the
	// parallel display copies.
	Skew            float64
	AverageVertebra *float64 // Pixels
	Score           *float64 // Sum of measured lengths in vertebrae
	complete        bool
}

func (g VertebralGeometry) Kind() Kind     { return g.kind }
func (g VertebralGeometry) Complete() bool { return g.complete }

// Valid reports whether all points are placed and every segment is valid
func (g VertebralGeometry) Valid() bool {
	if !g.complete || g.Reference == nil || g.Score == nil {
		return false
	}
	for _, l := range g.Lines {
		if l == nil {
			return false
		}
	}
	return true
}

func deriveVertebral(kind Kind, pts []geometry.Point, points, lines int) VertebralGeometry {
	g := VertebralGeometry{
		kind:      kind,
		complete:  len(pts) == points,
		Reference: segment(pts, 0, 1),
		Lines:     make([]*geometry.Segment, lines),
	}
	for i := range g.Lines {
		g.Lines[i] = segment(pts, 2+2*i, 3+2*i)
	}

	if g.Reference == nil {
		return g
	}
	g.Skew = math.Abs(g.Reference.Direction().Y) / g.Reference.Length()
	g.AverageVertebra = ptr(g.Reference.Length() / Vertebrae)

	sum := 0.0
	for _, l := range g.Lines {
		if l == nil {
			return g
		}
		sum += l.Length()
	}
	g.Score = ptr(sum / *g.AverageVertebra)
	return g
}

func (g VertebralGeometry) shapes() []shape.Shape {
	valid := append([]*geometry.Segment{g.Reference}, g.Lines...)

	path := shape.Path{}
	for _, s := range valid {
		if s != nil {
			path.Segments = append(path.Segments, *s)
		}
	}
	if len(path.Segments) == 0 {
		return nil
	}
	shapes := []shape.Shape{path}

	for i, s := range valid {
		if s != nil {
			shapes = append(shapes, shape.Line{Segment: *s, Styling: shape.Style{Color: lineColor(i)}})
		}
	}

	if g.Reference == nil {
		return shapes
	}

	// Copies of the measured segments laid next to the reference segment,
	// so their lengths can be compared against the vertebrae
	for i, s := range g.Lines {
		if s == nil {
			continue
		}
		step := float64(VertebraOffset * (i + 1))
		offset := geometry.NewPoint(step*g.Skew, step*(1-g.Skew))
		end := geometry.ColinearPointAtDistance(g.Reference.A, g.Reference.B, s.Length())
		shapes = append(shapes, shape.Line{
			Segment: geometry.NewSegment(g.Reference.A, end).Translate(offset),
			Styling: shape.Style{Dash: 2, Color: lineColor(i + 1)},
		})
	}
	return shapes
}

func lineColor(i int) color.Color {
	if i < len(lineColors) {
		return lineColors[i]
	}
	return nil
}

func (g VertebralGeometry) measure(cal measurement.Calibration) []measurement.Item {
	catalog := VHSCatalog
	if g.kind == KindVLAS {
		catalog = VLASCatalog
	}
	return []measurement.Item{
		measurement.NewScore(catalog[0], *g.Score),
		measurement.NewCalibrated(catalog[1], *g.AverageVertebra, cal),
	}
}
