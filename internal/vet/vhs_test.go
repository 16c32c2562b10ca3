package vet

import (
	"image/color"
	"reflect"
	"testing"

	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestVHSScore(t *testing.T) {
	vhs := NewVHS()
	g := vhs.Derive(vhsPoints(), pixels).(VertebralGeometry)

	if !g.Valid() {
		t.Fatalf("expected valid geometry")
	}
	if *g.AverageVertebra != 20 {
		t.Errorf("average vertebra failed: expected 20, got %v", *g.AverageVertebra)
	}
	if *g.Score != 3.5 {
		t.Errorf("score failed: expected 3.5, got %v", *g.Score)
	}

	items := ComputeMeasurements(g, pixels)
	if len(items) != 2 {
		t.Fatalf("expected two measurements, got %d", len(items))
	}
	if items[0].Name != "Vertebral Heart Score" || items[0].Value != 3.5 || items[0].Unit != "" || items[0].Calibrated {
		t.Errorf("score item failed: got %+v", items[0])
	}
	if items[1].Name != "Average Vertebra" || items[1].Value != 20 || items[1].Unit != "px" || !items[1].Calibrated {
		t.Errorf("average vertebra item failed: got %+v", items[1])
	}
}

func TestVHSEditKeepsPerpendicular(t *testing.T) {
	vhs := NewVHS()
	before := vhsPoints()

	pts := vhsPoints()
	pts[4] = pt(225, 35)
	edit := Edit{Index: 4, Before: before}

	d, companion := vhs.Commit(pts, pixels, edit)
	if companion == nil {
		t.Fatalf("expected a companion point")
	}
	if companion.Index != 5 {
		t.Errorf("expected companion slot 5, got %d", companion.Index)
	}
	if !scalar.EqualWithinAbs(companion.Point.X, 225, 1e-9) || !scalar.EqualWithinAbs(companion.Point.Y, 65, 1e-9) {
		t.Errorf("companion failed: expected (225,65), got %v", companion.Point)
	}

	horizontal := geometry.NewSegment(pts[2], pts[3]).Direction()
	vertical := companion.Point.Sub(pts[4])
	if dot := horizontal.Dot(vertical); !scalar.EqualWithinAbs(dot, 0, 1e-9) {
		t.Errorf("segments not perpendicular: dot %v", dot)
	}
	if length := vertical.Length(); !scalar.EqualWithinAbs(length, before[4].Distance(before[5]), 1e-9) {
		t.Errorf("length not preserved: expected 30, got %v", length)
	}

	g := d.(VertebralGeometry)
	if g.Lines[1].B != companion.Point {
		t.Errorf("derived geometry must use the companion point, got %v", g.Lines[1].B)
	}
}

func TestVHSEditMovingSecondEndpoint(t *testing.T) {
	before := vhsPoints()
	pts := vhsPoints()
	pts[5] = pt(210, 70)

	_, companion := NewVHS().Commit(pts, pixels, Edit{Index: 5, Before: before})
	if companion == nil || companion.Index != 4 {
		t.Fatalf("expected companion slot 4, got %+v", companion)
	}
	if !scalar.EqualWithinAbs(companion.Point.X, 210, 1e-9) || !scalar.EqualWithinAbs(companion.Point.Y, 40, 1e-9) {
		t.Errorf("companion failed: expected (210,40), got %v", companion.Point)
	}
}

func TestVHSEditOnHorizontalLine(t *testing.T) {
	before := vhsPoints()
	pts := vhsPoints()
	pts[4] = pt(230, 50)

	_, companion := NewVHS().Commit(pts, pixels, Edit{Index: 4, Before: before})
	if companion == nil {
		t.Fatalf("expected a companion point")
	}
	// The other endpoint stays below the line
	if !scalar.EqualWithinAbs(companion.Point.X, 230, 1e-9) || !scalar.EqualWithinAbs(companion.Point.Y, 80, 1e-9) {
		t.Errorf("companion failed: expected (230,80), got %v", companion.Point)
	}
}

func TestVHSEditWithoutBefore(t *testing.T) {
	pts := vhsPoints()
	pts[4] = pt(225, 35)

	_, companion := NewVHS().Commit(pts, pixels, Edit{Index: 4})
	if companion == nil {
		t.Fatalf("expected a companion point")
	}
	// 15 px above the line plus 10 px of the old endpoint below it
	if !scalar.EqualWithinAbs(companion.Point.Distance(pts[4]), 25, 1e-9) {
		t.Errorf("companion distance failed: expected 25, got %v", companion.Point.Distance(pts[4]))
	}
}

func TestVHSPreviewDoesNotWriteBack(t *testing.T) {
	vhs := NewVHS()
	before := vhsPoints()
	pts := vhsPoints()
	pts[4] = pt(225, 35)

	d := vhs.Preview(pts, pixels, Edit{Index: 4, Before: before})
	if pts[5] != before[5] {
		t.Errorf("preview modified the points: %v", pts[5])
	}
	if g := d.(VertebralGeometry); g.Lines[1].B == before[5] {
		t.Errorf("preview must show the constrained point")
	}
}

func TestVHSEditOfOtherSlots(t *testing.T) {
	pts := vhsPoints()
	pts[2] = pt(190, 50)

	_, companion := NewVHS().Commit(pts, pixels, Edit{Index: 2, Before: vhsPoints()})
	if companion != nil {
		t.Errorf("moving the horizontal segment must not recompute points, got %+v", companion)
	}
}

func TestVHSDeriveIsIdempotent(t *testing.T) {
	vhs := NewVHS()
	first := vhs.Derive(vhsPoints(), pixels)
	second := vhs.Derive(vhsPoints(), pixels)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("derive not idempotent: %+v vs %+v", first, second)
	}
}

func TestVHSSkew(t *testing.T) {
	pts := vhsPoints()
	pts[1] = pt(30, 40)

	g := NewVHS().Derive(pts, nil).(VertebralGeometry)
	if !scalar.EqualWithinAbs(g.Skew, 0.8, 1e-12) {
		t.Errorf("skew failed: expected 0.8, got %v", g.Skew)
	}
}

func TestVHSShapes(t *testing.T) {
	shapes := AssembleShapes(NewVHS().Derive(vhsPoints(), pixels))

	// path, three segments, two parallel copies
	if len(shapes) != 6 {
		t.Fatalf("expected 6 shapes, got %d", len(shapes))
	}
	if path, ok := shapes[0].(shape.Path); !ok || len(path.Segments) != 3 {
		t.Errorf("shape 0: expected a path of 3 segments, got %#v", shapes[0])
	}
	if line := shapes[2].(shape.Line); line.Style().Color != shape.Cyan {
		t.Errorf("horizontal segment must be cyan, got %v", line.Style().Color)
	}

	parallel := shapes[4].(shape.Line)
	expected := geometry.NewSegment(pt(0, 20), pt(40, 20))
	if parallel.Segment != expected || !parallel.Style().Dashed() || parallel.Style().Color != shape.Cyan {
		t.Errorf("first copy failed: expected %v dashed cyan, got %+v", expected, parallel)
	}
	if parallel := shapes[5].(shape.Line); parallel.Segment != geometry.NewSegment(pt(0, 40), pt(30, 40)) {
		t.Errorf("second copy failed: got %v", parallel.Segment)
	}
}

func TestVHSShapesWithoutReference(t *testing.T) {
	if shapes := AssembleShapes(NewVHS().Derive(vhsPoints()[:1], nil)); len(shapes) != 0 {
		t.Errorf("expected no shapes without a reference segment, got %d", len(shapes))
	}
}

func TestVHSShapesWithDegenerateReference(t *testing.T) {
	pts := vhsPoints()
	pts[1] = pts[0]

	shapes := AssembleShapes(NewVHS().Derive(pts, nil))
	// The path and both measured segments, without the copies
	if len(shapes) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(shapes))
	}
	path, ok := shapes[0].(shape.Path)
	if !ok || len(path.Segments) != 2 {
		t.Errorf("expected a path of the 2 measured segments, got %v", shapes[0])
	}
	colors := []color.Color{shape.Cyan, shape.Pink}
	for i, s := range shapes[1:] {
		line, ok := s.(shape.Line)
		if !ok || line.Styling.Dashed() || line.Styling.Color != colors[i] {
			t.Errorf("shape %d: expected a solid highlighted line, got %v", i+1, s)
		}
	}
}
