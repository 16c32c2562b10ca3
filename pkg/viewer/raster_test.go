package viewer

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
	"gonum.org/v1/gonum/floats/scalar"
)

func pt(x, y float64) geometry.Point {
	return geometry.NewPoint(x, y)
}

func isBlank(c color.RGBA) bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// near compares colors allowing for antialiasing round off
func near(got color.RGBA, want color.Color) bool {
	w := color.RGBAModel.Convert(want).(color.RGBA)
	diff := func(a, b uint8) bool { return a > b+2 || b > a+2 }
	return !diff(got.R, w.R) && !diff(got.G, w.G) && !diff(got.B, w.B) && !diff(got.A, w.A)
}

func TestRasterizerDrawsLine(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := NewRasterizer(dst, DefaultOptions())
	r.Draw(shape.Line{Segment: geometry.NewSegment(pt(10, 50), pt(90, 50))})

	if got := dst.RGBAAt(50, 50); !near(got, DefaultColor) {
		t.Errorf("line pixel failed: expected %v, got %v", DefaultColor, got)
	}
	if got := dst.RGBAAt(50, 10); !isBlank(got) {
		t.Errorf("background pixel failed: got %v", got)
	}
	if got := dst.RGBAAt(5, 50); !isBlank(got) {
		t.Errorf("pixel before the line start failed: got %v", got)
	}
}

func TestRasterizerUsesHighlightColor(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := NewRasterizer(dst, DefaultOptions())
	r.Draw(shape.Line{
		Segment: geometry.NewSegment(pt(50, 10), pt(50, 90)),
		Styling: shape.Style{Color: shape.Cyan},
	})

	if got := dst.RGBAAt(50, 50); !near(got, shape.Cyan) {
		t.Errorf("line pixel failed: expected %v, got %v", shape.Cyan, got)
	}
}

func TestRasterizerDashes(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := NewRasterizer(dst, DefaultOptions())
	// Dash 2 at scale 5: on from 10 to 20, off to 30, on to 40
	r.Draw(shape.Line{
		Segment: geometry.NewSegment(pt(10, 50), pt(90, 50)),
		Styling: shape.Style{Dash: 2},
	})

	if got := dst.RGBAAt(15, 50); isBlank(got) {
		t.Errorf("expected a dash at x=15")
	}
	if got := dst.RGBAAt(25, 50); !isBlank(got) {
		t.Errorf("expected a gap at x=25, got %v", got)
	}
	if got := dst.RGBAAt(35, 50); isBlank(got) {
		t.Errorf("expected a dash at x=35")
	}
}

func TestRasterizerFillsEllipse(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := NewRasterizer(dst, DefaultOptions())
	r.Draw(shape.Ellipse{Center: pt(50, 50), RX: 20, RY: 10, Styling: shape.Style{Fill: true}})

	if got := dst.RGBAAt(50, 50); !near(got, DefaultColor) {
		t.Errorf("center pixel failed: got %v", got)
	}
	if got := dst.RGBAAt(50, 30); !isBlank(got) {
		t.Errorf("pixel outside failed: got %v", got)
	}
}

func TestRasterizerStrokesCircleOutline(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := NewRasterizer(dst, DefaultOptions())
	r.Draw(shape.NewCircle(geometry.Circle{Center: pt(50, 50), Radius: 30}, shape.Style{}))

	if got := dst.RGBAAt(50, 50); !isBlank(got) {
		t.Errorf("center must stay empty, got %v", got)
	}
	if got := dst.RGBAAt(80, 50); isBlank(got) {
		t.Errorf("expected the outline at (80,50)")
	}
}

func TestRenderScalesImageAndShapes(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			base.SetRGBA(x, y, color.RGBA{R: 60, G: 60, B: 60, A: 255})
		}
	}

	out := Render(base, 100, 100, []shape.Shape{
		shape.Line{Segment: geometry.NewSegment(pt(0, 25), pt(50, 25))},
	}, DefaultOptions())

	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Fatalf("size failed: got %v", out.Bounds())
	}
	if got := out.RGBAAt(50, 50); !near(got, DefaultColor) {
		t.Errorf("scaled line pixel failed: got %v", got)
	}
	if got := out.RGBAAt(10, 10); !near(got, color.RGBA{R: 60, G: 60, B: 60, A: 255}) {
		t.Errorf("scaled image pixel failed: got %v", got)
	}
}

func TestRenderLabels(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 100, 100))
	opts := DefaultOptions()
	opts.Caption = []string{"Vertebral Heart Score: 9.50"}

	out := Render(base, 0, 0, []shape.Shape{shape.Text{At: pt(40, 60), Text: "63.4°"}}, opts)

	lit := 0
	for y := 60; y < 80; y++ {
		for x := 40; x < 80; x++ {
			if c := out.RGBAAt(x, y); c.R > 128 && c.G > 128 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Errorf("expected label pixels near the anchor")
	}
}

func samePoint(a, b geometry.Point) bool {
	return scalar.EqualWithinAbs(a.X, b.X, 1e-6) && scalar.EqualWithinAbs(a.Y, b.Y, 1e-6)
}

func TestDashes(t *testing.T) {
	everywhere := [2]geometry.Point{pt(-1e12, -1e12), pt(1e12, 1e12)}
	tests := []struct {
		name     string
		pts      []geometry.Point
		on, off  float64
		phase    float64
		clip     [2]geometry.Point
		expected []geometry.Segment
	}{
		{
			"straight",
			[]geometry.Point{pt(0, 0), pt(30, 0)}, 10, 5, 0, everywhere,
			[]geometry.Segment{geometry.NewSegment(pt(0, 0), pt(10, 0)), geometry.NewSegment(pt(15, 0), pt(25, 0))},
		},
		{
			"across a vertex",
			[]geometry.Point{pt(0, 0), pt(5, 0), pt(15, 0)}, 10, 5, 0, everywhere,
			[]geometry.Segment{geometry.NewSegment(pt(0, 0), pt(5, 0)), geometry.NewSegment(pt(5, 0), pt(10, 0))},
		},
		{
			"with phase",
			[]geometry.Point{pt(0, 0), pt(30, 0)}, 10, 5, 5, everywhere,
			[]geometry.Segment{
				geometry.NewSegment(pt(0, 0), pt(5, 0)),
				geometry.NewSegment(pt(10, 0), pt(20, 0)),
				geometry.NewSegment(pt(25, 0), pt(30, 0)),
			},
		},
		{
			"clipped",
			[]geometry.Point{pt(-1e9, 0), pt(1e9, 0)}, 10, 10, 0, [2]geometry.Point{pt(0, -1), pt(40, 1)},
			[]geometry.Segment{geometry.NewSegment(pt(0, 0), pt(10, 0)), geometry.NewSegment(pt(20, 0), pt(30, 0))},
		},
		{
			"outside",
			[]geometry.Point{pt(0, 50), pt(30, 50)}, 10, 5, 0, [2]geometry.Point{pt(0, -1), pt(40, 1)},
			nil,
		},
	}
	for _, tt := range tests {
		got := dashes(tt.pts, tt.on, tt.off, tt.phase, tt.clip[0], tt.clip[1])
		if len(got) != len(tt.expected) {
			t.Errorf("%s: expected %d dashes, got %v", tt.name, len(tt.expected), got)
			continue
		}
		for i := range got {
			if !samePoint(got[i].A, tt.expected[i].A) || !samePoint(got[i].B, tt.expected[i].B) {
				t.Errorf("%s: dash %d expected %v, got %v", tt.name, i, tt.expected[i], got[i])
			}
		}
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s, e, from, to float64
		expected       [][2]float64
	}{
		{"inside", 0, math.Pi, 0.5, 1, [][2]float64{{0.5, 1}}},
		{"sector a turn later", 0, math.Pi, 1.5 * math.Pi, 2.5 * math.Pi, [][2]float64{{0, 0.5 * math.Pi}}},
		{"sector across the start", 0, 2 * math.Pi, -0.1, 0.1, [][2]float64{{0, 0.1}, {2*math.Pi - 0.1, 2 * math.Pi}}},
		{"disjoint", 0, 1, 2, 3, nil},
		{"full sector", 1, 2, 0, 2 * math.Pi, [][2]float64{{1, 2}}},
	}
	for _, tt := range tests {
		got := overlap(tt.s, tt.e, tt.from, tt.to)
		if len(got) != len(tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
			continue
		}
		for i := range got {
			if !scalar.EqualWithinAbs(got[i][0], tt.expected[i][0], 1e-9) || !scalar.EqualWithinAbs(got[i][1], tt.expected[i][1], 1e-9) {
				t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
			}
		}
	}
}

func TestRasterizerDrawsArc(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := NewRasterizer(dst, DefaultOptions())
	r.Draw(shape.Arc{Center: pt(50, 50), Radius: 30, Start: 0, Extent: 90})

	// 45 degrees counter-clockwise is up and to the right
	if got := dst.RGBAAt(71, 28); isBlank(got) {
		t.Errorf("expected the arc at (71,28)")
	}
	if got := dst.RGBAAt(50, 80); !isBlank(got) {
		t.Errorf("pixel outside the arc's extent failed: got %v", got)
	}
}

func TestRenderNearlyColinearCircle(t *testing.T) {
	circle, ok := geometry.FitCircle(pt(0, 100), pt(500, 100.001), pt(1000, 100))
	if !ok {
		t.Fatalf("expected a circle")
	}
	shapes := []shape.Shape{
		shape.NewCircle(circle, shape.Style{Dash: 2}),
		shape.Arc{Center: circle.Center, Radius: circle.Radius, Start: 180, Extent: 120},
		// Encloses the whole image
		shape.Ellipse{Center: pt(500, 300), RX: 1e9, RY: 1e9, Styling: shape.Style{Fill: true, Color: shape.Pink}},
	}
	base := image.NewRGBA(image.Rect(0, 0, 1000, 600))

	done := make(chan [2]*image.RGBA, 1)
	go func() {
		done <- [2]*image.RGBA{
			Render(base, 0, 0, shapes[:1], DefaultOptions()),
			Render(base, 0, 0, shapes[1:2], DefaultOptions()),
		}
	}()

	var out [2]*image.RGBA
	select {
	case out = <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("render of a nearly colinear circle did not finish")
	}

	count := func(img *image.RGBA) int {
		lit := 0
		for x := 0; x < 1000; x++ {
			if !isBlank(img.RGBAAt(x, 100)) {
				lit++
			}
		}
		return lit
	}
	if lit := count(out[0]); lit < 300 || lit > 700 {
		t.Errorf("expected a dashed outline along y=100, got %d lit pixels", lit)
	}
	if lit := count(out[1]); lit != 1000 {
		t.Errorf("expected a solid arc along y=100, got %d lit pixels", lit)
	}
	if got := out[0].RGBAAt(500, 300); !isBlank(got) {
		t.Errorf("pixel away from the outline failed: got %v", got)
	}

	filled := Render(base, 0, 0, shapes[2:], DefaultOptions())
	if got := filled.RGBAAt(500, 300); !near(got, shape.Pink) {
		t.Errorf("enclosing fill failed: got %v", got)
	}
}

func TestCamera(t *testing.T) {
	c := FitCamera(200, 100, 100, 100)
	if c.Scale != 0.5 || c.Offset != pt(0, 25) {
		t.Fatalf("FitCamera failed: got %+v", c)
	}

	p := c.Project(pt(200, 100))
	if p != pt(100, 75) {
		t.Errorf("Project failed: expected (100,75), got %v", p)
	}
	if back := c.Unproject(p); !back.Equal(pt(200, 100)) {
		t.Errorf("Unproject failed: got %v", back)
	}

	anchor := pt(30, 40)
	before := c.Unproject(anchor)
	zoomed := c.Zoom(2, anchor)
	if after := zoomed.Unproject(anchor); !scalar.EqualWithinAbs(after.X, before.X, 1e-9) || !scalar.EqualWithinAbs(after.Y, before.Y, 1e-9) {
		t.Errorf("Zoom must keep the anchor: expected %v, got %v", before, after)
	}

	if got := FitCamera(0, 0, 10, 10); got != NewCamera() {
		t.Errorf("FitCamera of an empty image failed: got %+v", got)
	}
}
