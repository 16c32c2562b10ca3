package viewer

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// DefaultColor is used for shapes without a highlight color
var DefaultColor color.Color = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// Options control how an overlay is rasterized
type Options struct {
	Camera      Camera
	StrokeWidth float64 // Screen pixels
	DashScale   float64 // Screen pixels per unit of Style.Dash
	FontSize    float64 // Points, at 72 dpi
	Labels      bool    // Draw text shapes
	Handles     []geometry.Point
	Caption     []string // Lines drawn in the top left corner
}

// DefaultOptions returns options for drawing at image scale
func DefaultOptions() Options {
	return Options{
		Camera:      NewCamera(),
		StrokeWidth: 2,
		DashScale:   5,
		FontSize:    14,
		Labels:      true,
	}
}

// Rasterizer draws shapes into an RGBA image
type Rasterizer struct {
	opts Options
	dst  *image.RGBA
	z    *vector.Rasterizer
	face font.Face
}

// NewRasterizer creates a rasterizer drawing into dst
func NewRasterizer(dst *image.RGBA, opts Options) *Rasterizer {
	if opts.Camera.Scale == 0 {
		opts.Camera.Scale = 1
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 1
	}
	if opts.DashScale <= 0 {
		opts.DashScale = 5
	}
	b := dst.Bounds()
	return &Rasterizer{
		opts: opts,
		dst:  dst,
		z:    vector.NewRasterizer(b.Dx(), b.Dy()),
		face: labelFace(opts.FontSize),
	}
}

var (
	goregularOnce sync.Once
	goregularFont *opentype.Font
)

// labelFace returns Go Regular at size, or the fixed 7x13 face when the
// font cannot be loaded
func labelFace(size float64) font.Face {
	goregularOnce.Do(func() {
		goregularFont, _ = opentype.Parse(goregular.TTF)
	})
	if size <= 0 || goregularFont == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(goregularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// Render scales base to size and draws the shapes over it. A zero size
// keeps the image size.
func Render(base image.Image, width, height int, shapes []shape.Shape, opts Options) *image.RGBA {
	b := base.Bounds()
	if width <= 0 || height <= 0 {
		width, height = b.Dx(), b.Dy()
	}
	opts.Camera = FitCamera(b.Dx(), b.Dy(), float64(width), float64(height))
	return RenderView(base, width, height, shapes, opts)
}

// RenderView draws base and the shapes through opts.Camera
func RenderView(base image.Image, width, height int, shapes []shape.Shape, opts Options) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	b := base.Bounds()
	tl := opts.Camera.Project(geometry.NewPoint(0, 0))
	br := opts.Camera.Project(geometry.NewPoint(float64(b.Dx()), float64(b.Dy())))
	target := image.Rect(int(math.Round(tl.X)), int(math.Round(tl.Y)), int(math.Round(br.X)), int(math.Round(br.Y)))
	draw.CatmullRom.Scale(dst, target, base, b, draw.Over, nil)

	r := NewRasterizer(dst, opts)
	r.DrawAll(shapes)
	return dst
}

// DrawAll draws shapes in order, then handles and caption
func (r *Rasterizer) DrawAll(shapes []shape.Shape) {
	for _, s := range shapes {
		r.Draw(s)
	}
	for _, h := range r.opts.Handles {
		r.drawHandle(r.opts.Camera.Project(h))
	}
	r.drawCaption()
}

// Draw draws a single shape
func (r *Rasterizer) Draw(s shape.Shape) {
	style := s.Style()
	col := style.Color
	if col == nil {
		col = DefaultColor
	}

	switch v := s.(type) {
	case shape.Line:
		r.stroke([]geometry.Point{v.Segment.A, v.Segment.B}, style, col)
	case shape.Path:
		for _, seg := range v.Segments {
			r.stroke([]geometry.Point{seg.A, seg.B}, style, col)
		}
	case shape.Ellipse:
		e := r.project(v.Center, v.RX, v.RY)
		if style.Fill {
			r.fill(r.area(e), col)
		} else {
			r.strokeScreen(r.outline(e, 0, 360), style, col)
		}
	case shape.Arc:
		e := r.project(v.Center, v.Radius, v.Radius)
		r.strokeScreen(r.outline(e, v.Start, v.Extent), style, col)
	case shape.Text:
		if r.opts.Labels {
			r.text(r.opts.Camera.Project(v.At), v.Text, col)
		}
	}
}

// maxCurvePoints bounds the points sampled for one visible piece of a curve
const maxCurvePoints = 1 << 14

// polyline is a piece of an outline in screen coordinates. Phase is the
// outline length before its first point, so dashes line up across pieces.
type polyline struct {
	pts   []geometry.Point
	phase float64
}

// screenEllipse is an axis-aligned ellipse in screen coordinates
type screenEllipse struct {
	center geometry.Point
	rx, ry float64
}

func (r *Rasterizer) project(center geometry.Point, rx, ry float64) screenEllipse {
	scale := r.opts.Camera.Scale
	return screenEllipse{center: r.opts.Camera.Project(center), rx: rx * scale, ry: ry * scale}
}

// sample returns points from angle a0 to a1 (radians) with chords of at
// most two pixels
func (e screenEllipse) sample(a0, a1 float64) []geometry.Point {
	step := math.Min(2/math.Max(e.rx, e.ry), 10*math.Pi/180)
	n := max(2, int(math.Min(math.Ceil((a1-a0)/step)+1, maxCurvePoints)))
	pts := make([]geometry.Point, n)
	for i := range pts {
		a := a0 + (a1-a0)*float64(i)/float64(n-1)
		pts[i] = shape.PolarPoint(e.center, e.rx, e.ry, a*180/math.Pi)
	}
	return pts
}

// reach returns the angular sector, in radians counter-clockwise on screen,
// in which the outline can cross the rectangle [lo, hi]. crosses is false
// when the outline misses the rectangle; encloses is true when the
// rectangle lies inside the ellipse.
func (e screenEllipse) reach(lo, hi geometry.Point) (from, to float64, crosses, encloses bool) {
	if !(e.rx > 0 && e.ry > 0) || math.IsInf(e.rx+e.ry, 0) || !e.center.IsFinite() {
		return 0, 0, false, false
	}

	// The rectangle as seen from the unit circle
	x0, x1 := (lo.X-e.center.X)/e.rx, (hi.X-e.center.X)/e.rx
	y0, y1 := (e.center.Y-hi.Y)/e.ry, (e.center.Y-lo.Y)/e.ry

	near := math.Hypot(clamp(0, x0, x1), clamp(0, y0, y1))
	far := math.Hypot(math.Max(-x0, x1), math.Max(-y0, y1))
	if near > 1 {
		return 0, 0, false, false
	}
	if far < 1 {
		return 0, 0, false, true
	}
	if x0 <= 0 && x1 >= 0 && y0 <= 0 && y1 >= 0 {
		return 0, 2 * math.Pi, true, false
	}

	// The center is outside, so the rectangle spans less than half a turn
	ref := math.Atan2((y0+y1)/2, (x0+x1)/2)
	from, to = math.Inf(1), math.Inf(-1)
	for _, c := range [][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		d := math.Remainder(math.Atan2(c[1], c[0])-ref, 2*math.Pi)
		from, to = math.Min(from, d), math.Max(to, d)
	}
	return ref + from, ref + to, true, false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// outline returns the visible pieces of the arc from start over extent
// degrees
func (r *Rasterizer) outline(e screenEllipse, start, extent float64) []polyline {
	if extent < 0 {
		start, extent = start+extent, -extent
	}
	extent = math.Min(extent, 360)
	if extent == 0 {
		return nil
	}

	lo, hi := r.clip()
	from, to, crosses, _ := e.reach(lo, hi)
	if !crosses {
		return nil
	}

	s := start * math.Pi / 180
	mean := (e.rx + e.ry) / 2
	var out []polyline
	for _, iv := range overlap(s, s+extent*math.Pi/180, from, to) {
		out = append(out, polyline{pts: e.sample(iv[0], iv[1]), phase: (iv[0] - s) * mean})
	}
	return out
}

// overlap intersects the arc [s, e] with the sector [from, to]. Both are in
// radians and at most one turn long.
func overlap(s, e, from, to float64) [][2]float64 {
	if to-from >= 2*math.Pi {
		return [][2]float64{{s, e}}
	}

	// Move the sector to start within one turn after s
	shift := math.Floor((from-s)/(2*math.Pi)) * 2 * math.Pi
	from, to = from-shift, to-shift

	var out [][2]float64
	for _, iv := range [][2]float64{{from - 2*math.Pi, to - 2*math.Pi}, {from, to}} {
		a, b := math.Max(iv[0], s), math.Min(iv[1], e)
		if b > a {
			out = append(out, [2]float64{a, b})
		}
	}
	return out
}

// area returns a screen polygon whose part inside the destination equals
// the ellipse's
func (r *Rasterizer) area(e screenEllipse) []geometry.Point {
	lo, hi := r.clip()
	from, to, crosses, encloses := e.reach(lo, hi)
	switch {
	case encloses:
		return []geometry.Point{lo, geometry.NewPoint(hi.X, lo.Y), hi, geometry.NewPoint(lo.X, hi.Y)}
	case !crosses:
		return nil
	}
	// A pie from the center covers the ellipse within the sector
	return append([]geometry.Point{e.center}, e.sample(from, to)...)
}

// clip returns the destination bounds grown by the stroke width. Nothing
// outside can touch a pixel.
func (r *Rasterizer) clip() (geometry.Point, geometry.Point) {
	b := r.dst.Bounds()
	m := r.opts.StrokeWidth + 2
	return geometry.NewPoint(-m, -m), geometry.NewPoint(float64(b.Dx())+m, float64(b.Dy())+m)
}

// stroke draws a polyline given in image coordinates
func (r *Rasterizer) stroke(pts []geometry.Point, style shape.Style, col color.Color) {
	if len(pts) < 2 {
		return
	}
	screen := make([]geometry.Point, len(pts))
	for i, p := range pts {
		screen[i] = r.opts.Camera.Project(p)
	}
	r.strokeScreen([]polyline{{pts: screen}}, style, col)
}

// strokeScreen draws polylines given in screen coordinates, clipped to the
// destination
func (r *Rasterizer) strokeScreen(pieces []polyline, style shape.Style, col color.Color) {
	if len(pieces) == 0 {
		return
	}
	lo, hi := r.clip()
	b := r.dst.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	for _, p := range pieces {
		if style.Dashed() {
			dash := style.Dash * r.opts.DashScale
			for _, d := range dashes(p.pts, dash, dash, p.phase, lo, hi) {
				r.addQuad(d.A, d.B)
			}
			continue
		}
		for i := 1; i < len(p.pts); i++ {
			seg := geometry.NewSegment(p.pts[i-1], p.pts[i])
			if t0, t1, ok := geometry.ClipSegment(seg, lo, hi); ok {
				r.addQuad(seg.At(t0), seg.At(t1))
			}
		}
	}
	r.z.Draw(r.dst, b, image.NewUniform(col), image.Point{})
}

// addQuad adds a thick segment. All quads share one winding so overlaps
// never cancel out.
func (r *Rasterizer) addQuad(a, b geometry.Point) {
	d := b.Sub(a)
	if d.Length() == 0 {
		return
	}
	n := geometry.NewPoint(-d.Y, d.X).Normalize().Mul(r.opts.StrokeWidth / 2)
	r.moveTo(a.Add(n))
	r.lineTo(b.Add(n))
	r.lineTo(b.Sub(n))
	r.lineTo(a.Sub(n))
	r.z.ClosePath()
}

// fill fills a polygon given in screen coordinates
func (r *Rasterizer) fill(pts []geometry.Point, col color.Color) {
	lo, hi := r.clip()
	pts = clipPolygon(pts, lo, hi)
	if len(pts) < 3 {
		return
	}
	b := r.dst.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.moveTo(pts[0])
	for _, p := range pts[1:] {
		r.lineTo(p)
	}
	r.z.ClosePath()
	r.z.Draw(r.dst, b, image.NewUniform(col), image.Point{})
}

// clipPolygon clips a polygon to the rectangle [lo, hi], one edge at a time
// (Sutherland-Hodgman)
func clipPolygon(pts []geometry.Point, lo, hi geometry.Point) []geometry.Point {
	edges := []struct {
		inside func(p geometry.Point) bool
		cross  func(a, b geometry.Point) geometry.Point
	}{
		{func(p geometry.Point) bool { return p.X >= lo.X }, func(a, b geometry.Point) geometry.Point { return atX(a, b, lo.X) }},
		{func(p geometry.Point) bool { return p.X <= hi.X }, func(a, b geometry.Point) geometry.Point { return atX(a, b, hi.X) }},
		{func(p geometry.Point) bool { return p.Y >= lo.Y }, func(a, b geometry.Point) geometry.Point { return atY(a, b, lo.Y) }},
		{func(p geometry.Point) bool { return p.Y <= hi.Y }, func(a, b geometry.Point) geometry.Point { return atY(a, b, hi.Y) }},
	}

	out := pts
	for _, e := range edges {
		in := out
		out = nil
		for i, cur := range in {
			prev := in[(i+len(in)-1)%len(in)]
			switch {
			case e.inside(cur):
				if !e.inside(prev) {
					out = append(out, e.cross(prev, cur))
				}
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
		}
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

func atX(a, b geometry.Point, x float64) geometry.Point {
	t := (x - a.X) / (b.X - a.X)
	return geometry.NewPoint(x, a.Y+t*(b.Y-a.Y))
}

func atY(a, b geometry.Point, y float64) geometry.Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return geometry.NewPoint(a.X+t*(b.X-a.X), y)
}

func (r *Rasterizer) moveTo(p geometry.Point) {
	r.z.MoveTo(float32(p.X), float32(p.Y))
}

func (r *Rasterizer) lineTo(p geometry.Point) {
	r.z.LineTo(float32(p.X), float32(p.Y))
}

// dashes splits a polyline into "on" pieces clipped to [lo, hi]. The
// pattern starts phase units in and continues across vertices.
func dashes(pts []geometry.Point, on, off, phase float64, lo, hi geometry.Point) []geometry.Segment {
	period := on + off
	var out []geometry.Segment
	traveled := phase
	for i := 1; i < len(pts); i++ {
		seg := geometry.NewSegment(pts[i-1], pts[i])
		length := seg.Length()
		if t0, t1, ok := geometry.ClipSegment(seg, lo, hi); ok && length > 0 {
			from, to := traveled+t0*length, traveled+t1*length
			for k := math.Floor(from / period); k*period < to; k++ {
				a := math.Max(k*period, from)
				b := math.Min(k*period+on, to)
				if b > a {
					out = append(out, geometry.NewSegment(seg.At((a-traveled)/length), seg.At((b-traveled)/length)))
				}
			}
		}
		traveled += length
	}
	return out
}

// drawHandle draws a control point marker at a screen position
func (r *Rasterizer) drawHandle(p geometry.Point) {
	size := 3 * r.opts.StrokeWidth
	lo, hi := r.clip()
	if p.X < lo.X-size || p.Y < lo.Y-size || p.X > hi.X+size || p.Y > hi.Y+size {
		return
	}
	b := r.dst.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.moveTo(p.Add(geometry.NewPoint(-size, -size)))
	r.lineTo(p.Add(geometry.NewPoint(size, -size)))
	r.lineTo(p.Add(geometry.NewPoint(size, size)))
	r.lineTo(p.Add(geometry.NewPoint(-size, size)))
	r.z.ClosePath()
	r.z.Draw(r.dst, b, image.NewUniform(DefaultColor), image.Point{})
}

// text draws a label with a dark background box. The anchor is the top left
// corner of the box.
func (r *Rasterizer) text(at geometry.Point, s string, col color.Color) {
	d := &font.Drawer{Dst: r.dst, Src: image.NewUniform(col), Face: r.face}
	metrics := r.face.Metrics()
	width := d.MeasureString(s).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	x, y := int(math.Round(at.X)), int(math.Round(at.Y))
	box := image.Rect(x-2, y-2, x+width+2, y+height+2)
	draw.Draw(r.dst, box, image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + metrics.Ascent}
	d.DrawString(s)
}

func (r *Rasterizer) drawCaption() {
	if len(r.opts.Caption) == 0 {
		return
	}
	lineHeight := float64((r.face.Metrics().Height).Ceil() + 4)
	for i, line := range r.opts.Caption {
		r.text(geometry.NewPoint(8, 8+float64(i)*lineHeight), line, color.White)
	}
}
