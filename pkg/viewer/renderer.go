package viewer

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
)

const (
	zoomStep = 1.25
	minZoom  = 1.0 // The fitted image
	maxZoom  = 40.0
)

// ImageView shows a radiograph with a shape overlay and reports taps and
// drags in image coordinates. The wheel zooms around the pointer; a middle
// button or shift drag pans.
type ImageView struct {
	widget.BaseWidget

	mu      sync.Mutex
	image   image.Image
	shapes  []shape.Shape
	handles []geometry.Point
	caption []string
	opts    Options
	view    Camera // Zoom and pan on top of the fitted image

	raster     *canvas.Raster
	isDragging bool
	panning    bool

	// OnTapped is called with the tapped image position
	OnTapped func(p geometry.Point)
	// OnDragged is called for every drag step; start is true for the first
	// step of a drag
	OnDragged func(p geometry.Point, start bool)
	// OnDragEnd is called when the pointer is released
	OnDragEnd func()
}

var (
	_ fyne.Scrollable   = (*ImageView)(nil)
	_ desktop.Mouseable = (*ImageView)(nil)
)

// NewImageView creates an empty image view
func NewImageView() *ImageView {
	v := &ImageView{opts: DefaultOptions(), view: NewCamera()}
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer creates the renderer for the widget
func (v *ImageView) CreateRenderer() fyne.WidgetRenderer {
	v.raster = canvas.NewRaster(v.draw)
	return widget.NewSimpleRenderer(v.raster)
}

// SetImage replaces the radiograph and fits it into the view
func (v *ImageView) SetImage(img image.Image) {
	v.mu.Lock()
	v.image = img
	v.view = NewCamera()
	v.mu.Unlock()
	v.Refresh()
}

// SetOverlay replaces the shapes, control point handles and caption
func (v *ImageView) SetOverlay(shapes []shape.Shape, handles []geometry.Point, caption []string) {
	v.mu.Lock()
	v.shapes = shapes
	v.handles = handles
	v.caption = caption
	v.mu.Unlock()
	v.Refresh()
}

// SetLabels toggles text labels on the image
func (v *ImageView) SetLabels(show bool) {
	v.mu.Lock()
	v.opts.Labels = show
	v.mu.Unlock()
	v.Refresh()
}

// ResetView undoes zoom and pan
func (v *ImageView) ResetView() {
	v.mu.Lock()
	v.view = NewCamera()
	v.mu.Unlock()
	v.Refresh()
}

// draw renders the view at the raster's pixel size
func (v *ImageView) draw(w, h int) image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.image == nil {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	// The raster may have more pixels than the widget has units
	size := v.Size()
	pixels := 1.0
	if size.Width > 0 {
		pixels = float64(w) / float64(size.Width)
	} else {
		size = fyne.NewSize(float32(w), float32(h))
	}

	opts := v.opts
	opts.Camera = Camera{Scale: pixels}.After(v.cameraFor(size))
	opts.Handles = v.handles
	opts.Caption = v.caption
	return RenderView(v.image, w, h, v.shapes, opts)
}

// camera maps image coordinates to widget coordinates
func (v *ImageView) camera() Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cameraFor(v.Size())
}

// cameraFor returns the camera for a widget size. The caller holds mu.
func (v *ImageView) cameraFor(size fyne.Size) Camera {
	if v.image == nil {
		return NewCamera()
	}
	b := v.image.Bounds()
	fit := FitCamera(b.Dx(), b.Dy(), float64(size.Width), float64(size.Height))
	return v.view.After(fit)
}

// ToImage converts a widget position to image coordinates
func (v *ImageView) ToImage(pos fyne.Position) geometry.Point {
	return v.camera().Unproject(geometry.NewPoint(float64(pos.X), float64(pos.Y)))
}

// HandleTolerance returns the pick distance for handles in image pixels
func (v *ImageView) HandleTolerance() float64 {
	c := v.camera()
	return 4 * v.opts.StrokeWidth / c.Scale
}

// Scrolled zooms around the pointer
func (v *ImageView) Scrolled(event *fyne.ScrollEvent) {
	factor := zoomStep
	switch {
	case event.Scrolled.DY < 0:
		factor = 1 / zoomStep
	case event.Scrolled.DY == 0:
		return
	}
	at := geometry.NewPoint(float64(event.Position.X), float64(event.Position.Y))

	v.mu.Lock()
	switch zoom := v.view.Scale * factor; {
	case zoom <= minZoom+1e-9:
		v.view = NewCamera()
	case zoom <= maxZoom:
		v.view = v.view.Zoom(factor, at)
	}
	v.mu.Unlock()
	v.Refresh()
}

// MouseDown decides whether the following drag pans the view
func (v *ImageView) MouseDown(event *desktop.MouseEvent) {
	v.panning = event.Button == desktop.MouseButtonTertiary || event.Modifier&fyne.KeyModifierShift != 0
}

// MouseUp is required by desktop.Mouseable
func (v *ImageView) MouseUp(*desktop.MouseEvent) {}

// Tapped handles tap events
func (v *ImageView) Tapped(event *fyne.PointEvent) {
	if v.isDragging || v.OnTapped == nil {
		return
	}
	v.OnTapped(v.ToImage(event.Position))
}

// Dragged handles drag events
func (v *ImageView) Dragged(event *fyne.DragEvent) {
	start := !v.isDragging
	v.isDragging = true

	if v.panning {
		v.mu.Lock()
		v.view = v.view.Pan(geometry.NewPoint(float64(event.Dragged.DX), float64(event.Dragged.DY)))
		v.mu.Unlock()
		v.Refresh()
		return
	}
	if v.OnDragged != nil {
		v.OnDragged(v.ToImage(event.Position), start)
	}
}

// DragEnd handles the end of a drag event
func (v *ImageView) DragEnd() {
	v.isDragging = false
	if v.panning {
		v.panning = false
		return
	}
	if v.OnDragEnd != nil {
		v.OnDragEnd()
	}
}
