package main

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/philipparndt/vetmeasure/internal/app"
	"github.com/philipparndt/vetmeasure/internal/vet"
	"github.com/philipparndt/vetmeasure/pkg/shape"
	"github.com/philipparndt/vetmeasure/pkg/viewer"
	"github.com/spf13/cobra"
)

var (
	renderOutput  string
	renderWidth   int
	renderHeight  int
	renderLabels  bool
	renderHandles bool
	renderTable   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [document]",
	Short: "Draw the tools of a document over its image",
	Long: `Rasterize the radiograph with every tool's shapes on top and write a PNG.
Without an image, the shapes are drawn on a black canvas of the document's
image size, or one large enough for the shapes when no size is known.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output PNG file")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Output width in pixels (default image width)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "Output height in pixels (default image height)")
	renderCmd.Flags().BoolVar(&renderLabels, "labels", true, "Draw angle labels")
	renderCmd.Flags().BoolVar(&renderHandles, "handles", false, "Mark the control points")
	renderCmd.Flags().BoolVar(&renderTable, "table", false, "Print the measurements in the top left corner")

	renderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(args[0], "")
	if err != nil {
		return err
	}

	opts := viewer.DefaultOptions()
	opts.Labels = renderLabels

	cal := ws.calibration()
	var shapes []shape.Shape
	for _, s := range ws.sessions {
		shapes = append(shapes, vet.AssembleShapes(s.Update(cal))...)
		if renderHandles {
			opts.Handles = append(opts.Handles, s.Points()...)
		}
	}
	if renderTable {
		for _, r := range ws.reports() {
			for _, item := range r.Measurements {
				if item.Table {
					opts.Caption = append(opts.Caption, item.Label())
				}
			}
		}
	}

	base, err := ws.baseImage(shapes)
	if err != nil {
		return err
	}

	img := viewer.Render(base, renderWidth, renderHeight, shapes, opts)

	f, err := os.Create(renderOutput)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d tool(s) to %s\n", len(ws.sessions), renderOutput)
	return nil
}

// Blank canvases sized from the shapes get a margin and stay below a limit
const (
	canvasMargin = 20
	maxCanvas    = 4096
)

// baseImage loads the document's image, or a blank canvas of its size.
// Without a size, the canvas is grown to hold the shapes.
func (ws *workspace) baseImage(shapes []shape.Shape) (image.Image, error) {
	if path := ws.doc.ImagePath(filepath.Dir(ws.path)); path != "" {
		if _, err := os.Stat(path); err == nil {
			return app.LoadImage(path)
		}
	}
	w, h := ws.doc.Image.Width, ws.doc.Image.Height
	if w <= 0 || h <= 0 {
		w, h = canvasSize(shapes)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%s: image not found and nothing to draw", ws.path)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// canvasSize returns a size holding the shapes' bounding box
func canvasSize(shapes []shape.Shape) (int, int) {
	if len(shapes) == 0 {
		return 0, 0
	}
	_, corner := shape.Bounds(shapes)
	size := func(v float64) int {
		if v <= 0 {
			return 0
		}
		return int(math.Min(math.Ceil(v)+canvasMargin, maxCanvas))
	}
	return size(corner.X), size(corner.Y)
}
