package main

import (
	"fmt"

	"github.com/philipparndt/vetmeasure/internal/vet"
	"github.com/philipparndt/vetmeasure/pkg/shape"
	"github.com/spf13/cobra"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes [document]",
	Short: "Print the drawing primitives of every tool in a document",
	Long:  "List the lines, circles, arcs and labels each tool would draw, in image pixel coordinates and drawing order.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShapes,
}

func init() {
	rootCmd.AddCommand(shapesCmd)
}

func runShapes(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(args[0], "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, s := range ws.sessions {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s [%s]\n", s.Tool().Name(), s.ID)
		for _, sh := range vet.AssembleShapes(s.Update(ws.calibration())) {
			fmt.Fprintf(out, "  %s\n", describeShape(sh))
		}
	}
	return nil
}

func describeShape(s shape.Shape) string {
	var desc string
	switch v := s.(type) {
	case shape.Line:
		desc = fmt.Sprintf("line (%.2f, %.2f) - (%.2f, %.2f)", v.Segment.A.X, v.Segment.A.Y, v.Segment.B.X, v.Segment.B.Y)
	case shape.Path:
		desc = fmt.Sprintf("path of %d segments", len(v.Segments))
	case shape.Ellipse:
		desc = fmt.Sprintf("ellipse center (%.2f, %.2f) radii %.2f x %.2f", v.Center.X, v.Center.Y, v.RX, v.RY)
	case shape.Arc:
		desc = fmt.Sprintf("arc center (%.2f, %.2f) radius %.2f from %.1f° over %.1f°", v.Center.X, v.Center.Y, v.Radius, v.Start, v.Extent)
	case shape.Text:
		desc = fmt.Sprintf("text %q at (%.2f, %.2f)", v.Text, v.At.X, v.At.Y)
	default:
		desc = fmt.Sprintf("%T", s)
	}
	return desc + describeStyle(s.Style())
}

func describeStyle(st shape.Style) string {
	var out string
	if st.Dashed() {
		out += fmt.Sprintf(", dashed %.1f", st.Dash)
	}
	if st.Color != nil {
		r, g, b, _ := st.Color.RGBA()
		out += fmt.Sprintf(", color #%02x%02x%02x", r>>8, g>>8, b>>8)
	}
	if st.Fill {
		out += ", filled"
	}
	return out
}

