package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/philipparndt/vetmeasure/internal/app"
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	measureUnit   string
	measureFormat string
)

var measureCmd = &cobra.Command{
	Use:   "measure [document]",
	Short: "Compute the measurements of every tool in a document",
	Long: `Derive the geometry of every tool in a measurement document and print its
measurements. An image path may be given instead of a document; the document
next to it is used. Tools with missing or degenerate points are reported as
incomplete.`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVarP(&measureUnit, "unit", "u", "", "Display unit: px, mm, cm or in (default from the document)")
	measureCmd.Flags().StringVarP(&measureFormat, "format", "f", "text", "Output format: text, json or yaml")
}

// toolReport is the measurement output of one tool
type toolReport struct {
	ID           string             `json:"id" yaml:"id"`
	Kind         string             `json:"kind" yaml:"kind"`
	Name         string             `json:"name" yaml:"name"`
	Points       int                `json:"points" yaml:"points"`
	Required     int                `json:"required" yaml:"required"`
	Complete     bool               `json:"complete" yaml:"complete"`
	Measurements []measurement.Item `json:"measurements" yaml:"measurements"`
}

// workspace is a loaded document with its tool sessions
type workspace struct {
	path     string
	doc      *app.Document
	sessions []*app.Session
	unit     measurement.Unit
}

func openWorkspace(path, unit string) (*workspace, error) {
	doc, docPath, err := app.Open(path)
	if err != nil {
		return nil, err
	}
	sessions, err := doc.Sessions()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}

	ws := &workspace{path: docPath, doc: doc, sessions: sessions}
	if unit != "" {
		ws.unit, err = measurement.ParseUnit(unit)
	} else {
		ws.unit, err = doc.Unit()
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// calibration returns the document's calibration for the display unit, nil
// when there is none
func (ws *workspace) calibration() *measurement.Calibration {
	cal, ok := ws.doc.Layer().Calibration(ws.unit)
	if !ok {
		return nil
	}
	return &cal
}

func (ws *workspace) reports() []toolReport {
	layer := ws.doc.Layer()
	reports := make([]toolReport, 0, len(ws.sessions))
	for _, s := range ws.sessions {
		items := s.Measure(layer, ws.unit)
		if items == nil {
			items = []measurement.Item{}
		}
		reports = append(reports, toolReport{
			ID:           s.ID.String(),
			Kind:         s.Tool().Kind().String(),
			Name:         s.Tool().Name(),
			Points:       len(s.Points()),
			Required:     s.Tool().PointsNumber(),
			Complete:     s.Tool().IsValid(s.Points()),
			Measurements: items,
		})
	}
	return reports
}

func writeReports(w io.Writer, format string, reports []toolReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(reports)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s]\n", r.Name, r.ID)
		switch {
		case r.Points < r.Required:
			fmt.Fprintf(w, "  incomplete: %d of %d points placed\n", r.Points, r.Required)
			continue
		case !r.Complete:
			fmt.Fprintln(w, "  points are degenerate")
			continue
		case len(r.Measurements) == 0:
			fmt.Fprintln(w, "  no calibration for this unit")
			continue
		}
		fmt.Fprint(w, measurement.FormatTable(r.Measurements))
	}
	return nil
}

func runMeasure(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(args[0], measureUnit)
	if err != nil {
		return err
	}
	return writeReports(cmd.OutOrStdout(), measureFormat, ws.reports())
}
