package main

import (
	"fmt"

	"github.com/philipparndt/vetmeasure/internal/vet"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:       "catalog [tool]",
	Short:     "List the measurements each tool computes",
	Long:      "Show the number of control points and the measurement catalog of every tool, or of a single one (hip, tplo, vhs, vlas).",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"hip", "tplo", "vhs", "vlas"},
	RunE:      runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	kinds := vet.Kinds
	if len(args) == 1 {
		kind, err := vet.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []vet.Kind{kind}
	}

	out := cmd.OutOrStdout()
	for i, kind := range kinds {
		tool, err := vet.New(kind)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%s, %d points)\n", tool.Name(), kind, tool.PointsNumber())
		for _, d := range tool.Catalog() {
			fmt.Fprintf(out, "  %d. %s\n", d.ID, d.Name)
		}
	}
	return nil
}
