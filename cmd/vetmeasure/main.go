package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/vetmeasure/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vetmeasure",
	Short: "Veterinary radiograph measurements from the command line",
	Long: `vetmeasure computes orthopedic and cardiac measurements from control points
placed on a radiograph: hip dysplasia angles, TPLO plateau angle and saw radius,
vertebral heart score and vertebral left atrial size.

Points are read from measurement documents (*.vetm.json or *.vetm.yaml) stored
next to the image.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
