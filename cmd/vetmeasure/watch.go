package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/philipparndt/vetmeasure/internal/app"
	"github.com/philipparndt/vetmeasure/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [document]",
	Short: "Recompute measurements whenever a document changes",
	Long:  "Print the measurements of a document, then print them again every time the document is saved. Stop with Ctrl+C.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&measureUnit, "unit", "u", "", "Display unit: px, mm, cm or in (default from the document)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Wait this long after the last change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := args[0]
	if !app.IsDocument(path) {
		path = app.DocumentPath(path)
	}

	report := func() {
		ws, err := openWorkspace(path, measureUnit)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "== %s (%s)\n", path, time.Now().Format("15:04:05"))
		if err := writeReports(out, "text", ws.reports()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	dw, err := watcher.NewDocumentWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer dw.Close()

	changed := make(chan struct{}, 1)
	if err := dw.Watch(path, func(string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}
	dw.Start()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report()
	fmt.Fprintf(out, "Watching %s for changes\n", path)
	for {
		select {
		case <-changed:
			report()
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return nil
			}
			return ctx.Err()
		}
	}
}
