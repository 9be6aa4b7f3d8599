package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/ogcards"
)

var (
	buildOut     string
	buildWorkers int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every card to disk",
	Long:  "Render every card to <out>/social-cards/<slug>.png for static hosting.",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output directory (overrides config out_dir)")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "Concurrent renders (overrides config workers)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if cmd.Flags().Changed("out") {
		app.Config.OutDir = buildOut
	}
	if cmd.Flags().Changed("workers") {
		app.Config.Workers = buildWorkers
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := app.Build(ctx)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s\n", report, app.Config.OutDir)
	return nil
}
