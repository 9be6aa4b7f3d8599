package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/ogcards"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cards over HTTP",
	Long:  "Serve /social-cards/<slug>.png, a gallery at /social-cards/ and theme colors under /api/themes.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := ogcards.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}

	app := ogcards.New(cfg)
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("Serving social cards on %s", cfg.Addr)
	return app.Start(ctx)
}
