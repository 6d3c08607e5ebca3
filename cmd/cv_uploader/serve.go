package main

import (
	"fmt"

	"github.com/jonathan/cv-uploader/internal/server"
	"github.com/jonathan/cv-uploader/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API",
	Long:  `Start an HTTP server that renders the CV form at / and accepts JSON drafts at POST /api/cvs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	rl := a.cfg.RateLimit
	srv, err := server.New(server.Config{
		Port:       port,
		Collection: a.cfg.Collection,
		RateLimit:  ratelimit.NewConfig(!rl.Disabled, rl.PerMinute, rl.Burst),
	}, a.store, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
