// Package main provides the cv_uploader CLI: the HTTP form server, the terminal
// form and operator tooling.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/cv-uploader/internal/config"
	"github.com/jonathan/cv-uploader/internal/events"
	"github.com/jonathan/cv-uploader/internal/logging"
	"github.com/jonathan/cv-uploader/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "cv_uploader",
	Short:         "CV intake form",
	Long:          "cv_uploader collects CVs (contact details, work experience, education) through a web form, a JSON API or an interactive terminal form and stores each submission as a document.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print summaries and debug logs")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs: resolved config, a logger and the document store.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	store  store.Store
}

func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return cfg, logging.New(level, cfg.LogFormat, os.Stderr), nil
}

// newApp resolves configuration and opens the configured store. When an AMQP
// URL is configured, stored submissions are also announced on the exchange.
func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}

	if cfg.AMQPURL != "" {
		pub, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			st.Close()
			return nil, err
		}
		logger.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing submission events")
		st = events.Wrap(st, pub, logger)
	}

	return &app{cfg: cfg, logger: logger, store: st}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close store")
	}
}
