package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-intake/internal/logging"
	"github.com/jonathan/job-intake/internal/server"
	"github.com/jonathan/job-intake/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP endpoint",
	Long:  `Start an HTTP server exposing POST /parse-input, GET /schema and GET /health.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	schema, ex, cleanup, err := newExtractor(ctx, appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := server.Config{
		Port:               appConfig.Server.Port,
		Schema:             schema,
		Extractor:          ex,
		MaxRounds:          appConfig.Extraction.MaxRounds,
		RoundTimeout:       appConfig.Extraction.Timeout,
		RateLimitPerMinute: appConfig.Server.RateLimitPerMinute,
		Logger:             logging.Default,
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	archive, err := openArchive(ctx, appConfig)
	if err != nil {
		return err
	}
	if archive != nil {
		defer archive.Close()
		cfg.Store = storage.Multi(archive)
	}

	if appConfig.AuthEnabled() {
		jwtCfg, err := appConfig.JWT()
		if err != nil {
			return err
		}
		cfg.JWT = jwtCfg
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(ctx)
}
