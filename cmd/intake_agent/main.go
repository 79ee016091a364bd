// Package main provides the entry point for the job intake agent.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-intake/internal/config"
	"github.com/jonathan/job-intake/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	schemaName string
	schemaFile string
	strategy   string
	provider   string
	model      string

	// appConfig is loaded before every command runs.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "intake_agent",
	Short: "Conversational job data intake",
	Long: "intake_agent turns free-text job descriptions into structured records, " +
		"asking follow-up questions until every field is known.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadAppConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./intake.yaml if present)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&schemaName, "schema", "", "Built-in field schema: job or job_search_vi")
	flags.StringVar(&schemaFile, "schema-file", "", "YAML field set (overrides --schema)")
	flags.StringVar(&strategy, "strategy", "", "Extraction strategy: model or pattern")
	flags.StringVar(&provider, "provider", "", "Model provider: gemini, openai or deepseek")
	flags.StringVar(&model, "model", "", "Model name (default depends on provider)")
}

// loadAppConfig merges file, environment and flags into appConfig.
func loadAppConfig(cmd *cobra.Command, _ []string) error {
	overrides := map[string]any{}
	for flag, key := range map[string]string{
		"log-level":   "log_level",
		"schema":      "schema",
		"schema-file": "schema_file",
		"strategy":    "extraction.strategy",
		"provider":    "llm.provider",
		"model":       "llm.model",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}

	cfg, err := config.Load(cfgFile, overrides)
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	appConfig = cfg
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
