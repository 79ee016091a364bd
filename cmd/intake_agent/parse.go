package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-intake/internal/session"
	"github.com/jonathan/job-intake/internal/storage"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract a record from text in a single round",
	Long: `Run one extraction round over --text (or stdin) and print the record.
Fails with the missing fields when the text does not cover the whole schema.`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

var (
	parseText    string
	parseSave    bool
	parseCompact bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseText, "text", "t", "", "Text to parse (default: read stdin)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Also write output.path and the archive")
	parseCmd.Flags().BoolVar(&parseCompact, "compact", false, "Print compact JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	text := parseText
	if text == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no input provided")
	}

	schema, ex, cleanup, err := newExtractor(ctx, appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	sess := session.New(schema, ex, sessionOptions(appConfig))
	ext, err := session.RunOnce(ctx, sess, text)
	if err != nil {
		return err
	}
	rec, err := finalize(ext, schema)
	if err != nil {
		return err
	}

	if parseSave {
		store, closeStore, err := newStores(ctx, appConfig, storage.NewFileStore(appConfig.Output.Path))
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.Save(ctx, rec); err != nil {
			return err
		}
	}

	var data []byte
	if parseCompact {
		data, err = rec.MarshalJSON()
	} else {
		data, err = rec.Pretty()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data)) //nolint:errcheck
	return nil
}
