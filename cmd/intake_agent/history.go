package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show archived records",
	Long:  "List the newest archived records, or print one by id. Requires database_url.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of records to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if appConfig.DatabaseURL == "" {
		return fmt.Errorf("history requires database_url (or DATABASE_URL)")
	}
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	var id uuid.UUID
	if len(args) == 1 {
		parsed, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid record id: %w", err)
		}
		id = parsed
	}

	archive, err := openArchive(ctx, appConfig)
	if err != nil {
		return err
	}
	defer archive.Close()

	var result any
	if id != uuid.Nil {
		rec, err := archive.Get(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("record %s not found", id)
		}
		result = rec
	} else {
		recs, err := archive.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		result = recs
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data)) //nolint:errcheck
	return nil
}
