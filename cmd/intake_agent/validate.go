package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-intake/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a saved record against the active schema",
	Long:  "Validate a record JSON file (default output.path) against the JSON Schema generated from the active field schema.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := appConfig.Output.Path
	if len(args) == 1 {
		path = args[0]
	}

	schema, err := appConfig.FieldSchema()
	if err != nil {
		return err
	}
	if err := schemas.ValidateRecordFile(schema, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s record\n", path, schema.Name()) //nolint:errcheck
	return nil
}
