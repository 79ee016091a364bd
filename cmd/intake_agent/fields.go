package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-intake/internal/schemas"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields of the active schema",
	Args:  cobra.NoArgs,
	RunE:  runFields,
}

var fieldsJSONSchema bool

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsJSONSchema, "json-schema", false, "Print the JSON Schema records are validated against")
	rootCmd.AddCommand(fieldsCmd)
}

//nolint:errcheck // console output
func runFields(cmd *cobra.Command, _ []string) error {
	schema, err := appConfig.FieldSchema()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if fieldsJSONSchema {
		data, err := json.MarshalIndent(schemas.JSONSchemaFor(schema), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "Schema: %s\n\n", schema.Name())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tDESCRIPTION")
	for _, f := range schema.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Description)
	}
	return tw.Flush()
}
