package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the CLI in-process with fresh flag values.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	appConfig = nil

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	// Cobra only propagates the root context to subcommands whose context is
	// nil, so drop any context left over from a previous in-process run.
	cmd.SetContext(nil) //nolint:staticcheck
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// isolateEnv clears variables that would leak host configuration into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "INTAKE_DATABASE_URL",
		"JWT_SECRET", "INTAKE_SERVER_JWT_SECRET",
		"INTAKE_SCHEMA", "INTAKE_SCHEMA_FILE", "INTAKE_OUTPUT_PATH",
		"INTAKE_EXTRACTION_STRATEGY", "INTAKE_LLM_PROVIDER", "INTAKE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}
