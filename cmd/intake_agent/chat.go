package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-intake/internal/logging"
	"github.com/jonathan/job-intake/internal/observability"
	"github.com/jonathan/job-intake/internal/session"
	"github.com/jonathan/job-intake/internal/storage"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Collect one record interactively",
	Long: `Read a job description from stdin, ask for any missing fields, and save
the finished record as JSON (and to the archive when database_url is set).`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var (
	chatOutput  string
	chatVerbose bool
)

func init() {
	chatCmd.Flags().StringVarP(&chatOutput, "out", "o", "", "Output JSON file (default output.path)")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print every extraction round")
	rootCmd.AddCommand(chatCmd)
}

//nolint:errcheck // console output
func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	schema, ex, cleanup, err := newExtractor(ctx, appConfig)
	if err != nil {
		return err
	}
	defer cleanup()

	path := appConfig.Output.Path
	if chatOutput != "" {
		path = chatOutput
	}
	store, closeStore, err := newStores(ctx, appConfig, storage.NewFileStore(path))
	if err != nil {
		return err
	}
	defer closeStore()

	sess := session.New(schema, ex, sessionOptions(appConfig))
	console := session.NewConsole(cmd.InOrStdin(), out, "Input: ")

	fmt.Fprintf(out, "Enter your request (%s):\n", strings.Join(schema.Names(), ", "))
	ext, runErr := session.Run(ctx, sess, console, console)

	printer := observability.NewPrinter(out)
	if chatVerbose {
		printer.PrintTranscript(sess.ID(), sess.Transcript())
	}
	if runErr != nil {
		return runErr
	}

	rec, err := finalize(ext, schema)
	if err != nil {
		fmt.Fprintf(out, "Cannot build record: %v\n", err)
		logging.Default.Errorw("finalization failed", "session", sess.ID(), "error", err)
		return err
	}
	if chatVerbose {
		printer.PrintRecord(rec)
	}

	if err := store.Save(ctx, rec); err != nil {
		logging.Default.Errorw("save failed", "session", sess.ID(), "error", err)
		return err
	}
	fmt.Fprintf(out, "Data saved to %s\n", path)

	pretty, err := rec.Pretty()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(pretty))
	return nil
}
