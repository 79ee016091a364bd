package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-intake/internal/server"
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue a bearer token for the HTTP endpoint",
	Args:  cobra.NoArgs,
	RunE:  runIssueToken,
}

var tokenClient string

func init() {
	issueTokenCmd.Flags().StringVar(&tokenClient, "client", "", "Client name embedded in the token (required)")
	_ = issueTokenCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(issueTokenCmd)
}

func runIssueToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := appConfig.JWT()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenClient)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token) //nolint:errcheck
	return nil
}
