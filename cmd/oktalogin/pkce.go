package main

import (
	"fmt"

	"github.com/jrsteele09/go-okta-login/pkce"
	"github.com/spf13/cobra"
)

func newPKCECmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pkce",
		Short: "Print a fresh PKCE code verifier and its S256 challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := pkce.Generate()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "code_verifier:         %s\n", pair.Verifier)
			fmt.Fprintf(out, "code_challenge:        %s\n", pair.Challenge)
			fmt.Fprintf(out, "code_challenge_method: %s\n", pair.Method)
			return nil
		},
	}
}
