package main

import (
	"github.com/jrsteele09/go-okta-login/internal/config"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

func newRootCmd(c config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "oktalogin",
		Short:         "Sign in to an Okta org with username, password and PKCE",
		Long:          `Performs Okta primary authentication, redeems the session token for an authorization code and exchanges it for tokens, without a browser.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("oktalogin version {{.Version}}\n")

	root.AddCommand(
		newLoginCmd(c),
		newMockServerCmd(c),
		newPKCECmd(),
	)
	return root
}
