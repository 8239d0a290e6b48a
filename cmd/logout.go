// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved GitHub token",
	Long: `The logout command removes the GitHub token and login state from the OS
keychain. Tokens issued by 'gisthub login' stay valid on GitHub until revoked in
the account's application settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.auth.Logout(); err != nil {
			return err
		}
		current.session.SetToken("")
		pterm.Success.Println("The saved token has been removed")
		return nil
	},
}

// resetCmd drops the session's cached gists and token after confirmation.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear cached gists and the saved token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !current.host.Confirm("GistHub cache", "reset") {
			return nil
		}
		current.session.Reset()
		if err := current.auth.Logout(); err != nil {
			return err
		}
		pterm.Success.Println("Cache and token cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd, resetCmd)
}
