// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"gisthub/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var noBrowser bool

// loginCmd runs the GitHub device flow and stores the issued token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Authenticate with GitHub in the browser",
	Long: `The login command starts the GitHub device authorization flow. It prints a
code to enter at github.com/login/device, opens that page in the browser and waits
until the code is approved. The issued token, limited to the gist scope, is stored
in the OS keychain and used by every later command.

If already logged in with a valid token, the flow is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
		defer cancel()

		if login, ok, _ := current.auth.WhoAmI(ctx); ok {
			pterm.Info.Printfln("Already logged in as %s", login)
			return nil
		}

		link, err := current.auth.StartLogin(ctx)
		if err != nil {
			return err
		}
		pterm.Println(fmt.Sprintf("Please go to %s and enter the code: %s", link.VerificationURI, pterm.Bold.Sprint(link.UserCode)))
		if !noBrowser {
			openBrowser(link.VerificationURI)
		}

		cursor.Hide()
		spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).WithWriter(os.Stderr).Start("Waiting for authorization")
		login, err := current.auth.CompleteLogin(ctx, link)
		if spinner != nil {
			_ = spinner.Stop()
		}
		cursor.Show()
		if err != nil {
			return err
		}

		current.session.SetToken(current.auth.Token())
		warnNotPersistent(current)
		pterm.Success.Printfln("Logged in as %s", login)
		return nil
	},
}

// connectCmd stores a personal access token.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Store a GitHub personal access token",
	Long: `The connect command validates a personal access token against GitHub and
stores it in the OS keychain. The token needs the gist scope to create, change or
remove gists. Pass it with --token; otherwise it is prompted for, or read from
standard input when that is not a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := opts.token
		if token == "" {
			if terminal.StdinIsTerminal() {
				var err error
				token, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("GitHub token")
				if err != nil {
					return err
				}
			} else {
				records, err := readRecords(nil, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if len(records) > 0 {
					token, _ = records[0].(string)
				}
			}
		}

		login, err := current.auth.Connect(cmd.Context(), token)
		if err != nil {
			return err
		}
		current.session.SetToken(current.auth.Token())
		warnNotPersistent(current)
		pterm.Success.Printfln("Connected as %s", login)
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open the browser")
	rootCmd.AddCommand(loginCmd, connectCmd)
}
