package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command for displaying current authentication state.
// It validates the stored token with GitHub and shows the login it belongs to.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated GitHub user",
	Long: `The whoami command validates the stored token with GitHub and prints the
login it belongs to. A token GitHub rejects is removed. When GitHub cannot be
reached the login recorded at sign-in is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		login, ok, err := current.auth.WhoAmI(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("You're not logged in yet!")
			fmt.Println("   Run 'gisthub login' to get started.")
			return nil
		}
		pterm.Println(fmt.Sprintf("Current user: %s", login))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
