// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"gisthub/cli/internal/provider"

	"github.com/spf13/cobra"
)

var (
	lsNames     bool
	lsToken     string
	getName     bool
	testValid   bool
	testCont    bool
	testHasKids bool
	newDesc     string
	newPublic   bool
	newValue    string
	newType     string
)

var lsCmd = &cobra.Command{
	Use:     "ls [path]",
	Aliases: []string{"dir"},
	Short:   "List an owner's gists or a gist's files",
	Long: `The ls command lists the children of a path: the gists of an owner
(owner), or the files of a gist (owner/gistid). Without a path the drive root is
listed, which requires a token and lists the authenticated user's gists.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drive, path, err := current.resolve(pathArg(args))
		if err != nil {
			return err
		}
		return current.translator(cmd, args, drive).
			GetChildItems(cmd.Context(), path, lsNames, provider.ChildOptions{Token: lsToken})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Show a gist or a gist file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drive, path, err := current.resolve(args[0])
		if err != nil {
			return err
		}
		tr := current.translator(cmd, args, drive)
		if getName {
			name, err := tr.GetChildName(cmd.Context(), path)
			if err != nil {
				return err
			}
			current.host.WriteItem(name, path, false)
			return nil
		}
		return tr.GetItem(cmd.Context(), path)
	},
}

var testCmd = &cobra.Command{
	Use:   "test <path>",
	Short: "Report whether a path exists",
	Long: `The test command prints True when the path names an existing owner, gist or
gist file. --valid only checks the path syntax, --container also requires the item
to be a gist, and --has-children requires a gist with files or an owner with gists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drive, path, err := current.resolve(args[0])
		if err != nil {
			return err
		}
		tr := current.translator(cmd, args, drive)
		ctx := cmd.Context()

		var ok bool
		switch {
		case testValid:
			ok, err = tr.IsValidPath(ctx, path)
		case testHasKids:
			ok, err = tr.HasChildItems(ctx, path)
		default:
			ok, err = tr.ItemExists(ctx, path)
			if err == nil && ok && testCont {
				ok, err = tr.IsItemContainer(ctx, path)
			}
		}
		if err != nil {
			return err
		}
		current.host.WriteItem(boolText(ok), path, false)
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new <owner/filename | owner/gistid/filename>",
	Short: "Create a gist or add a file to a gist",
	Long: `The new command creates a gist holding one file (owner/filename) or adds a
file to an existing gist (owner/gistid/filename). The file content comes from
--value. Gists are secret unless --public is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drive, path, err := current.resolve(args[0])
		if err != nil {
			return err
		}
		var value any
		if cmd.Flags().Changed("value") {
			value = newValue
		}
		return current.translator(cmd, args, drive).NewItem(cmd.Context(), path, newType, value,
			provider.NewItemOptions{Description: newDesc, Public: newPublic})
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <path>",
	Aliases: []string{"del"},
	Short:   "Remove a gist or a gist file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drive, path, err := current.resolve(args[0])
		if err != nil {
			return err
		}
		return current.translator(cmd, args, drive).RemoveItem(cmd.Context(), path)
	},
}

var driveCmd = &cobra.Command{
	Use:   "drive [name]",
	Short: "List configured drives or validate one",
	Long: `Without a name the drive command lists the configured drives. With a name it
validates the drive: a drive scoped to an owner requires that GitHub user to exist
and loads their gists.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range current.driveNames() {
				current.host.WriteItem(newDriveRow(current.drives[strings.ToLower(name)]), name+":", true)
			}
			return nil
		}
		drive, _, err := current.resolve(args[0] + ":")
		if err != nil {
			return err
		}
		d, err := current.translator(cmd, args, drive).NewDrive(cmd.Context(), drive)
		if err != nil {
			return err
		}
		if d != nil {
			current.host.WriteItem(newDriveRow(d), d.Name+":", true)
		}
		return nil
	},
}

func boolText(ok bool) string {
	if ok {
		return "True"
	}
	return "False"
}

func init() {
	lsCmd.Flags().BoolVar(&lsNames, "name", false, "List names only")
	lsCmd.Flags().StringVar(&lsToken, "list-token", "", "Token used for this listing only")
	getCmd.Flags().BoolVar(&getName, "name", false, "Print only the last path segment")
	testCmd.Flags().BoolVar(&testValid, "valid", false, "Only check the path syntax")
	testCmd.Flags().BoolVar(&testCont, "container", false, "Require the item to be a gist")
	testCmd.Flags().BoolVar(&testHasKids, "has-children", false, "Require the item to have children")
	newCmd.Flags().StringVarP(&newDesc, "description", "d", "", "Description of a new gist")
	newCmd.Flags().BoolVar(&newPublic, "public", false, "Create a public gist")
	newCmd.Flags().StringVar(&newValue, "value", "", "Content of the new file")
	newCmd.Flags().StringVar(&newType, "type", "", "Item type (not supported by gists)")

	rootCmd.AddCommand(lsCmd, getCmd, testCmd, newCmd, rmCmd, driveCmd)
}
