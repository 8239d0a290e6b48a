// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"
	"os"

	"gisthub/cli/internal/content"
	"gisthub/cli/internal/provider"

	"github.com/spf13/cobra"
)

var (
	catBytes     bool
	catRaw       bool
	catDelimiter string
	catReadCount int
	setDelimiter string
)

var catCmd = &cobra.Command{
	Use:     "cat <owner/gistid[/filename]>",
	Aliases: []string{"type"},
	Short:   "Print the content of a gist file",
	Long: `The cat command prints a gist file line by line. A gist id without a file
name selects the gist's only file. --delimiter splits on a custom string instead of
line endings, --raw prints the content unsplit, and --bytes prints byte values.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drive, path, err := current.resolve(args[0])
		if err != nil {
			return err
		}
		r, err := current.translator(cmd, args, drive).GetContentReader(cmd.Context(), path,
			provider.ContentReadOptions{AsByteStream: catBytes, Delimiter: catDelimiter, Raw: catRaw})
		if err != nil || r == nil {
			return err
		}
		defer r.Close()

		count := catReadCount
		if !cmd.Flags().Changed("read-count") {
			count = current.cfg.ReadCount
		}
		return copyRecords(os.Stdout, r, count, path)
	},
}

// copyRecords drains r in batches of count records (all at once for 0).
// Raw byte content goes to w unchanged; other records go through the host.
func copyRecords(w io.Writer, r *content.Reader, count int, path string) error {
	for {
		records, err := r.Read(count)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, rec := range records {
			if b, ok := rec.([]byte); ok {
				current.host.Flush()
				if _, err := w.Write(b); err != nil {
					return err
				}
				continue
			}
			current.host.WriteItem(rec, path, false)
		}
	}
}

var setCmd = &cobra.Command{
	Use:   "set <owner/gistid/filename> [values...]",
	Short: "Replace the content of a gist file",
	Long: `The set command replaces a gist file with the given values, one per line, or
with standard input when no values are given. The file is created in the gist when
it does not exist yet.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeContent(cmd, args, false)
	},
}

var addCmd = &cobra.Command{
	Use:   "add <owner/gistid/filename> [values...]",
	Short: "Append to a gist file",
	Long: `The add command appends the given values, one per line, or standard input
when no values are given, to the end of a gist file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeContent(cmd, args, true)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <owner/gistid/filename>",
	Short: "Clear the content of a gist file",
	Long: `Gists cannot hold empty files, so clear always fails; use 'gisthub set' to
replace the content or 'gisthub rm' to remove the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drive, path, err := current.resolve(args[0])
		if err != nil {
			return err
		}
		return current.translator(cmd, args, drive).ClearContent(cmd.Context(), path)
	},
}

func writeContent(cmd *cobra.Command, args []string, appendTo bool) error {
	drive, path, err := current.resolve(args[0])
	if err != nil {
		return err
	}
	records, err := readRecords(args[1:], cmd.InOrStdin())
	if err != nil {
		return err
	}

	tr := current.translator(cmd, args, drive)
	ctx := cmd.Context()
	if !appendTo {
		if err := tr.ClearContent(ctx, path); err != nil {
			return err
		}
	}
	w, err := tr.GetContentWriter(ctx, path, provider.ContentWriteOptions{Delimiter: setDelimiter})
	if err != nil || w == nil {
		return err
	}
	if appendTo {
		if _, err := w.Seek(0, io.SeekEnd); err != nil {
			return err
		}
	}
	if _, err := w.Write(records); err != nil {
		return err
	}
	return w.Close()
}

func init() {
	catCmd.Flags().BoolVar(&catBytes, "bytes", false, "Read the content as bytes")
	catCmd.Flags().BoolVar(&catRaw, "raw", false, "Read the content as a single record")
	catCmd.Flags().StringVar(&catDelimiter, "delimiter", "", "Split records on this string")
	catCmd.Flags().IntVar(&catReadCount, "read-count", 0, "Records read per batch (0 reads all)")
	setCmd.Flags().StringVar(&setDelimiter, "delimiter", "", "String written after every value")
	addCmd.Flags().StringVar(&setDelimiter, "delimiter", "", "String written after every value")

	rootCmd.AddCommand(catCmd, setCmd, addCmd, clearCmd)
}
