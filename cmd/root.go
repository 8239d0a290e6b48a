// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the gisthub CLI application.
// It exposes GitHub gists as a drive of owner/gist/file paths: listing, reading,
// writing, creating and removing gists and gist files, plus the login commands
// that store a GitHub token in the OS keychain. Every provider call runs on a
// worker goroutine while the command's goroutine renders its output.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gisthub/cli/internal/httperrors"
	"gisthub/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	verbose    bool
	debug      bool
	force      bool
	yes        bool
	whatIf     bool
	json       bool
	token      string
	configFile string
}

var (
	opts        globalOptions
	showVersion bool
	// current is the state of the running command, set up before it runs.
	current *app
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gisthub",
	Short: "Browse and edit GitHub gists as a file tree",
	Long: `gisthub exposes GitHub gists as a drive. Paths have the form
owner/gistid/filename, optionally prefixed by a drive name such as "Gist:".

Anonymous access can read public gists. Run 'gisthub login' or
'gisthub connect --token <token>' to read secret gists and to create, change
or remove gists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		a, err := newApp(opts)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd)
		}
		return cmd.Help()
	},
}

// skipSetup marks commands that run without configuration and keychain.
const skipSetup = "gisthub/skip-setup"

// Execute runs the CLI application and exits with a non-zero status when the
// command failed or reported any error record.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c, err := rootCmd.ExecuteContextC(ctx)
	stop()

	code := 0
	if err != nil {
		reportError(c, err)
		code = 1
	}
	if current != nil {
		if current.host.ErrorCount() > 0 {
			code = 1
		}
		current.close()
	}
	os.Exit(code)
}

func reportError(c *cobra.Command, err error) {
	if current != nil {
		current.host.Close()
	}
	zap.L().Error("command failed", zap.String("command", c.Name()), logging.MaskedError(err))

	if errors.Is(err, context.Canceled) {
		pterm.Warning.Println("Interrupted")
		return
	}
	action := "running " + c.CommandPath()
	if httperrors.Classify(err) != httperrors.Generic {
		_ = httperrors.FormatNetworkError(os.Stderr, err, action)
		return
	}
	pterm.Error.Println(logging.PresentError(action, err))
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose diagnostics, including every HTTP request")
	f.BoolVar(&opts.debug, "debug", false, "Show debug diagnostics")
	f.BoolVarP(&opts.force, "force", "f", false, "Overwrite existing gist files")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Answer yes to every confirmation")
	f.BoolVar(&opts.whatIf, "what-if", false, "Describe changes without making them")
	f.BoolVar(&opts.json, "json", false, "Write items as JSON lines")
	f.StringVar(&opts.token, "token", "", "GitHub token for this call only")
	f.StringVar(&opts.configFile, "config", "", "Path to the config file")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
