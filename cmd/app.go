// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gisthub/cli/internal/auth"
	"gisthub/cli/internal/backend"
	"gisthub/cli/internal/bridge"
	"gisthub/cli/internal/config"
	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/gistcache"
	"gisthub/cli/internal/gistpath"
	"gisthub/cli/internal/keychain"
	"gisthub/cli/internal/logging"
	"gisthub/cli/internal/provider"
	"gisthub/cli/internal/session"
	"gisthub/cli/internal/terminal"
	"gisthub/cli/internal/xdg"

	"github.com/99designs/keyring"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const requestTimeout = 30 * time.Second

// app is the state one command runs with.
type app struct {
	cfg        config.Config
	keychain   *keychain.Manager
	persistent bool
	auth       *auth.Service
	registry   *session.Registry
	session    *session.Session
	host       *terminal.Host
	provider   *provider.GistProvider
	drives     map[string]*bridge.Drive
	closeLog   func()
}

func newApp(o globalOptions) (*app, error) {
	if o.debug {
		pterm.EnableDebugMessages()
	}
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{cfg: cfg, closeLog: func() {}}
	if err := a.setupLogging(o); err != nil {
		return nil, err
	}

	a.host = terminal.New(terminal.Options{
		Verbose:     o.verbose,
		Debug:       o.debug,
		Yes:         o.yes,
		WhatIf:      o.whatIf,
		JSON:        o.json,
		Interactive: terminal.StdinIsTerminal() && terminal.StdoutIsTerminal(),
	})

	a.keychain, err = keychain.GetManager()
	a.persistent = err == nil
	if err != nil {
		zap.L().Warn("keychain unavailable, tokens are kept for this run only", zap.Error(err))
		a.keychain = keychain.NewWithKeyring(keyring.NewArrayKeyring(nil))
	}
	a.auth = auth.NewService(a.keychain, backend.NewDeviceFlow(cfg.ClientID, oauth2.Endpoint{}), a.newAPI)

	a.registry = session.NewRegistry(func() (*gistcache.Cache, error) {
		return gistcache.New(cfg.CacheOwners, cfg.CacheTTL)
	})
	a.session, err = a.registry.Open()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	a.session.SetToken(a.auth.Token())

	a.provider = provider.New(a.newAPI)
	a.drives = configuredDrives(cfg)
	zap.L().Debug("session opened", zap.String("session", a.session.ID()), zap.Int("drives", len(a.drives)))
	return a, nil
}

func (a *app) setupLogging(o globalOptions) error {
	level := a.cfg.LogLevel
	if o.debug {
		level = "debug"
	}
	logOpts := logging.Options{Level: level, File: a.cfg.LogFile}
	if logOpts.File == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return fmt.Errorf("resolve state dir: %w", err)
		}
		logOpts.Dir = dir
	}
	_, closeLog, err := logging.Setup(logOpts)
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	return nil
}

func (a *app) newAPI(token string) (backend.API, error) {
	return backend.New(backend.Options{
		BaseURL:   a.cfg.APIURL,
		Token:     token,
		RateLimit: a.cfg.RateLimit,
		Burst:     a.cfg.RateBurst,
		Timeout:   requestTimeout,
	})
}

func (a *app) close() {
	a.host.Close()
	if a.session != nil {
		a.registry.Release(a.session.ID())
	}
	a.closeLog()
}

func configuredDrives(cfg config.Config) map[string]*bridge.Drive {
	drives := map[string]*bridge.Drive{
		strings.ToLower(provider.DefaultDriveName): {
			Name:        provider.DefaultDriveName,
			Description: "All GitHub gists",
		},
	}
	for name, d := range cfg.Drives {
		drives[strings.ToLower(name)] = &bridge.Drive{
			Name:        name,
			Root:        d.Root,
			Credential:  d.Token(),
			Description: d.Description,
		}
	}
	return drives
}

// resolve splits an optional "Drive:" prefix from arg and returns the drive
// with the drive-relative provider path.
func (a *app) resolve(arg string) (*bridge.Drive, string, error) {
	name, rest := gistpath.SplitDrive(arg)
	if name == "" {
		name = provider.DefaultDriveName
	}
	d, ok := a.drives[strings.ToLower(name)]
	if !ok {
		return nil, "", apperrors.New(apperrors.InvalidArgument,
			fmt.Sprintf("drive '%s' is not configured; known drives: %s", name, strings.Join(a.driveNames(), ", ")))
	}
	return d, gistpath.Join(d.Root, rest), nil
}

func (a *app) driveNames() []string {
	names := make([]string, 0, len(a.drives))
	for _, d := range a.drives {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// translator binds the provider to the host for one command on drive.
func (a *app) translator(cmd *cobra.Command, args []string, drive *bridge.Drive) *provider.Translator {
	return provider.NewTranslator(a.provider, a.host, bridge.Invocation{
		Session:    a.session,
		Drive:      drive,
		Force:      opts.force,
		Credential: opts.token,
		Command:    bridge.Command{Name: cmd.Name(), Args: args},
	})
}

// pathArg returns args[0], or the drive root when no path was given.
func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func warnNotPersistent(a *app) {
	if !a.persistent {
		pterm.Fprintln(os.Stderr, pterm.Warning.Sprint("No OS keychain is available; the token is kept for this run only."))
	}
}
