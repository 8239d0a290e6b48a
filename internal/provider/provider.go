// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package provider maps filesystem-style operations onto GitHub gists.
//
// A path has up to three parts, owner/gistid/filename. Every operation is a
// worker body that runs on its own goroutine through bridge.Run and talks to
// the terminal only through its *bridge.Pipeline: failures that concern one
// path are emitted as error records and the operation returns normally, while
// failures of the remote store end the call with an error.
package provider

import (
	"context"
	"fmt"

	"gisthub/cli/internal/backend"
	"gisthub/cli/internal/bridge"
	"gisthub/cli/internal/bridge/model"
	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/gistcache"
	"gisthub/cli/internal/gistpath"

	"go.uber.org/zap"
)

// Error record identifiers.
const (
	ErrIDDriveNull               = "ProviderDriveNull"
	ErrIDUserNotFound            = "GistHubUserNotFound"
	ErrIDUserRequired            = "GistHubUserRequired"
	ErrIDIdRequired              = "GistHubIdRequired"
	ErrIDIdOrFileNameRequired    = "GistHubIdOrFileNameRequired"
	ErrIDItemTypeNotSupported    = "GistHubItemTypeNotSupported"
	ErrIDContentRequired         = "GistHubContentRequired"
	ErrIDNoToken                 = "GistHubNoToken"
	ErrIDGistNotFound            = "GistHubGistNotFound"
	ErrIDGistFileNotFound        = "GistHubGistFileNotFound"
	ErrIDCannotChangeScope       = "GistHubCannotChangeGistScope"
	ErrIDCannotChangeDescription = "GistHubCannotChangeGistDescription"
	ErrIDCannotCreateDuplicate   = "GistHubCannotCreateDuplicateFile"
	ErrIDGistIdRequired          = "GistHubGistIdRequired"
	ErrIDFileNameRequired        = "GistHubFileNameRequired"
	ErrIDDelimiterAsByteStream   = "GistHubDelimiterAsByteStream"
	ErrIDDelimiterRaw            = "GistHubDelimiterRaw"
	ErrIDFileRequired            = "GistHubFileRequired"
)

// ErrNotSupported is the message of operations the gist store cannot perform.
const ErrNotSupported = "Provider operation stopped because the provider does not support this operation."

// APIFactory returns a client authenticated with token ("" for anonymous).
type APIFactory func(token string) (backend.API, error)

// GistProvider implements the provider operations.
type GistProvider struct {
	newAPI APIFactory
}

// New creates a provider whose calls reach GitHub through newAPI.
func New(newAPI APIFactory) *GistProvider {
	return &GistProvider{newAPI: newAPI}
}

// Token picks the credential for a call: the ls --token option first, then
// the invocation credential, then the drive's, then the session default.
func Token(p *bridge.Pipeline) string {
	switch o := p.Options().(type) {
	case ChildOptions:
		if o.Token != "" {
			return o.Token
		}
	case *ChildOptions:
		if o != nil && o.Token != "" {
			return o.Token
		}
	}
	if c := p.Credential(); c != "" {
		return c
	}
	if d := p.Drive(); d != nil && d.Credential != "" {
		return d.Credential
	}
	if s := p.Session(); s != nil {
		return s.Token()
	}
	return ""
}

// client returns the API for the call's token.
func (g *GistProvider) client(p *bridge.Pipeline) (backend.API, string, error) {
	token := Token(p)
	api, err := g.newAPI(token)
	if err != nil {
		return nil, "", fmt.Errorf("create GitHub client: %w", err)
	}
	return api, token, nil
}

// apiContext is the call context with HTTP requests reported on the verbose
// stream. It must only be used on the worker goroutine.
func apiContext(p *bridge.Pipeline) context.Context {
	return backend.WithRequestObserver(p.Context(), func(method, url string) {
		_ = p.WriteVerbose("Sending HTTP %s %s", method, url)
	})
}

// userGists refreshes the cached listing of path's owner.
func userGists(p *bridge.Pipeline, api backend.API, path gistpath.Path) (*gistcache.UserGists, error) {
	cache := p.Session().Cache()
	stale := cache.Stale(path.Owner)
	if stale {
		_ = p.WriteProgress(model.ProgressRecord{
			Activity: "Listing gists",
			Status:   path.Owner,
			Percent:  -1,
		})
	}
	u, err := cache.Refresh(apiContext(p), api, path.Owner, path.GistID)
	if stale {
		_ = p.WriteProgress(model.ProgressRecord{
			Activity:  "Listing gists",
			Status:    path.Owner,
			Percent:   100,
			Completed: true,
		})
	}
	if err != nil {
		zap.L().Debug("gist listing failed", zap.String("owner", path.Owner), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func driveName(p *bridge.Pipeline) string {
	if d := p.Drive(); d != nil && d.Name != "" {
		return d.Name
	}
	return DefaultDriveName
}

func writeError(p *bridge.Pipeline, id string, kind apperrors.Kind, target, format string, args ...any) error {
	return p.WriteError(model.NewErrorRecord(id, kind, target, format, args...))
}

func writeGistNotFound(p *bridge.Pipeline, path gistpath.Path) error {
	return writeError(p, ErrIDGistNotFound, apperrors.NotFound, path.Normalized(),
		"Gist Id '%s' is not found.", path.GistID)
}

func writeGistFileNotFound(p *bridge.Pipeline, path gistpath.Path) error {
	return writeError(p, ErrIDGistFileNotFound, apperrors.NotFound, path.Normalized(),
		"Gist file '%s' not found in Gist '%s'.", path.FileName, path.GistID)
}

func writeTokenRequired(p *bridge.Pipeline, path gistpath.Path, action string) error {
	return writeError(p, ErrIDNoToken, apperrors.PermissionDenied, path.Normalized(),
		"Cannot %s without authentication token.", action)
}
