// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client the CLI uses to talk to the GitHub gist API.
// It defines the API contract for reading, creating, updating and deleting gists and
// their files, and a go-github based implementation of it. Gists are returned as the
// package's own Gist/GistFile types so callers never depend on go-github directly.
package backend

import (
	"context"
	"maps"
	"slices"
	"time"
)

// API defines the gist operations the provider depends on.
// Implementations may call the real GitHub API or provide fakes for tests.
type API interface {
	// UserExists reports whether a GitHub account with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
	// AuthenticatedUser returns the login of the token's owner.
	AuthenticatedUser(ctx context.Context) (string, error)
	// ListUserGists returns every gist of owner updated after since (zero = all).
	ListUserGists(ctx context.Context, owner string, since time.Time) ([]*Gist, error)
	// GetGist returns the gist with file contents, or nil when it does not exist.
	// With asBase64 the contents are fetched base64 encoded and returned decoded.
	GetGist(ctx context.Context, id string, asBase64 bool) (*Gist, error)
	// RawFile downloads a file from its raw URL (used for truncated files).
	RawFile(ctx context.Context, rawURL string) ([]byte, error)
	// CreateGist creates a new gist.
	CreateGist(ctx context.Context, req CreateRequest) (*Gist, error)
	// UpdateGist changes the description and files of a gist.
	UpdateGist(ctx context.Context, id string, req UpdateRequest) (*Gist, error)
	// DeleteGist removes a gist.
	DeleteGist(ctx context.Context, id string) error
}

// Gist is one gist as returned by the API.
type Gist struct {
	ID          string
	Description string
	Public      bool
	Owner       string
	HTMLURL     string
	GitPullURL  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Files       map[string]*GistFile
}

// GistFile is one file of a gist. Content is empty for listings.
type GistFile struct {
	Name      string
	Language  string
	RawURL    string
	Size      int
	Truncated bool
	Content   string
}

// CreateRequest describes a new gist.
type CreateRequest struct {
	Description string
	Public      bool
	// Files maps file names to their content.
	Files map[string]string
}

// UpdateRequest describes changes to an existing gist.
type UpdateRequest struct {
	// Description replaces the description when non-empty.
	Description string
	// Files maps file names to new content; a nil value deletes the file.
	Files map[string]*string
}

// FileNames returns the gist's file names in sorted order.
func (g *Gist) FileNames() []string {
	return slices.Sorted(maps.Keys(g.Files))
}
