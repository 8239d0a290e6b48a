// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package provider

import (
	"fmt"
	"strings"

	"gisthub/cli/internal/backend"
	"gisthub/cli/internal/bridge"
	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/gistpath"
)

// NewDrive validates a drive. A drive with a root is scoped to that owner,
// who must exist; their gists are loaded into the cache. Returns nil when the
// drive is rejected.
func (g *GistProvider) NewDrive(p *bridge.Pipeline, drive *bridge.Drive) (*bridge.Drive, error) {
	_ = p.WriteVerbose("NewDrive: '%s'", drive.Name)
	if strings.TrimSpace(drive.Root) == "" {
		return drive, nil
	}

	api, _, err := g.client(p)
	if err != nil {
		return nil, err
	}
	owner := drive.Root
	ok, err := api.UserExists(apiContext(p), owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, writeError(p, ErrIDUserNotFound, apperrors.NotFound, owner,
			"Cannot create gist drive for GitHub User '%s' that does not exist.", owner)
	}
	if _, err := userGists(p, api, gistpath.Parse(owner)); err != nil {
		return nil, err
	}
	return drive, nil
}

// ItemExists reports whether path names the root, an existing owner, gist or
// gist file.
func (g *GistProvider) ItemExists(p *bridge.Pipeline, path string) (bool, error) {
	_ = p.WriteVerbose("ItemExists: '%s'", path)

	gp := gistpath.Parse(path)
	if gp.IsRoot() {
		return true, nil
	}
	api, _, err := g.client(p)
	if err != nil {
		return false, err
	}
	if !gp.HasGist() {
		return api.UserExists(apiContext(p), gp.Owner)
	}

	cache, err := userGists(p, api, gp)
	if err != nil {
		return false, err
	}
	gist, ok := cache.Lookup(gp.GistID)
	if !ok {
		return false, nil
	}
	if !gp.HasFile() {
		return true, nil
	}
	_, ok = gist.Files[gp.FileName]
	return ok, nil
}

// IsItemContainer reports whether path is a container. Gists are, files are not.
func (g *GistProvider) IsItemContainer(p *bridge.Pipeline, path string) (bool, error) {
	_ = p.WriteVerbose("IsItemContainer: '%s'", path)
	return !gistpath.Parse(path).HasFile(), nil
}

// IsValidPath accepts every path.
func (g *GistProvider) IsValidPath(p *bridge.Pipeline, path string) (bool, error) {
	_ = p.WriteVerbose("IsValidPath: '%s'", path)
	return true, nil
}

// HasChildItems reports whether path may have children.
func (g *GistProvider) HasChildItems(p *bridge.Pipeline, path string) (bool, error) {
	_ = p.WriteVerbose("HasChildItems: '%s'", path)

	gp := gistpath.Parse(path)
	if !gp.HasGist() {
		return true, nil
	}
	if gp.HasFile() {
		return false, nil
	}
	api, _, err := g.client(p)
	if err != nil {
		return false, err
	}
	cache, err := userGists(p, api, gp)
	if err != nil {
		return false, err
	}
	gist, ok := cache.Lookup(gp.GistID)
	return ok && len(gist.Files) > 0, nil
}

// GetChildName returns the last part of path without touching the network.
func (g *GistProvider) GetChildName(p *bridge.Pipeline, path string) (string, error) {
	return gistpath.Parse(path).ChildName(), nil
}

// GetItem writes the gist or gist file at path.
func (g *GistProvider) GetItem(p *bridge.Pipeline, path string) error {
	_ = p.WriteVerbose("GetItem: '%s'", path)

	gp := gistpath.Parse(path)
	switch {
	case gp.IsRoot():
		return writeError(p, ErrIDUserRequired, apperrors.InvalidArgument, path,
			"GitHub User name is required when getting an item.")
	case !gp.HasGist():
		return writeError(p, ErrIDIdRequired, apperrors.InvalidArgument, path,
			"Gist Id is required when getting an item.")
	}

	api, _, err := g.client(p)
	if err != nil {
		return err
	}
	cache, err := userGists(p, api, gp)
	if err != nil {
		return err
	}
	gist, ok := cache.Lookup(gp.GistID)
	if !ok {
		return writeGistNotFound(p, gp)
	}

	info := newGistInfo(driveName(p), gist)
	if !gp.HasFile() {
		return p.WriteItem(info, path, true)
	}
	if f := info.file(gp.FileName); f != nil {
		return p.WriteItem(f, path, false)
	}
	return writeGistFileNotFound(p, gp)
}

// GetChildItems writes an owner's gists or a gist's files. With names only
// the ids or file names are written.
func (g *GistProvider) GetChildItems(p *bridge.Pipeline, path string, names bool) error {
	_ = p.WriteVerbose("GetChildItems: Path '%s' Names %t", path, names)

	gp := gistpath.Parse(path)
	if gp.IsRoot() {
		return writeError(p, ErrIDUserRequired, apperrors.InvalidArgument, path,
			"GitHub User name is required when enumerating children.")
	}

	api, _, err := g.client(p)
	if err != nil {
		return err
	}
	cache, err := userGists(p, api, gp)
	if err != nil {
		return err
	}
	drive := driveName(p)

	if !gp.HasGist() {
		for _, gist := range cache.All() {
			info := newGistInfo(drive, gist)
			var item any = info
			if names {
				item = info.ID
			}
			if err := p.WriteItem(item, info.ProviderPath, true); err != nil {
				return err
			}
		}
		return nil
	}

	gist, ok := cache.Lookup(gp.GistID)
	if !ok {
		return writeGistNotFound(p, gp)
	}
	for _, f := range newGistInfo(drive, gist).Files {
		var item any = f
		if names {
			item = f.Name
		}
		if err := p.WriteItem(item, f.ProviderPath(), false); err != nil {
			return err
		}
	}
	return nil
}

// NewItem creates a gist (owner/filename) or adds a file to an existing gist
// (owner/gistid/filename) and writes the new file.
func (g *GistProvider) NewItem(p *bridge.Pipeline, path, itemType string, value any) error {
	_ = p.WriteVerbose("NewItem: '%s' ItemTypeName '%s' - %v", path, itemType, value)

	gp := gistpath.Parse(path)
	switch {
	case gp.IsRoot():
		return writeError(p, ErrIDUserRequired, apperrors.InvalidArgument, path,
			"GitHub User name is required when creating a gist.")
	case !gp.HasGist():
		return writeError(p, ErrIDIdOrFileNameRequired, apperrors.InvalidArgument, path,
			"Gist Id or filename is required when creating an item.")
	case strings.TrimSpace(itemType) != "":
		return writeError(p, ErrIDItemTypeNotSupported, apperrors.InvalidArgument, path,
			"GistHub does not support any item type value to be set.")
	}

	// Without a file part the second segment is the file name of a new gist.
	var gistID, fileName string
	if gp.HasFile() {
		gistID, fileName = gp.GistID, gp.FileName
	} else {
		fileName = originalSegment(gp)
	}

	var opts NewItemOptions
	switch o := p.Options().(type) {
	case NewItemOptions:
		opts = o
	case *NewItemOptions:
		if o != nil {
			opts = *o
		}
	}

	text := stringValue(value)
	if strings.TrimSpace(text) == "" {
		return writeError(p, ErrIDContentRequired, apperrors.InvalidArgument, path,
			"Gist content value is required when creating a gist.")
	}

	api, token, err := g.client(p)
	if err != nil {
		return err
	}
	if token == "" {
		return writeTokenRequired(p, gp, "create a gist")
	}

	cache, err := userGists(p, api, gp)
	if err != nil {
		return err
	}
	var existing *backend.Gist
	if gistID != "" {
		var ok bool
		if existing, ok = cache.Lookup(gistID); !ok {
			return writeGistNotFound(p, gp)
		}
	}

	var created *backend.Gist
	if existing != nil {
		if opts.Public && !existing.Public {
			return writeError(p, ErrIDCannotChangeScope, apperrors.PermissionDenied, path,
				"Cannot change a private gist to a public gist.")
		}
		if strings.TrimSpace(opts.Description) != "" && existing.Description != opts.Description && !p.Force() {
			return writeError(p, ErrIDCannotChangeDescription, apperrors.PermissionDenied, path,
				"Cannot change the description of an existing gist. Set --force to overwrite.")
		}
		if _, dup := existing.Files[fileName]; dup && !p.Force() {
			return writeError(p, ErrIDCannotCreateDuplicate, apperrors.ResourceExists, path,
				"Cannot create gist, file already exists. Set --force to overwrite.")
		}

		ok, err := p.Confirm(path, "Create Gist file")
		if err != nil || !ok {
			return err
		}
		created, err = api.UpdateGist(apiContext(p), existing.ID, backend.UpdateRequest{
			Description: opts.Description,
			Files:       map[string]*string{fileName: &text},
		})
		if err != nil {
			return err
		}
	} else {
		ok, err := p.Confirm(path, "Create Gist")
		if err != nil || !ok {
			return err
		}
		created, err = api.CreateGist(apiContext(p), backend.CreateRequest{
			Description: opts.Description,
			Public:      opts.Public,
			Files:       map[string]string{fileName: text},
		})
		if err != nil {
			return err
		}
	}

	info := newGistInfo(driveName(p), created)
	cache.Store(created)
	if f := info.file(fileName); f != nil {
		return p.WriteItem(f, f.ProviderPath(), false)
	}
	return nil
}

// RemoveItem deletes the gist or gist file at path.
func (g *GistProvider) RemoveItem(p *bridge.Pipeline, path string) error {
	_ = p.WriteVerbose("RemoveItem: '%s'", path)

	gp := gistpath.Parse(path)
	switch {
	case gp.IsRoot():
		return writeError(p, ErrIDUserRequired, apperrors.InvalidArgument, path,
			"GitHub User name is required when removing gists.")
	case !gp.HasGist():
		return writeError(p, ErrIDIdRequired, apperrors.InvalidArgument, path,
			"Gist Id is required when removing an item.")
	}

	api, token, err := g.client(p)
	if err != nil {
		return err
	}
	if token == "" {
		return writeTokenRequired(p, gp, "remove a gist")
	}

	cache, err := userGists(p, api, gp)
	if err != nil {
		return err
	}
	gist, ok := cache.Lookup(gp.GistID)
	if !ok {
		return writeGistNotFound(p, gp)
	}

	if !gp.HasFile() {
		ok, err := p.Confirm(gp.Normalized(), "Remove Gist")
		if err != nil || !ok {
			return err
		}
		if err := api.DeleteGist(apiContext(p), gist.ID); err != nil {
			return err
		}
		cache.Remove(gist.ID)
		return nil
	}

	if _, exists := gist.Files[gp.FileName]; !exists {
		return writeGistFileNotFound(p, gp)
	}
	ok, err = p.Confirm(gp.Normalized(), "Remove Gist File")
	if err != nil || !ok {
		return err
	}
	updated, err := api.UpdateGist(apiContext(p), gist.ID, backend.UpdateRequest{
		Files: map[string]*string{gp.FileName: nil},
	})
	if err != nil {
		return err
	}
	cache.Store(updated)
	return nil
}

// originalSegment returns the second path segment with its case preserved;
// Parse lowercases it because it is normally a gist id.
func originalSegment(gp gistpath.Path) string {
	rest := gp.Original
	if i := strings.IndexAny(rest, `/\`); i >= 0 {
		rest = rest[i+1:]
	}
	return strings.TrimRight(rest, `/\`)
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case []string:
		return strings.Join(t, "\n")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
