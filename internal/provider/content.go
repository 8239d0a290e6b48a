// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package provider

import (
	"context"
	"strings"

	"gisthub/cli/internal/backend"
	"gisthub/cli/internal/bridge"
	"gisthub/cli/internal/content"
	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/gistpath"

	"go.uber.org/zap"
)

// setCommand is the command whose writes replace the file instead of
// editing it in place.
const setCommand = "set"

// ClearContent is a no-op for set, which replaces the content anyway. Gists
// cannot hold empty files, so any other caller is refused.
func (g *GistProvider) ClearContent(p *bridge.Pipeline, path string) error {
	_ = p.WriteVerbose("ClearContent: '%s'", path)
	if p.Command().Name == setCommand {
		return nil
	}
	return apperrors.New(apperrors.NotSupported, ErrNotSupported)
}

// GetContentReader opens the file at path for reading. A gist id without a
// file name selects the gist's only file. Returns nil after emitting an
// error record when the file cannot be read.
func (g *GistProvider) GetContentReader(p *bridge.Pipeline, path string) (*content.Reader, error) {
	_ = p.WriteVerbose("GetContentReader: '%s'", path)

	gp := gistpath.Parse(path)
	if !gp.HasGist() {
		return nil, writeError(p, ErrIDGistIdRequired, apperrors.InvalidArgument, path,
			"GitHub gist id is required when getting the content.")
	}

	var opts ContentReadOptions
	switch o := p.Options().(type) {
	case ContentReadOptions:
		opts = o
	case *ContentReadOptions:
		if o != nil {
			opts = *o
		}
	}
	if opts.Delimiter != "" {
		if opts.AsByteStream {
			return nil, writeError(p, ErrIDDelimiterAsByteStream, apperrors.InvalidArgument, path,
				"--delimiter cannot be used with --bytes.")
		}
		if opts.Raw {
			return nil, writeError(p, ErrIDDelimiterRaw, apperrors.InvalidArgument, path,
				"--delimiter cannot be used with --raw.")
		}
	}

	api, _, err := g.client(p)
	if err != nil {
		return nil, err
	}
	data, ok, err := fileContent(p, api, gp, opts.AsByteStream, false)
	if err != nil || !ok {
		return nil, err
	}
	return content.NewBytesReader(data, content.ReaderOptions{
		AsBytes:   opts.AsByteStream,
		Raw:       opts.Raw,
		Delimiter: opts.Delimiter,
	})
}

// GetContentWriter opens the file at path for writing. The writer starts with
// the current content (empty for set or a missing file) and updates the gist
// once when closed. Returns nil after emitting an error record when the file
// cannot be written.
func (g *GistProvider) GetContentWriter(p *bridge.Pipeline, path string) (*content.Writer, error) {
	_ = p.WriteVerbose("GetContentWriter: '%s'", path)

	gp := gistpath.Parse(path)
	switch {
	case !gp.HasGist():
		return nil, writeError(p, ErrIDGistIdRequired, apperrors.InvalidArgument, path,
			"GitHub gist id is required when setting the content.")
	case !gp.HasFile():
		return nil, writeError(p, ErrIDFileNameRequired, apperrors.InvalidArgument, path,
			"GitHub gist file name is required when setting the content.")
	}

	var opts ContentWriteOptions
	switch o := p.Options().(type) {
	case ContentWriteOptions:
		opts = o
	case *ContentWriteOptions:
		if o != nil {
			opts = *o
		}
	}

	api, token, err := g.client(p)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, writeTokenRequired(p, gp, "get content writer")
	}

	// Fetched even for set so a missing gist is reported before any write.
	seed, ok, err := fileContent(p, api, gp, false, true)
	if err != nil || !ok {
		return nil, err
	}
	if p.Command().Name == setCommand {
		seed = nil
	}

	// Close runs on the caller's goroutine after the worker has finished, so
	// the commit cannot report through the pipeline or use its cancellation.
	commitCtx := context.WithoutCancel(p.Context())
	cache := p.Session().Cache().Owner(gp.Owner)
	commit := func(text string) error {
		updated, err := api.UpdateGist(commitCtx, gp.GistID, backend.UpdateRequest{
			Files: map[string]*string{gp.FileName: &text},
		})
		if err != nil {
			return err
		}
		cache.Store(updated)
		zap.L().Debug("gist file written", zap.String("gist", gp.GistID), zap.Int("bytes", len(text)))
		return nil
	}
	return content.NewWriter(seed, commit, content.WriterOptions{
		Delimiter: opts.Delimiter,
		Target:    gp.Normalized(),
	}), nil
}

// fileContent fetches the content of the file gp names. ok is false when an
// error record was emitted instead. With missingAsEmpty a file that does not
// exist yet reads as empty.
func fileContent(p *bridge.Pipeline, api backend.API, gp gistpath.Path, asBytes, missingAsEmpty bool) ([]byte, bool, error) {
	ctx := apiContext(p)
	gist, err := api.GetGist(ctx, gp.GistID, asBytes)
	if err != nil {
		return nil, false, err
	}
	if gist == nil {
		return nil, false, writeGistNotFound(p, gp)
	}

	var file *backend.GistFile
	if !gp.HasFile() {
		if len(gist.Files) != 1 {
			names := gist.FileNames()
			return nil, false, writeError(p, ErrIDFileRequired, apperrors.InvalidArgument, gp.Normalized(),
				"GitHub gist file name is required when getting the content of a gist with multiple files. Available files: '%s'",
				strings.Join(names, "', '"))
		}
		file = gist.Files[gist.FileNames()[0]]
	} else {
		var found bool
		if file, found = gist.Files[gp.FileName]; !found {
			if missingAsEmpty {
				return []byte{}, true, nil
			}
			return nil, false, writeGistFileNotFound(p, gp)
		}
	}

	if file.Truncated {
		data, err := api.RawFile(ctx, file.RawURL)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}
	return []byte(file.Content), true, nil
}
