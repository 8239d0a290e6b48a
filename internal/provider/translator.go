// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package provider

import (
	"context"

	"gisthub/cli/internal/bridge"
	"gisthub/cli/internal/bridge/model"
	"gisthub/cli/internal/content"
	apperrors "gisthub/cli/internal/errors"
)

// Translator exposes the provider to synchronous callers. Each method runs
// the matching worker body through bridge.Run and drives host on the calling
// goroutine until the worker is done.
type Translator struct {
	provider *GistProvider
	host     bridge.Host
	inv      bridge.Invocation
}

// NewTranslator binds provider to host. inv carries the session, drive,
// force flag, credential and command shared by every call; its Options are
// replaced per call.
func NewTranslator(provider *GistProvider, host bridge.Host, inv bridge.Invocation) *Translator {
	return &Translator{provider: provider, host: host, inv: inv}
}

func (t *Translator) with(opts any) bridge.Invocation {
	inv := t.inv
	inv.Options = opts
	return inv
}

// NewDrive validates drive; a nil drive is reported on the host.
func (t *Translator) NewDrive(ctx context.Context, drive *bridge.Drive) (*bridge.Drive, error) {
	if drive == nil {
		t.host.WriteError(model.NewErrorRecord(ErrIDDriveNull, apperrors.InvalidArgument, "",
			"drive cannot be nil"))
		return nil, nil
	}
	inv := t.with(nil)
	inv.Drive = drive
	return bridge.Run(ctx, t.host, inv, func(p *bridge.Pipeline) (*bridge.Drive, error) {
		return t.provider.NewDrive(p, drive)
	})
}

func (t *Translator) ItemExists(ctx context.Context, path string) (bool, error) {
	return bridge.Run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) (bool, error) {
		return t.provider.ItemExists(p, path)
	})
}

func (t *Translator) IsItemContainer(ctx context.Context, path string) (bool, error) {
	return bridge.Run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) (bool, error) {
		return t.provider.IsItemContainer(p, path)
	})
}

func (t *Translator) IsValidPath(ctx context.Context, path string) (bool, error) {
	return bridge.Run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) (bool, error) {
		return t.provider.IsValidPath(p, path)
	})
}

func (t *Translator) HasChildItems(ctx context.Context, path string) (bool, error) {
	return bridge.Run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) (bool, error) {
		return t.provider.HasChildItems(p, path)
	})
}

func (t *Translator) GetChildName(ctx context.Context, path string) (string, error) {
	return bridge.Run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) (string, error) {
		return t.provider.GetChildName(p, path)
	})
}

func (t *Translator) GetItem(ctx context.Context, path string) error {
	return run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) error {
		return t.provider.GetItem(p, path)
	})
}

// GetChildItems lists children; names selects ids and file names only.
func (t *Translator) GetChildItems(ctx context.Context, path string, names bool, opts ChildOptions) error {
	return run(ctx, t.host, t.with(opts), func(p *bridge.Pipeline) error {
		return t.provider.GetChildItems(p, path, names)
	})
}

func (t *Translator) NewItem(ctx context.Context, path, itemType string, value any, opts NewItemOptions) error {
	return run(ctx, t.host, t.with(opts), func(p *bridge.Pipeline) error {
		return t.provider.NewItem(p, path, itemType, value)
	})
}

func (t *Translator) RemoveItem(ctx context.Context, path string) error {
	return run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) error {
		return t.provider.RemoveItem(p, path)
	})
}

func (t *Translator) ClearContent(ctx context.Context, path string) error {
	return run(ctx, t.host, t.with(nil), func(p *bridge.Pipeline) error {
		return t.provider.ClearContent(p, path)
	})
}

func (t *Translator) GetContentReader(ctx context.Context, path string, opts ContentReadOptions) (*content.Reader, error) {
	return bridge.Run(ctx, t.host, t.with(opts), func(p *bridge.Pipeline) (*content.Reader, error) {
		return t.provider.GetContentReader(p, path)
	})
}

func (t *Translator) GetContentWriter(ctx context.Context, path string, opts ContentWriteOptions) (*content.Writer, error) {
	return bridge.Run(ctx, t.host, t.with(opts), func(p *bridge.Pipeline) (*content.Writer, error) {
		return t.provider.GetContentWriter(p, path)
	})
}

func run(ctx context.Context, host bridge.Host, inv bridge.Invocation, op func(p *bridge.Pipeline) error) error {
	_, err := bridge.Run(ctx, host, inv, func(p *bridge.Pipeline) (struct{}, error) {
		return struct{}{}, op(p)
	})
	return err
}
