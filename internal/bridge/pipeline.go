// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"context"
	"fmt"
	"time"

	"gisthub/cli/internal/bridge/model"
	"gisthub/cli/internal/session"
)

// Drive describes a named mount of the gist tree.
type Drive struct {
	// Name is the prefix used in paths, e.g. "Gist" in "Gist:octocat/abc".
	Name string
	// Root is the owner the drive is scoped to; empty for the global drive.
	Root string
	// Credential is a token bound to the drive.
	Credential string
	// Description is shown by `gisthub drive`.
	Description string
}

// Command describes the invocation that started an operation.
type Command struct {
	Name string
	Args []string
}

// Invocation is the read-only state a worker receives at start.
// Cancellation travels separately on the context given to Run.
type Invocation struct {
	Session    *session.Session
	Drive      *Drive
	Options    any
	Force      bool
	Credential string
	Command    Command
}

// Pipeline is the worker's handle to the host for the duration of one call.
// All methods must be called from the worker goroutine started by Run.
type Pipeline struct {
	ctx context.Context
	inv Invocation
	ch  *channelPair
}

// Context returns the call's cancellation context.
func (p *Pipeline) Context() context.Context { return p.ctx }

// Session returns the calling session.
func (p *Pipeline) Session() *session.Session { return p.inv.Session }

// Drive returns the target drive, or nil.
func (p *Pipeline) Drive() *Drive { return p.inv.Drive }

// Options returns the operation-specific options bag.
func (p *Pipeline) Options() any { return p.inv.Options }

// Force reports whether the caller asked to override safety checks.
func (p *Pipeline) Force() bool { return p.inv.Force }

// Credential returns the token supplied for this call, if any.
func (p *Pipeline) Credential() string { return p.inv.Credential }

// Command returns the originating invocation.
func (p *Pipeline) Command() Command { return p.inv.Command }

// Emit sends one message to the host, blocking until the host took the previous one.
func (p *Pipeline) Emit(m model.Message) error {
	if _, ok := m.(model.ConfirmRequest); ok {
		return fmt.Errorf("%w: use Confirm for confirm requests", ErrProtocol)
	}
	return p.ch.emit(p.ctx, m)
}

// WriteItem outputs an item with its provider path.
func (p *Pipeline) WriteItem(item any, path string, isContainer bool) error {
	return p.Emit(model.Output{Item: item, Path: path, IsContainer: isContainer})
}

// WriteError reports a non-terminating error.
func (p *Pipeline) WriteError(rec *model.ErrorRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: nil error record", ErrProtocol)
	}
	return p.Emit(model.Error{Record: rec})
}

func (p *Pipeline) WriteWarning(format string, args ...any) error {
	return p.Emit(model.Warning{Text: fmt.Sprintf(format, args...)})
}

func (p *Pipeline) WriteVerbose(format string, args ...any) error {
	return p.Emit(model.Verbose{Text: fmt.Sprintf(format, args...)})
}

func (p *Pipeline) WriteDebug(format string, args ...any) error {
	return p.Emit(model.Debug{Text: fmt.Sprintf(format, args...)})
}

// WriteInformation sends an information record; a zero Time is stamped with now.
func (p *Pipeline) WriteInformation(rec model.InformationRecord) error {
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	return p.Emit(model.Information{Record: rec})
}

func (p *Pipeline) WriteProgress(rec model.ProgressRecord) error {
	return p.Emit(model.Progress{Record: rec})
}

// Confirm asks the host whether action may be performed on target and blocks
// until it answers. No other message can be emitted meanwhile.
func (p *Pipeline) Confirm(target, action string) (bool, error) {
	return p.ch.confirm(p.ctx, model.ConfirmRequest{Target: target, Action: action})
}
