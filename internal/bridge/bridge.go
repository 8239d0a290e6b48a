// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge runs provider operations as worker goroutines while the calling
// goroutine acts as the terminal host. The host surface (printing items, errors,
// diagnostics and asking for confirmation) is synchronous and must only be touched
// from the caller, so every worker event travels back over a single-slot channel
// and is dispatched by the caller in exactly the order it was emitted.
//
// A call owns one channel pair. The worker closes its side on every exit path,
// which is what ends the host's pump loop; the worker's result or failure is
// returned only after the channel has drained.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"gisthub/cli/internal/bridge/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrProtocol marks a broken exchange between the worker and the host.
	ErrProtocol = errors.New("bridge protocol violation")
	// ErrWorkerPanic wraps a panic recovered from a worker.
	ErrWorkerPanic = errors.New("worker panicked")
)

// Host is the synchronous surface the pump loop drives.
type Host interface {
	WriteItem(item any, path string, isContainer bool)
	WriteError(rec *model.ErrorRecord)
	WriteWarning(text string)
	WriteVerbose(text string)
	WriteDebug(text string)
	WriteInformation(rec model.InformationRecord)
	WriteProgress(rec model.ProgressRecord)
	Confirm(target, action string) bool
}

// Operation is the body of a worker.
type Operation[T any] func(p *Pipeline) (T, error)

// Run starts op on its own goroutine and pumps its messages into host on the
// calling goroutine until the worker finishes. It returns the worker's result,
// or its error once every message emitted before the failure was delivered.
//
// Cancelling ctx is cooperative: the worker sees it on its next channel send,
// confirm or network call.
func Run[T any](ctx context.Context, host Host, inv Invocation, op Operation[T]) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := zap.L().With(zap.String("command", inv.Command.Name))
	if inv.Session != nil {
		log = log.With(zap.String("session", inv.Session.ID()))
	}

	ch := newChannelPair()
	p := &Pipeline{ctx: ctx, inv: inv, ch: ch}

	var (
		result T
		g      errgroup.Group
	)
	log.Debug("worker starting")
	g.Go(func() (err error) {
		defer ch.closeWorker()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
			}
		}()
		result, err = op(p)
		return err
	})

	pumpErr := pump(host, ch, cancel)
	ch.closeHost()
	workerErr := g.Wait()

	switch {
	case pumpErr != nil:
		log.Error("bridge protocol failure", zap.Error(pumpErr), zap.NamedError("worker", workerErr))
		var zero T
		if workerErr != nil && !errors.Is(workerErr, context.Canceled) {
			return zero, errors.Join(pumpErr, workerErr)
		}
		return zero, pumpErr
	case workerErr != nil:
		log.Debug("worker failed", zap.Error(workerErr))
		var zero T
		return zero, workerErr
	}
	log.Debug("worker finished")
	return result, nil
}

// pump dispatches messages until the worker closes its channel. After a
// protocol violation the worker is cancelled and the remaining messages are
// drained without dispatch so the worker can unwind.
func pump(host Host, ch *channelPair, cancel context.CancelFunc) error {
	var violation error
	fail := func(err error) {
		violation = err
		cancel()
		ch.closeHost()
	}

	for msg := range ch.out {
		if violation != nil {
			continue
		}
		switch m := msg.(type) {
		case model.Output:
			host.WriteItem(m.Item, m.Path, m.IsContainer)
		case model.Error:
			if m.Record == nil {
				fail(fmt.Errorf("%w: nil error record", ErrProtocol))
				continue
			}
			host.WriteError(m.Record)
		case model.Warning:
			host.WriteWarning(m.Text)
		case model.Verbose:
			host.WriteVerbose(m.Text)
		case model.Debug:
			host.WriteDebug(m.Text)
		case model.Information:
			host.WriteInformation(m.Record)
		case model.Progress:
			host.WriteProgress(m.Record)
		case model.ConfirmRequest:
			ok := host.Confirm(m.Target, m.Action)
			if err := ch.answer(ok); err != nil {
				fail(err)
			}
		default:
			fail(fmt.Errorf("%w: unknown message %T", ErrProtocol, msg))
		}
	}
	return violation
}
