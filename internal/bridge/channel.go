// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"gisthub/cli/internal/bridge/model"
)

// channelPair is the pair of single-slot queues between one worker and the host.
// out is written only by the worker and closed by it when the worker returns.
// reply is written and closed only by the host.
type channelPair struct {
	out   chan model.Message
	reply chan bool

	closeOut   sync.Once
	closeReply sync.Once

	// pending is set while a ConfirmRequest waits for its reply.
	pending atomic.Bool
}

func newChannelPair() *channelPair {
	return &channelPair{
		out:   make(chan model.Message, 1),
		reply: make(chan bool, 1),
	}
}

// send places m in the worker->host slot, blocking until the host has taken
// the previous message or ctx is done.
func (c *channelPair) send(ctx context.Context, m model.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case c.out <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// emit sends a non-confirm message. Emitting while a confirm is outstanding
// means two producers share the pipeline.
func (c *channelPair) emit(ctx context.Context, m model.Message) error {
	if c.pending.Load() {
		return fmt.Errorf("%w: %T emitted while a confirm is pending", ErrProtocol, m)
	}
	return c.send(ctx, m)
}

// confirm sends the request and waits for the host's answer.
func (c *channelPair) confirm(ctx context.Context, req model.ConfirmRequest) (bool, error) {
	if !c.pending.CompareAndSwap(false, true) {
		return false, fmt.Errorf("%w: confirm requested while another is pending", ErrProtocol)
	}
	if err := c.send(ctx, req); err != nil {
		c.pending.Store(false)
		return false, err
	}
	select {
	case ok, open := <-c.reply:
		if !open {
			return false, fmt.Errorf("%w: reply channel closed while a confirm was pending", ErrProtocol)
		}
		c.pending.Store(false)
		return ok, nil
	case <-ctx.Done():
		// pending stays set: the host may still answer into the empty slot.
		return false, ctx.Err()
	}
}

// answer is called by the host after it resolved a ConfirmRequest.
func (c *channelPair) answer(ok bool) error {
	if !c.pending.Load() {
		return fmt.Errorf("%w: reply without a pending confirm", ErrProtocol)
	}
	select {
	case c.reply <- ok:
		return nil
	default:
		return fmt.Errorf("%w: reply slot already holds an unread answer", ErrProtocol)
	}
}

func (c *channelPair) closeWorker() {
	c.closeOut.Do(func() { close(c.out) })
}

func (c *channelPair) closeHost() {
	c.closeReply.Do(func() { close(c.reply) })
}
