// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bus implements the process-wide broadcast bus.
//
// The bus keeps one ordered subscriber list per envelope kind. Publish
// delivers synchronously on the calling goroutine, in subscription order.
// Publishes are serialized: while one goroutine is delivering, any other
// publish is appended to a FIFO queue and delivered by the goroutine already
// emitting, after the current envelope. A handler is therefore never entered
// by two publishes at once.
//
// A publish from another goroutine blocks until its own envelope has been
// delivered, or until its context is done. A publish made from inside a
// handler with the context the handler received is re-entrant: it only queues
// and returns, so a store may publish a reaction from inside OnAction without
// deadlocking. Handlers must pass their context on for that to work.
//
// Handler panics are not recovered. They propagate to whichever goroutine is
// emitting and abort delivery to the subscribers that follow in order. The
// bus releases its emitter state on the way out so later publishes still work.
// A publisher still waiting on a queued envelope takes over and drains the
// queue; queued re-entrant envelopes are otherwise delivered by the next
// publish.
package bus
