// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bus

import (
	"context"
	"sync/atomic"

	"github.com/ManuGH/fluxion/internal/envelope"
)

// Handler receives envelopes delivered by the bus.
type Handler func(ctx context.Context, env envelope.Envelope)

// Filter narrows a subscription beyond its kind.
type Filter func(env envelope.Envelope) bool

// SubscribeOption configures a subscription.
type SubscribeOption func(*Subscription)

// WithFilter installs a predicate; the handler only sees envelopes for which it returns true.
func WithFilter(f Filter) SubscribeOption {
	return func(s *Subscription) {
		s.filter = f
	}
}

// WithName labels the subscription in logs (typically the listener key).
func WithName(name string) SubscribeOption {
	return func(s *Subscription) {
		s.name = name
	}
}

// Subscription is a live registration on the bus. It can be cancelled exactly
// once; later calls to Cancel are no-ops.
type Subscription struct {
	id      string
	name    string
	kind    envelope.Kind
	handler Handler
	filter  Filter

	bus       *Bus
	cancelled atomic.Bool
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Name returns the optional label given with WithName.
func (s *Subscription) Name() string { return s.name }

// Kind returns the channel the subscription listens on.
func (s *Subscription) Kind() envelope.Kind { return s.kind }

// Active reports whether the subscription still receives envelopes.
func (s *Subscription) Active() bool {
	return !s.cancelled.Load()
}

// Cancel stops future deliveries. Deliveries already running are not interrupted.
func (s *Subscription) Cancel() {
	if !s.cancelled.CompareAndSwap(false, true) {
		return
	}
	s.bus.remove(s)
}

func (s *Subscription) accepts(env envelope.Envelope) bool {
	if !s.Active() {
		return false
	}
	return s.filter == nil || s.filter(env)
}
