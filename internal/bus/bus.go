// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/fluxion/internal/envelope"
	xglog "github.com/ManuGH/fluxion/internal/log"
	"github.com/ManuGH/fluxion/internal/metrics"
	"github.com/ManuGH/fluxion/internal/telemetry"
)

// Bus is an in-process, replay-free multicast point for envelopes.
type Bus struct {
	mu    sync.RWMutex
	subs  map[envelope.Kind][]*Subscription
	count int

	emitMu   sync.Mutex
	emitting bool
	queue    []pending

	logger zerolog.Logger
	tracer trace.Tracer
	slow   time.Duration
}

type pending struct {
	ctx context.Context
	env envelope.Envelope
	// delivered is closed once env went through deliver. Nil for re-entrant
	// publishes, which never wait.
	delivered chan struct{}
	// abandoned is signalled when the emitter panicked with env still queued.
	abandoned chan struct{}
}

// emitterKey marks the context handed to handlers so a publish made from
// inside a handler is recognised as re-entrant.
type emitterKey struct{}

func (b *Bus) reentrant(ctx context.Context) bool {
	owner, _ := ctx.Value(emitterKey{}).(*Bus)
	return owner == b
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bus) {
		b.logger = l
	}
}

// WithTracer overrides the tracer used for publish spans.
func WithTracer(t trace.Tracer) Option {
	return func(b *Bus) {
		if t != nil {
			b.tracer = t
		}
	}
}

// WithSlowDeliveryThreshold logs a warning whenever a single handler call
// takes longer than d. Zero disables the check.
func WithSlowDeliveryThreshold(d time.Duration) Option {
	return func(b *Bus) {
		b.slow = d
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[envelope.Kind][]*Subscription, len(envelope.Kinds)),
		logger: xglog.WithComponent("bus"),
		tracer: telemetry.Tracer("fluxion/bus"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for every future envelope of the given kind. Envelopes
// published before the call are never replayed.
func (b *Bus) Subscribe(kind envelope.Kind, h Handler, opts ...SubscribeOption) (*Subscription, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, kind)
	}
	if h == nil {
		return nil, ErrNilHandler
	}

	s := &Subscription{
		id:      uuid.NewString(),
		kind:    kind,
		handler: h,
		bus:     b,
	}
	for _, opt := range opts {
		opt(s)
	}

	b.mu.Lock()
	b.subs[kind] = append(b.subs[kind], s)
	b.count++
	n := len(b.subs[kind])
	b.mu.Unlock()

	metrics.SetBusSubscriptions(kind.String(), n)
	b.logger.Debug().
		Str(xglog.FieldEvent, "bus.subscribed").
		Str(xglog.FieldSubscriptionID, s.id).
		Str(xglog.FieldListenerKey, s.name).
		Str(xglog.FieldKind, kind.String()).
		Msg("subscription added")
	return s, nil
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	list := b.subs[s.kind]
	for i, cur := range list {
		if cur == s {
			// Copy instead of shifting in place: deliveries iterate over snapshots of the old slice.
			next := make([]*Subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.subs[s.kind] = next
			b.count--
			break
		}
	}
	n := len(b.subs[s.kind])
	b.mu.Unlock()

	metrics.SetBusSubscriptions(s.kind.String(), n)
	b.logger.Debug().
		Str(xglog.FieldEvent, "bus.unsubscribed").
		Str(xglog.FieldSubscriptionID, s.id).
		Str(xglog.FieldListenerKey, s.name).
		Str(xglog.FieldKind, s.kind.String()).
		Msg("subscription cancelled")
}

// CancelAll cancels every live subscription, including ones not created through the dispatcher.
func (b *Bus) CancelAll() {
	b.mu.RLock()
	var all []*Subscription
	for _, kind := range envelope.Kinds {
		all = append(all, b.subs[kind]...)
	}
	b.mu.RUnlock()

	for _, s := range all {
		s.Cancel()
	}
}

// HasObservers reports whether at least one subscription is live.
func (b *Bus) HasObservers() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count > 0
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// LenKind returns the number of live subscriptions on one channel.
func (b *Bus) LenKind(kind envelope.Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}

// Publish delivers env to every matching live subscription and returns once
// env has been delivered. See the package documentation for the
// serialization and panic rules.
func (b *Bus) Publish(ctx context.Context, env envelope.Envelope) {
	if env == nil {
		b.logger.Warn().Str(xglog.FieldEvent, "bus.publish_nil").Msg("ignoring nil envelope")
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	metrics.IncBusPublished(env.Kind().String())

	p := pending{ctx: ctx, env: env}
	if !b.reentrant(ctx) {
		p.delivered = make(chan struct{})
		p.abandoned = make(chan struct{}, 1)
	}

	b.emitMu.Lock()
	b.queue = append(b.queue, p)
	if b.emitting {
		b.emitMu.Unlock()
		metrics.IncBusDeferred()
		logger := xglog.WithContext(ctx, b.logger)
		logger.Debug().
			Str(xglog.FieldEvent, "bus.publish_deferred").
			Str(xglog.FieldKind, env.Kind().String()).
			Str(xglog.FieldTag, env.Tag()).
			Str(xglog.FieldEnvelopeID, env.ID()).
			Msg("delivery in progress, envelope queued")
		if p.delivered != nil {
			b.await(p)
		}
		return
	}
	b.emitting = true
	b.emitMu.Unlock()

	b.drain()
}

// await blocks until p has been delivered by the current emitter. If that
// emitter panics first, the waiting publisher takes over the queue.
func (b *Bus) await(p pending) {
	for {
		select {
		case <-p.delivered:
			return
		case <-p.ctx.Done():
			return
		case <-p.abandoned:
		}

		b.emitMu.Lock()
		select {
		case <-p.delivered:
			b.emitMu.Unlock()
			return
		default:
		}
		if b.emitting {
			b.emitMu.Unlock()
			continue
		}
		b.emitting = true
		b.emitMu.Unlock()

		b.drain()
		return
	}
}

func (b *Bus) drain() {
	done := false
	var current pending
	defer func() {
		if !done {
			// The publisher of the envelope that panicked is released; the
			// panic itself surfaces on this goroutine.
			if current.delivered != nil {
				close(current.delivered)
			}
			b.emitMu.Lock()
			b.emitting = false
			for _, p := range b.queue {
				if p.abandoned != nil {
					select {
					case p.abandoned <- struct{}{}:
					default:
					}
				}
			}
			b.emitMu.Unlock()
		}
	}()

	for {
		b.emitMu.Lock()
		if len(b.queue) == 0 {
			b.emitting = false
			b.emitMu.Unlock()
			done = true
			return
		}
		current = b.queue[0]
		b.queue[0] = pending{}
		b.queue = b.queue[1:]
		b.emitMu.Unlock()

		b.deliver(current.ctx, current.env)
		if current.delivered != nil {
			close(current.delivered)
		}
		current = pending{}
	}
}

func (b *Bus) deliver(ctx context.Context, env envelope.Envelope) {
	kind := env.Kind()

	b.mu.RLock()
	subs := b.subs[kind]
	b.mu.RUnlock()

	ctx = context.WithValue(ctx, emitterKey{}, b)
	ctx, span := b.tracer.Start(ctx, "fluxion.bus.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(telemetry.EnvelopeAttributes(kind.String(), env.Tag(), env.ID())...),
	)
	delivered := 0
	defer func() {
		span.SetAttributes(attribute.Int(telemetry.SubscribersKey, delivered))
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprint(r))
			span.End()
			b.logger.Error().
				Str(xglog.FieldEvent, "bus.handler_panic").
				Str(xglog.FieldKind, kind.String()).
				Str(xglog.FieldTag, env.Tag()).
				Str(xglog.FieldEnvelopeID, env.ID()).
				Interface("panic", r).
				Msg("subscriber panicked, delivery aborted")
			panic(r)
		}
		span.End()
	}()

	for _, s := range subs {
		if !s.accepts(env) {
			continue
		}
		b.invoke(ctx, s, env)
		delivered++
	}
}

func (b *Bus) invoke(ctx context.Context, s *Subscription, env envelope.Envelope) {
	start := time.Now()
	s.handler(ctx, env)
	elapsed := time.Since(start)

	kind := env.Kind().String()
	metrics.ObserveBusDelivery(kind, elapsed)
	if b.slow > 0 && elapsed > b.slow {
		metrics.IncBusSlowDelivery(kind)
		logger := xglog.WithContext(ctx, b.logger)
		logger.Warn().
			Str(xglog.FieldEvent, "bus.slow_delivery").
			Str(xglog.FieldSubscriptionID, s.id).
			Str(xglog.FieldListenerKey, s.name).
			Str(xglog.FieldKind, kind).
			Str(xglog.FieldTag, env.Tag()).
			Dur("elapsed", elapsed).
			Dur("threshold", b.slow).
			Msg("subscriber callback exceeded slow delivery threshold")
	}
}
