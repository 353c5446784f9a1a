// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package dispatcher routes envelopes between publishers and listeners.
//
// A Dispatcher owns two registry tables on top of a bus. The action table
// holds one slot per action handler key plus one "<key>_error" slot per view
// for action errors; the store table holds the reaction and store change
// error slots of each view. Every slot holds at most one live subscription.
// Registering an occupied slot is a no-op that keeps the existing
// subscription, and unregistering an empty slot is a no-op.
//
// Listener callbacks run on the publishing goroutine and are not guarded: a
// panicking listener aborts delivery to listeners registered after it.
package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ManuGH/fluxion/internal/bus"
	"github.com/ManuGH/fluxion/internal/envelope"
	xglog "github.com/ManuGH/fluxion/internal/log"
	"github.com/ManuGH/fluxion/internal/metrics"
)

// Table names a registry table.
type Table string

const (
	TableAction Table = "action"
	TableStore  Table = "store"
)

// Dispatcher is a facade over the bus and the subscription registry.
// It is safe for concurrent use.
type Dispatcher struct {
	bus    *bus.Bus
	logger zerolog.Logger

	mu      sync.Mutex
	actions map[string]*bus.Subscription
	stores  map[string]*bus.Subscription
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New creates a dispatcher publishing on and subscribing to b.
func New(b *bus.Bus, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		bus:     b,
		logger:  xglog.WithComponent("dispatcher"),
		actions: make(map[string]*bus.Subscription),
		stores:  make(map[string]*bus.Subscription),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Bus returns the underlying bus.
func (d *Dispatcher) Bus() *bus.Bus {
	return d.bus
}

// RegisterActionHandler subscribes h to Action envelopes under its listener key.
func (d *Dispatcher) RegisterActionHandler(h ActionHandler) error {
	if isNil(h) {
		return ErrNilListener
	}
	key := ListenerKey(h)

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registerLocked(TableAction, key, envelope.KindAction, route(h, nil))
}

// RegisterReactionView subscribes v to reactions (store table, key), store
// change errors (store table, key_error) and action errors (action table,
// key_error). Each slot is filled only if empty.
func (d *Dispatcher) RegisterReactionView(v ReactionView) error {
	if isNil(v) {
		return ErrNilListener
	}
	key := ListenerKey(v)
	handler := route(nil, v)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.registerLocked(TableStore, key, envelope.KindReaction, handler); err != nil {
		return err
	}
	if err := d.registerLocked(TableStore, errorKey(key), envelope.KindStoreChangeError, handler); err != nil {
		return err
	}
	return d.registerLocked(TableAction, errorKey(key), envelope.KindActionError, handler)
}

// Unregister cancels the three subscriptions created by RegisterReactionView.
func (d *Dispatcher) Unregister(v ReactionView) {
	if isNil(v) {
		return
	}
	key := ListenerKey(v)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.unregisterLocked(TableAction, errorKey(key))
	d.unregisterLocked(TableStore, key)
	d.unregisterLocked(TableStore, errorKey(key))
}

// UnregisterActionHandler cancels the action subscription of h.
func (d *Dispatcher) UnregisterActionHandler(h ActionHandler) {
	if isNil(h) {
		return
	}
	key := ListenerKey(h)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.unregisterLocked(TableAction, key)
}

// UnregisterAll cancels every subscription in both tables and forgets every listener.
func (d *Dispatcher) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	cancelled := 0
	for _, table := range []Table{TableAction, TableStore} {
		tbl := d.table(table)
		for key, sub := range tbl {
			sub.Cancel()
			delete(tbl, key)
			metrics.IncDispatcherUnregistration(string(table))
			cancelled++
		}
		metrics.SetDispatcherRegistered(string(table), 0)
	}

	d.logger.Info().
		Str(xglog.FieldEvent, "dispatcher.unregistered_all").
		Int("cancelled", cancelled).
		Msg("all listeners unregistered")
}

func (d *Dispatcher) table(t Table) map[string]*bus.Subscription {
	if t == TableAction {
		return d.actions
	}
	return d.stores
}

func (d *Dispatcher) registerLocked(table Table, key string, kind envelope.Kind, h bus.Handler) error {
	tbl := d.table(table)
	if sub, ok := tbl[key]; ok && sub.Active() {
		metrics.IncDispatcherRegistration(string(table), metrics.RegistrationDuplicate)
		d.logger.Debug().
			Str(xglog.FieldEvent, "dispatcher.register_skipped").
			Str(xglog.FieldChannel, string(table)).
			Str(xglog.FieldListenerKey, key).
			Msg("listener already registered")
		return nil
	}

	sub, err := d.bus.Subscribe(kind, h, bus.WithName(key))
	if err != nil {
		return fmt.Errorf("register %q in %s table: %w", key, table, err)
	}
	tbl[key] = sub
	metrics.IncDispatcherRegistration(string(table), metrics.RegistrationCreated)
	metrics.SetDispatcherRegistered(string(table), len(tbl))
	d.logger.Debug().
		Str(xglog.FieldEvent, "dispatcher.registered").
		Str(xglog.FieldChannel, string(table)).
		Str(xglog.FieldListenerKey, key).
		Str(xglog.FieldKind, kind.String()).
		Str(xglog.FieldSubscriptionID, sub.ID()).
		Msg("listener registered")
	return nil
}

func (d *Dispatcher) unregisterLocked(table Table, key string) {
	tbl := d.table(table)
	sub, ok := tbl[key]
	if !ok {
		return
	}
	sub.Cancel()
	delete(tbl, key)
	metrics.IncDispatcherUnregistration(string(table))
	metrics.SetDispatcherRegistered(string(table), len(tbl))
	d.logger.Debug().
		Str(xglog.FieldEvent, "dispatcher.unregistered").
		Str(xglog.FieldChannel, string(table)).
		Str(xglog.FieldListenerKey, key).
		Msg("listener unregistered")
}

// route adapts a listener to a bus handler. Exactly one of h and v is set;
// the subscription's channel guarantees which variants arrive.
func route(h ActionHandler, v ReactionView) bus.Handler {
	return func(ctx context.Context, env envelope.Envelope) {
		switch e := env.(type) {
		case envelope.Action:
			if h != nil {
				h.OnAction(ctx, e)
			}
		case envelope.Reaction:
			if v != nil {
				v.OnReact(ctx, e)
			}
		case envelope.ActionError:
			if v != nil {
				v.OnActionError(ctx, e)
			}
		case envelope.StoreChangeError:
			if v != nil {
				v.OnStoreChangedError(ctx, e)
			}
		}
	}
}

// PublishAction sends an action to every registered action handler.
func (d *Dispatcher) PublishAction(ctx context.Context, a envelope.Action) {
	d.bus.Publish(ctx, a)
}

// PublishActionError sends an action error to every registered view.
func (d *Dispatcher) PublishActionError(ctx context.Context, e envelope.ActionError) {
	d.bus.Publish(ctx, e)
}

// PublishReaction sends a reaction to every registered view.
func (d *Dispatcher) PublishReaction(ctx context.Context, r envelope.Reaction) {
	d.bus.Publish(ctx, r)
}

// PublishStoreChangeError sends a store change error to every registered view.
func (d *Dispatcher) PublishStoreChangeError(ctx context.Context, e envelope.StoreChangeError) {
	d.bus.Publish(ctx, e)
}

// HasObservers reports whether the underlying bus has any live subscription.
func (d *Dispatcher) HasObservers() bool {
	return d.bus.HasObservers()
}

// Snapshot lists the registered keys of both tables.
type Snapshot struct {
	Action []string `json:"action"`
	Store  []string `json:"store"`
}

// Snapshot returns the sorted keys currently held in each table.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{
		Action: sortedKeys(d.actions),
		Store:  sortedKeys(d.stores),
	}
}

// IsRegistered reports whether key holds a live subscription in table.
func (d *Dispatcher) IsRegistered(table Table, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	sub, ok := d.table(table)[key]
	return ok && sub.Active()
}

func sortedKeys(m map[string]*bus.Subscription) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
