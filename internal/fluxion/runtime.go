// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fluxion wires one bus and one dispatcher into a Runtime and keeps
// an optional process-wide instance with an explicit init/shutdown lifecycle.
//
// Code that can pass dependencies explicitly should construct a Runtime with
// New and hand out its Dispatcher. Init/Default/Shutdown exist for hosts whose
// lifecycle hooks cannot carry a reference.
package fluxion

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/fluxion/internal/bus"
	"github.com/ManuGH/fluxion/internal/dispatcher"
	xglog "github.com/ManuGH/fluxion/internal/log"
)

// ErrNotInitialized is returned by Default before Init has been called.
var ErrNotInitialized = errors.New("fluxion: not initialized")

// Options configure a Runtime.
type Options struct {
	Logger                zerolog.Logger
	Tracer                trace.Tracer
	SlowDeliveryThreshold time.Duration
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the parent logger for the runtime, bus and dispatcher. Each
// of them adds its own component field, so l should not carry one.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithTracer sets the tracer used for publish spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		o.Tracer = t
	}
}

// WithSlowDeliveryThreshold enables slow callback warnings on the bus.
func WithSlowDeliveryThreshold(d time.Duration) Option {
	return func(o *Options) {
		o.SlowDeliveryThreshold = d
	}
}

// Runtime owns the bus and the dispatcher built on it.
type Runtime struct {
	bus        *bus.Bus
	dispatcher *dispatcher.Dispatcher
	logger     zerolog.Logger
	shutdowns  atomic.Uint64
}

// New constructs an independent runtime.
func New(opts ...Option) *Runtime {
	o := Options{Logger: xglog.Base()}
	for _, opt := range opts {
		opt(&o)
	}

	busOpts := []bus.Option{
		bus.WithLogger(o.Logger.With().Str(xglog.FieldComponent, "bus").Logger()),
		bus.WithSlowDeliveryThreshold(o.SlowDeliveryThreshold),
	}
	if o.Tracer != nil {
		busOpts = append(busOpts, bus.WithTracer(o.Tracer))
	}
	b := bus.New(busOpts...)

	return &Runtime{
		bus: b,
		dispatcher: dispatcher.New(b,
			dispatcher.WithLogger(o.Logger.With().Str(xglog.FieldComponent, "dispatcher").Logger()),
		),
		logger: o.Logger.With().Str(xglog.FieldComponent, "fluxion").Logger(),
	}
}

// Bus returns the runtime's bus.
func (r *Runtime) Bus() *bus.Bus {
	return r.bus
}

// Dispatcher returns the runtime's dispatcher.
func (r *Runtime) Dispatcher() *dispatcher.Dispatcher {
	return r.dispatcher
}

// Shutdown cancels every registration and every direct bus subscription.
// It may be called any number of times; the runtime stays usable afterwards.
func (r *Runtime) Shutdown() {
	r.dispatcher.UnregisterAll()
	r.bus.CancelAll()
	n := r.shutdowns.Add(1)
	r.logger.Info().
		Str(xglog.FieldEvent, "fluxion.shutdown").
		Uint64("shutdowns", n).
		Msg("runtime shut down, all subscriptions cancelled")
}

var (
	instanceMu sync.Mutex
	instance   *Runtime
)

// Init creates the process-wide runtime. Later calls return the existing
// instance and ignore opts.
func Init(opts ...Option) *Runtime {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance != nil {
		return instance
	}
	instance = New(opts...)
	instance.logger.Info().Str(xglog.FieldEvent, "fluxion.init").Msg("runtime initialized")
	return instance
}

// Default returns the process-wide runtime created by Init.
func Default() (*Runtime, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		return nil, ErrNotInitialized
	}
	return instance, nil
}

// Shutdown tears down the process-wide runtime. It is a no-op if Init was
// never called and idempotent afterwards.
func Shutdown() {
	instanceMu.Lock()
	rt := instance
	instanceMu.Unlock()
	if rt == nil {
		return
	}
	rt.Shutdown()
}
