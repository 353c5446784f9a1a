// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store provides the plumbing shared by application stores: joining
// the action channel and announcing changes back to views.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ManuGH/fluxion/internal/dispatcher"
	"github.com/ManuGH/fluxion/internal/envelope"
	xglog "github.com/ManuGH/fluxion/internal/log"
)

// Base is embedded by concrete stores. Go has no virtual "this", so the
// owning store passes itself as owner; the owner's listener key identifies
// the registration.
//
//	type UserStore struct {
//		*store.Base
//	}
//
//	func NewUserStore(d *dispatcher.Dispatcher) *UserStore {
//		s := &UserStore{}
//		s.Base = store.New(d, s)
//		return s
//	}
type Base struct {
	dispatcher *dispatcher.Dispatcher
	owner      dispatcher.ActionHandler
	logger     zerolog.Logger
}

// New binds a store base to d on behalf of owner.
func New(d *dispatcher.Dispatcher, owner dispatcher.ActionHandler) *Base {
	return &Base{
		dispatcher: d,
		owner:      owner,
		logger: xglog.Derive(func(c *zerolog.Context) {
			*c = c.Str(xglog.FieldComponent, "store").
				Str(xglog.FieldListenerKey, dispatcher.ListenerKey(owner))
		}),
	}
}

// Register subscribes the owner to actions. Safe to call repeatedly.
func (b *Base) Register() error {
	return b.dispatcher.RegisterActionHandler(b.owner)
}

// Unregister removes the owner's action subscription.
func (b *Base) Unregister() {
	b.dispatcher.UnregisterActionHandler(b.owner)
}

// PostReaction publishes a reaction built from tag and flattened key/value
// pairs, e.g. PostReaction(ctx, "GET_USERS", "users", users). A malformed
// reaction is reported to the caller and nothing is published.
func (b *Base) PostReaction(ctx context.Context, tag string, kv ...any) error {
	r, err := envelope.NewReaction(tag, kv...)
	if err != nil {
		return fmt.Errorf("post reaction: %w", err)
	}
	b.dispatcher.PublishReaction(ctx, r)
	return nil
}

// PostChangeError notifies views that handling an action failed.
func (b *Base) PostChangeError(ctx context.Context, tag string, cause error) {
	logger := xglog.WithContext(ctx, b.logger)
	logger.Debug().
		Err(cause).
		Str(xglog.FieldEvent, "store.change_error").
		Str(xglog.FieldTag, tag).
		Msg("posting store change error")
	b.dispatcher.PublishStoreChangeError(ctx, envelope.NewStoreChangeError(tag, cause))
}

// PostActionError notifies views that an action could not be processed at all.
func (b *Base) PostActionError(ctx context.Context, tag string, cause error) {
	b.dispatcher.PublishActionError(ctx, envelope.NewActionError(tag, cause))
}
