// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package envelope

import (
	"fmt"

	"github.com/google/uuid"
)

// Envelope is the sealed sum type carried on the bus. Only the four variants
// declared in this package implement it; consumers switch on the concrete type
// or on Kind.
type Envelope interface {
	Kind() Kind
	Tag() string
	ID() string
	isEnvelope()
}

type header struct {
	id  string
	tag string
}

func newHeader(tag string) header {
	return header{id: uuid.NewString(), tag: tag}
}

func (h header) Tag() string { return h.tag }
func (h header) ID() string { return h.id }

// Action is a request for a state change, consumed by stores.
type Action struct {
	header
	payload Payload
}

// NewAction builds an Action from a non-empty tag and flattened key/value pairs.
func NewAction(tag string, kv ...any) (Action, error) {
	if tag == "" {
		return Action{}, fmt.Errorf("%w: action tag must not be empty", ErrInvalidArgument)
	}
	p, err := payloadFromPairs(kv)
	if err != nil {
		return Action{}, fmt.Errorf("action %q: %w", tag, err)
	}
	return Action{header: newHeader(tag), payload: p}, nil
}

func (Action) Kind() Kind { return KindAction }
func (a Action) Payload() Payload { return a.payload }
func (Action) isEnvelope() {}

// Reaction announces a store change to views.
type Reaction struct {
	header
	payload Payload
}

// NewReaction builds a Reaction from a non-empty tag and flattened key/value
// pairs, e.g. NewReaction("GET_USERS", "users", users).
func NewReaction(tag string, kv ...any) (Reaction, error) {
	if tag == "" {
		return Reaction{}, fmt.Errorf("%w: reaction tag must not be empty", ErrInvalidArgument)
	}
	p, err := payloadFromPairs(kv)
	if err != nil {
		return Reaction{}, fmt.Errorf("reaction %q: %w", tag, err)
	}
	return Reaction{header: newHeader(tag), payload: p}, nil
}

func (Reaction) Kind() Kind { return KindReaction }
func (r Reaction) Payload() Payload { return r.payload }
func (Reaction) isEnvelope() {}

// ActionError wraps a failure that occurred while posting or handling an action.
type ActionError struct {
	header
	cause error
}

// NewActionError wraps cause. An empty tag defaults to the kind name and a nil
// cause is replaced with ErrUnknownCause.
func NewActionError(tag string, cause error) ActionError {
	if tag == "" {
		tag = KindActionError.String()
	}
	if cause == nil {
		cause = ErrUnknownCause
	}
	return ActionError{header: newHeader(tag), cause: cause}
}

func (ActionError) Kind() Kind { return KindActionError }
func (e ActionError) Cause() error { return e.cause }
func (e ActionError) Unwrap() error { return e.cause }
func (e ActionError) Error() string { return fmt.Sprintf("action error %s: %v", e.tag, e.cause) }
func (ActionError) isEnvelope() {}

// StoreChangeError wraps a failure posted by a store while handling an action.
type StoreChangeError struct {
	header
	cause error
}

// NewStoreChangeError wraps cause with the same defaults as NewActionError.
func NewStoreChangeError(tag string, cause error) StoreChangeError {
	if tag == "" {
		tag = KindStoreChangeError.String()
	}
	if cause == nil {
		cause = ErrUnknownCause
	}
	return StoreChangeError{header: newHeader(tag), cause: cause}
}

func (StoreChangeError) Kind() Kind { return KindStoreChangeError }
func (e StoreChangeError) Cause() error { return e.cause }
func (e StoreChangeError) Unwrap() error { return e.cause }
func (e StoreChangeError) Error() string {
	return fmt.Sprintf("store change error %s: %v", e.tag, e.cause)
}
func (StoreChangeError) isEnvelope() {}

var (
	_ Envelope = Action{}
	_ Envelope = Reaction{}
	_ Envelope = ActionError{}
	_ Envelope = StoreChangeError{}
)
