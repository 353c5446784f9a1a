// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatcher

import (
	"context"
	"reflect"

	"github.com/ManuGH/fluxion/internal/envelope"
)

// ActionHandler consumes Action envelopes. Stores implement it.
type ActionHandler interface {
	OnAction(ctx context.Context, action envelope.Action)
}

// ReactionView consumes everything stores and action creators emit back:
// reactions, store change errors and action errors.
type ReactionView interface {
	OnReact(ctx context.Context, reaction envelope.Reaction)
	OnActionError(ctx context.Context, err envelope.ActionError)
	OnStoreChangedError(ctx context.Context, err envelope.StoreChangeError)
}

// Keyed lets a listener pick its own registry key instead of its type name.
// Two instances returning different keys can then be registered side by side.
type Keyed interface {
	ListenerKey() string
}

const errorSuffix = "_error"

// ListenerKey returns the identity used to deduplicate registrations for l:
// the non-empty ListenerKey() of a Keyed listener, otherwise the runtime type
// name with pointers dereferenced (e.g. "echo.AuditView").
func ListenerKey(l any) string {
	if k, ok := l.(Keyed); ok {
		if key := k.ListenerKey(); key != "" {
			return key
		}
	}
	t := reflect.TypeOf(l)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// isNil reports whether l is nil or a typed nil such as (*T)(nil).
func isNil(l any) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func errorKey(key string) string {
	return key + errorSuffix
}
