// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package envelope defines the closed set of messages carried on the bus.
//
// Every message is one of four variants:
//
//   - Action: a request published towards stores.
//   - ActionError: a failure raised while creating or handling an action.
//   - Reaction: a store change published towards views.
//   - StoreChangeError: a failure raised by a store while applying a change.
//
// Envelopes are immutable once constructed. Action and Reaction carry a
// string-keyed Payload; the error variants carry a causal error.
package envelope
