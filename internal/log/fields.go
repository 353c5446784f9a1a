// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldCorrelationID  = "correlation_id"
	FieldRequestID      = "request_id"
	FieldEnvelopeID     = "envelope_id"
	FieldSubscriptionID = "subscription_id"
	FieldListenerKey    = "listener_key"

	// Routing fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldKind      = "kind"
	FieldTag       = "tag"
	FieldChannel   = "channel"

	// HTTP fields
	FieldMethod     = "method"
	FieldRoute      = "route"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"

	// Config fields
	FieldPath = "path"
)
