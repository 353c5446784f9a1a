// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by bus and dispatcher spans.
const (
	EnvelopeKindKey = "fluxion.envelope.kind"
	EnvelopeTagKey  = "fluxion.envelope.tag"
	EnvelopeIDKey   = "fluxion.envelope.id"
	SubscribersKey  = "fluxion.bus.subscribers"
	DeferredKey     = "fluxion.bus.deferred"

	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// EnvelopeAttributes describes the envelope being published.
func EnvelopeAttributes(kind, tag, id string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(EnvelopeKindKey, kind),
		attribute.String(EnvelopeTagKey, tag),
	}
	if id != "" {
		attrs = append(attrs, attribute.String(EnvelopeIDKey, id))
	}
	return attrs
}

// HTTPAttributes creates common HTTP span attributes. A zero status is omitted.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
	}
	if statusCode != 0 {
		attrs = append(attrs, attribute.Int(HTTPStatusCodeKey, statusCode))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(err error, errorType string) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	attrs := []attribute.KeyValue{
		attribute.String(ErrorKey, err.Error()),
	}
	if errorType != "" {
		attrs = append(attrs, attribute.String(ErrorTypeKey, errorType))
	}
	return attrs
}
