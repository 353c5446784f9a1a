// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestEnvelopeAttributes(t *testing.T) {
	attrs := EnvelopeAttributes("reaction", "GET_USERS", "abc")
	if len(attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, EnvelopeKindKey, "reaction")
	verifyAttribute(t, attrs, EnvelopeTagKey, "GET_USERS")
	verifyAttribute(t, attrs, EnvelopeIDKey, "abc")

	if got := EnvelopeAttributes("action", "X", ""); len(got) != 2 {
		t.Errorf("Expected id attribute to be omitted, got %d attributes", len(got))
	}
}

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("POST", "/api/v1/actions", 202)
	if len(attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, HTTPMethodKey, "POST")
	verifyAttribute(t, attrs, HTTPRouteKey, "/api/v1/actions")
	if got := attrs[2].Value.AsInt64(); got != 202 {
		t.Errorf("status attribute = %d, want 202", got)
	}

	if got := HTTPAttributes("GET", "/healthz", 0); len(got) != 2 {
		t.Errorf("Expected status attribute to be omitted, got %d attributes", len(got))
	}
}

func TestErrorAttributes(t *testing.T) {
	if attrs := ErrorAttributes(nil, "x"); attrs != nil {
		t.Errorf("Expected nil attributes for nil error, got %v", attrs)
	}

	attrs := ErrorAttributes(errors.New("boom"), "store_change_error")
	verifyAttribute(t, attrs, ErrorKey, "boom")
	verifyAttribute(t, attrs, ErrorTypeKey, "store_change_error")
}

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, want string) {
	t.Helper()
	for _, a := range attrs {
		if string(a.Key) == key {
			if got := a.Value.AsString(); got != want {
				t.Errorf("attribute %s = %q, want %q", key, got, want)
			}
			return
		}
	}
	t.Errorf("attribute %s not found", key)
}
