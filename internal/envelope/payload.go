// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package envelope

import (
	"fmt"
	"sort"
)

// Payload is an immutable string-keyed bag of opaque values.
// The zero value is an empty payload.
type Payload struct {
	data map[string]any
}

// payloadFromPairs builds a payload from a flattened key/value sequence.
// Later values overwrite earlier ones for duplicate keys.
func payloadFromPairs(kv []any) (Payload, error) {
	if len(kv)%2 != 0 {
		return Payload{}, fmt.Errorf("%w: data must be a list of key/value pairs, got %d items", ErrInvalidArgument, len(kv))
	}
	if len(kv) == 0 {
		return Payload{}, nil
	}
	data := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return Payload{}, fmt.Errorf("%w: key at position %d is %T, want string", ErrInvalidArgument, i, kv[i])
		}
		data[key] = kv[i+1]
	}
	return Payload{data: data}, nil
}

// Get returns the value stored under key.
func (p Payload) Get(key string) (any, bool) {
	v, ok := p.data[key]
	return v, ok
}

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p.data[key]
	return ok
}

// Len returns the number of keys.
func (p Payload) Len() int {
	return len(p.data)
}

// Keys returns the keys in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p.data))
	for k := range p.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying mapping. Mutating it does not affect p.
func (p Payload) Map() map[string]any {
	out := make(map[string]any, len(p.data))
	for k, v := range p.data {
		out[k] = v
	}
	return out
}

// Value returns the value under key asserted to T. ok is false when the key is
// missing or holds a different type.
func Value[T any](p Payload, key string) (T, bool) {
	var zero T
	raw, ok := p.data[key]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
