// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedListener struct{}

type customKeyListener struct{ key string }

func (c customKeyListener) ListenerKey() string { return c.key }

func TestListenerKey(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "pointer", in: &namedListener{}, want: "dispatcher.namedListener"},
		{name: "value", in: namedListener{}, want: "dispatcher.namedListener"},
		{name: "explicit key", in: customKeyListener{key: "settings-screen"}, want: "settings-screen"},
		{name: "empty explicit key falls back", in: customKeyListener{}, want: "dispatcher.customKeyListener"},
		{name: "nil", in: nil, want: "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListenerKey(tt.in))
		})
	}
}
