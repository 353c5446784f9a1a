// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fluxion

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/fluxion/internal/envelope"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func resetInstance(t *testing.T) {
	t.Helper()
	instanceMu.Lock()
	instance = nil
	instanceMu.Unlock()
	t.Cleanup(func() {
		instanceMu.Lock()
		instance = nil
		instanceMu.Unlock()
	})
}

type counterStore struct{ n int }

func (c *counterStore) OnAction(context.Context, envelope.Action) { c.n++ }

func TestRuntimeWiresDispatcherToBus(t *testing.T) {
	rt := New(WithLogger(zerolog.Nop()))
	assert.Same(t, rt.Bus(), rt.Dispatcher().Bus())

	s := &counterStore{}
	require.NoError(t, rt.Dispatcher().RegisterActionHandler(s))
	a, err := envelope.NewAction("PING")
	require.NoError(t, err)
	rt.Dispatcher().PublishAction(context.Background(), a)
	assert.Equal(t, 1, s.n)
}

func TestRuntimeShutdownCancelsEverything(t *testing.T) {
	rt := New(WithLogger(zerolog.Nop()))
	s := &counterStore{}
	require.NoError(t, rt.Dispatcher().RegisterActionHandler(s))
	direct := 0
	_, err := rt.Bus().Subscribe(envelope.KindAction, func(context.Context, envelope.Envelope) { direct++ })
	require.NoError(t, err)

	rt.Shutdown()
	rt.Shutdown()
	assert.False(t, rt.Bus().HasObservers())

	a, err := envelope.NewAction("PING")
	require.NoError(t, err)
	rt.Dispatcher().PublishAction(context.Background(), a)
	assert.Zero(t, s.n)
	assert.Zero(t, direct)
}

func TestRuntimeLogLinesCarryOneComponent(t *testing.T) {
	var buf bytes.Buffer
	rt := New(WithLogger(zerolog.New(&buf)))

	rt.Dispatcher().UnregisterAll()

	line, _, _ := strings.Cut(buf.String(), "\n")
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"component":`), line)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "dispatcher", entry["component"])
	assert.Equal(t, "dispatcher.unregistered_all", entry["event"])
}

func TestDefaultBeforeInit(t *testing.T) {
	resetInstance(t)
	_, err := Default()
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestShutdownWithoutInitIsNoOp(t *testing.T) {
	resetInstance(t)
	assert.NotPanics(t, Shutdown)
	_, err := Default()
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitReturnsSingleton(t *testing.T) {
	resetInstance(t)
	first := Init(WithLogger(zerolog.Nop()))
	second := Init()
	assert.Same(t, first, second)

	got, err := Default()
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestGlobalShutdownIsIdempotent(t *testing.T) {
	resetInstance(t)
	rt := Init(WithLogger(zerolog.Nop()))
	require.NoError(t, rt.Dispatcher().RegisterActionHandler(&counterStore{}))

	Shutdown()
	Shutdown()
	assert.False(t, rt.Bus().HasObservers())

	// The instance survives teardown and accepts new registrations.
	require.NoError(t, rt.Dispatcher().RegisterActionHandler(&counterStore{}))
	assert.True(t, rt.Bus().HasObservers())
}
