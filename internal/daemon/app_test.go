// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fluxion/internal/config"
)

func TestApp_RequiresManager(t *testing.T) {
	app := NewApp(testLogger(), nil, nil)
	require.ErrorIs(t, app.Run(context.Background()), ErrMissingManager)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewApp(testLogger(), mgr, nil).Run(ctx) }()

	waitForAddr(t, mgr)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_AppliesReloadedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("echo:\n  rejectTags: [A]\n"), 0o600))

	loader := config.NewLoader(path, "test")
	initial, err := loader.Load()
	require.NoError(t, err)
	holder := config.NewHolder(initial, loader)

	mgr, err := NewManager(testServerConfig(), Deps{Logger: testLogger(), APIHandler: okHandler()})
	require.NoError(t, err)

	applied := make(chan config.AppConfig, 4)
	app := NewApp(testLogger(), mgr, holder, ConfigApplierFunc(func(cfg config.AppConfig) {
		applied <- cfg
	}))
	app.reloadSignal = nil

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	waitForAddr(t, mgr)

	require.NoError(t, os.WriteFile(path, []byte("echo:\n  rejectTags: [B]\n"), 0o600))
	select {
	case cfg := <-applied:
		assert.Equal(t, []string{"B"}, cfg.Echo.RejectTags)
	case <-time.After(5 * time.Second):
		t.Fatal("reloaded config was not applied")
	}

	cancel()
	require.NoError(t, <-done)
}
