// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fluxion/internal/bus"
	"github.com/ManuGH/fluxion/internal/envelope"
)

// recorder collects callback invocations for one listener.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type userStore struct{ rec *recorder }

func (s *userStore) OnAction(_ context.Context, a envelope.Action) { s.rec.record("action:" + a.Tag()) }

type userScreen struct{ rec *recorder }

func (v *userScreen) OnReact(_ context.Context, r envelope.Reaction) {
	v.rec.record("react:" + r.Tag())
}
func (v *userScreen) OnActionError(_ context.Context, e envelope.ActionError) {
	v.rec.record("action_error:" + e.Tag())
}
func (v *userScreen) OnStoreChangedError(_ context.Context, e envelope.StoreChangeError) {
	v.rec.record("store_error:" + e.Tag())
}

// dualRole is both a store and a view.
type dualRole struct {
	userStore
	userScreen
}

type keyedScreen struct {
	userScreen
	key string
}

func (k *keyedScreen) ListenerKey() string { return k.key }

func newTestDispatcher() (*Dispatcher, *bus.Bus) {
	b := bus.New(bus.WithLogger(zerolog.Nop()))
	return New(b, WithLogger(zerolog.Nop())), b
}

func action(t *testing.T, tag string) envelope.Action {
	t.Helper()
	a, err := envelope.NewAction(tag)
	require.NoError(t, err)
	return a
}

func reaction(t *testing.T, tag string) envelope.Reaction {
	t.Helper()
	r, err := envelope.NewReaction(tag)
	require.NoError(t, err)
	return r
}

func TestRegisterActionHandlerTwiceDeliversOnce(t *testing.T) {
	d, b := newTestDispatcher()
	rec := &recorder{}
	store := &userStore{rec: rec}

	require.NoError(t, d.RegisterActionHandler(store))
	require.NoError(t, d.RegisterActionHandler(store))
	require.NoError(t, d.RegisterActionHandler(&userStore{rec: rec}))

	assert.Equal(t, 1, b.LenKind(envelope.KindAction))
	d.PublishAction(context.Background(), action(t, "LOAD"))
	assert.Equal(t, []string{"action:LOAD"}, rec.snapshot())
}

func TestRegisterReactionViewOccupiesThreeSlots(t *testing.T) {
	d, b := newTestDispatcher()
	view := &userScreen{rec: &recorder{}}

	require.NoError(t, d.RegisterReactionView(view))
	require.NoError(t, d.RegisterReactionView(view))

	snap := d.Snapshot()
	assert.Equal(t, []string{"dispatcher.userScreen_error"}, snap.Action)
	assert.Equal(t, []string{"dispatcher.userScreen", "dispatcher.userScreen_error"}, snap.Store)
	assert.Equal(t, 3, b.Len())
	assert.True(t, d.IsRegistered(TableStore, "dispatcher.userScreen"))
	assert.True(t, d.IsRegistered(TableAction, "dispatcher.userScreen_error"))
	assert.False(t, d.IsRegistered(TableAction, "dispatcher.userScreen"))
}

func TestReactionViewReceivesEveryViewChannel(t *testing.T) {
	d, _ := newTestDispatcher()
	rec := &recorder{}
	require.NoError(t, d.RegisterReactionView(&userScreen{rec: rec}))

	ctx := context.Background()
	d.PublishAction(ctx, action(t, "IGNORED"))
	d.PublishReaction(ctx, reaction(t, "USERS"))
	d.PublishActionError(ctx, envelope.NewActionError("LOAD", errors.New("offline")))
	d.PublishStoreChangeError(ctx, envelope.NewStoreChangeError("SAVE", errors.New("conflict")))

	assert.Equal(t, []string{"react:USERS", "action_error:LOAD", "store_error:SAVE"}, rec.snapshot())
}

func TestActionHandlerOnlySeesActions(t *testing.T) {
	d, _ := newTestDispatcher()
	rec := &recorder{}
	require.NoError(t, d.RegisterActionHandler(&userStore{rec: rec}))

	ctx := context.Background()
	d.PublishReaction(ctx, reaction(t, "USERS"))
	d.PublishActionError(ctx, envelope.NewActionError("LOAD", errors.New("offline")))
	d.PublishStoreChangeError(ctx, envelope.NewStoreChangeError("SAVE", errors.New("conflict")))
	assert.Empty(t, rec.snapshot())

	d.PublishAction(ctx, action(t, "LOAD"))
	assert.Equal(t, []string{"action:LOAD"}, rec.snapshot())
}

func TestStoreAndViewScenario(t *testing.T) {
	d, _ := newTestDispatcher()
	storeRec, viewRec := &recorder{}, &recorder{}
	store := &userStore{rec: storeRec}
	view := &userScreen{rec: viewRec}

	require.NoError(t, d.RegisterActionHandler(store))
	require.NoError(t, d.RegisterReactionView(view))

	ctx := context.Background()
	d.PublishAction(ctx, action(t, "GET_USERS"))
	assert.Equal(t, []string{"action:GET_USERS"}, storeRec.snapshot())
	assert.Empty(t, viewRec.snapshot())

	d.PublishReaction(ctx, reaction(t, "GET_USERS"))
	assert.Equal(t, []string{"action:GET_USERS"}, storeRec.snapshot())
	assert.Equal(t, []string{"react:GET_USERS"}, viewRec.snapshot())

	d.Unregister(view)
	d.PublishReaction(ctx, reaction(t, "GET_USERS"))
	assert.Equal(t, []string{"action:GET_USERS"}, storeRec.snapshot())
	assert.Equal(t, []string{"react:GET_USERS"}, viewRec.snapshot())
}

func TestDualRoleListenerHasIndependentSlots(t *testing.T) {
	d, _ := newTestDispatcher()
	rec := &recorder{}
	both := &dualRole{userStore: userStore{rec: rec}, userScreen: userScreen{rec: rec}}

	require.NoError(t, d.RegisterActionHandler(both))
	require.NoError(t, d.RegisterReactionView(both))
	assert.Equal(t, []string{"dispatcher.dualRole", "dispatcher.dualRole_error"}, d.Snapshot().Action)

	d.Unregister(both)
	ctx := context.Background()
	d.PublishAction(ctx, action(t, "STILL_HANDLED"))
	d.PublishReaction(ctx, reaction(t, "NOT_DELIVERED"))
	assert.Equal(t, []string{"action:STILL_HANDLED"}, rec.snapshot())

	d.UnregisterActionHandler(both)
	d.PublishAction(ctx, action(t, "GONE"))
	assert.Equal(t, []string{"action:STILL_HANDLED"}, rec.snapshot())
}

func TestKeyedListenersRegisterSideBySide(t *testing.T) {
	d, _ := newTestDispatcher()
	recA, recB := &recorder{}, &recorder{}
	a := &keyedScreen{userScreen: userScreen{rec: recA}, key: "tab-a"}
	b := &keyedScreen{userScreen: userScreen{rec: recB}, key: "tab-b"}

	require.NoError(t, d.RegisterReactionView(a))
	require.NoError(t, d.RegisterReactionView(b))
	d.PublishReaction(context.Background(), reaction(t, "R"))

	assert.Equal(t, []string{"react:R"}, recA.snapshot())
	assert.Equal(t, []string{"react:R"}, recB.snapshot())
}

func TestUnregisterIsNoOpWhenAbsent(t *testing.T) {
	d, b := newTestDispatcher()
	view := &userScreen{rec: &recorder{}}

	d.Unregister(view)
	d.UnregisterActionHandler(&userStore{})
	d.Unregister(nil)
	d.UnregisterActionHandler(nil)

	require.NoError(t, d.RegisterReactionView(view))
	d.Unregister(view)
	d.Unregister(view)
	assert.False(t, b.HasObservers())
	assert.Empty(t, d.Snapshot().Store)
}

func TestReRegisterAfterUnregister(t *testing.T) {
	d, _ := newTestDispatcher()
	rec := &recorder{}
	view := &userScreen{rec: rec}

	require.NoError(t, d.RegisterReactionView(view))
	d.Unregister(view)
	require.NoError(t, d.RegisterReactionView(view))

	d.PublishReaction(context.Background(), reaction(t, "BACK"))
	assert.Equal(t, []string{"react:BACK"}, rec.snapshot())
}

func TestUnregisterAllSilencesEverything(t *testing.T) {
	d, b := newTestDispatcher()
	rec := &recorder{}
	require.NoError(t, d.RegisterActionHandler(&userStore{rec: rec}))
	require.NoError(t, d.RegisterReactionView(&userScreen{rec: rec}))
	require.True(t, d.HasObservers())

	d.UnregisterAll()
	d.UnregisterAll()

	assert.False(t, d.HasObservers())
	assert.Zero(t, b.Len())
	assert.Equal(t, Snapshot{Action: []string{}, Store: []string{}}, d.Snapshot())

	ctx := context.Background()
	d.PublishAction(ctx, action(t, "A"))
	d.PublishReaction(ctx, reaction(t, "R"))
	d.PublishActionError(ctx, envelope.NewActionError("A", nil))
	d.PublishStoreChangeError(ctx, envelope.NewStoreChangeError("S", nil))
	assert.Empty(t, rec.snapshot())
}

func TestRegisterRejectsNilListener(t *testing.T) {
	d, _ := newTestDispatcher()
	require.ErrorIs(t, d.RegisterActionHandler(nil), ErrNilListener)
	require.ErrorIs(t, d.RegisterReactionView(nil), ErrNilListener)
}

func TestTypedNilListenerIsRejected(t *testing.T) {
	d, b := newTestDispatcher()
	var screen *keyedScreen
	var store *userStore

	require.ErrorIs(t, d.RegisterReactionView(screen), ErrNilListener)
	require.ErrorIs(t, d.RegisterActionHandler(store), ErrNilListener)
	assert.NotPanics(t, func() {
		d.Unregister(screen)
		d.UnregisterActionHandler(store)
	})
	assert.False(t, b.HasObservers())
}

func TestConcurrentRegistrationCreatesOneSubscription(t *testing.T) {
	d, b := newTestDispatcher()
	rec := &recorder{}

	const workers = 64
	start := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs <- d.RegisterActionHandler(&userStore{rec: rec})
			errs <- d.RegisterReactionView(&userScreen{rec: rec})
		}()
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, b.LenKind(envelope.KindAction))
	assert.Equal(t, 1, b.LenKind(envelope.KindReaction))
	assert.Equal(t, 1, b.LenKind(envelope.KindActionError))
	assert.Equal(t, 1, b.LenKind(envelope.KindStoreChangeError))

	d.PublishAction(context.Background(), action(t, "ONCE"))
	assert.Equal(t, []string{"action:ONCE"}, rec.snapshot())
}

func TestListenerMayUnregisterItselfDuringDelivery(t *testing.T) {
	d, _ := newTestDispatcher()
	rec := &recorder{}
	self := &selfRemovingStore{d: d, rec: rec}
	require.NoError(t, d.RegisterActionHandler(self))

	ctx := context.Background()
	d.PublishAction(ctx, action(t, "FIRST"))
	d.PublishAction(ctx, action(t, "SECOND"))
	assert.Equal(t, []string{"action:FIRST"}, rec.snapshot())
}

type selfRemovingStore struct {
	d   *Dispatcher
	rec *recorder
}

func (s *selfRemovingStore) OnAction(_ context.Context, a envelope.Action) {
	s.rec.record("action:" + a.Tag())
	s.d.UnregisterActionHandler(s)
}
