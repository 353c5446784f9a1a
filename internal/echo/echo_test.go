// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package echo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fluxion/internal/dispatcher"
	"github.com/ManuGH/fluxion/internal/envelope"
	"github.com/ManuGH/fluxion/internal/fluxion"
)

// reactionSink records reactions and action errors next to the audit view.
type reactionSink struct {
	reactions    []envelope.Reaction
	actionErrors []envelope.ActionError
}

func (s *reactionSink) ListenerKey() string { return "test.sink" }
func (s *reactionSink) OnReact(_ context.Context, r envelope.Reaction) {
	s.reactions = append(s.reactions, r)
}
func (s *reactionSink) OnActionError(_ context.Context, e envelope.ActionError) {
	s.actionErrors = append(s.actionErrors, e)
}
func (s *reactionSink) OnStoreChangedError(context.Context, envelope.StoreChangeError) {}

func newWiring(t *testing.T, rejectTags ...string) (*dispatcher.Dispatcher, *Store, *AuditView, *reactionSink) {
	t.Helper()
	rt := fluxion.New(fluxion.WithLogger(zerolog.Nop()))
	t.Cleanup(rt.Shutdown)

	d := rt.Dispatcher()
	s := NewStore(d, rejectTags)
	require.NoError(t, s.Register())

	audit := NewAuditView(zerolog.Nop())
	require.NoError(t, d.RegisterReactionView(audit))

	sink := &reactionSink{}
	require.NoError(t, d.RegisterReactionView(sink))
	return d, s, audit, sink
}

func TestStoreEchoesPayload(t *testing.T) {
	d, _, audit, sink := newWiring(t)

	a, err := envelope.NewAction("GET_USERS", "page", 2, "filter", "active")
	require.NoError(t, err)
	d.PublishAction(context.Background(), a)

	require.Len(t, sink.reactions, 1)
	r := sink.reactions[0]
	assert.Equal(t, "GET_USERS", r.Tag())
	assert.NotEqual(t, a.ID(), r.ID())
	if diff := cmp.Diff(a.Payload().Map(), r.Payload().Map()); diff != "" {
		t.Errorf("payload mismatch (-action +reaction):\n%s", diff)
	}
	assert.Equal(t, Counts{Reactions: 1}, audit.Counts())
}

func TestStoreRejectsConfiguredTags(t *testing.T) {
	d, _, audit, sink := newWiring(t, "DELETE_ALL")

	a, err := envelope.NewAction("DELETE_ALL")
	require.NoError(t, err)
	d.PublishAction(context.Background(), a)

	assert.Empty(t, sink.reactions)
	require.Len(t, sink.actionErrors, 1)
	assert.Equal(t, "DELETE_ALL", sink.actionErrors[0].Tag())
	assert.True(t, errors.Is(sink.actionErrors[0], ErrRejected))
	assert.Equal(t, Counts{ActionErrors: 1}, audit.Counts())
}

func TestStoreSetRejectTags(t *testing.T) {
	d, s, audit, _ := newWiring(t)
	a, err := envelope.NewAction("PING")
	require.NoError(t, err)

	d.PublishAction(context.Background(), a)
	s.SetRejectTags([]string{"PING"})
	d.PublishAction(context.Background(), a)
	s.SetRejectTags(nil)
	d.PublishAction(context.Background(), a)

	assert.Equal(t, Counts{Reactions: 2, ActionErrors: 1}, audit.Counts())
}

func TestListenerKeys(t *testing.T) {
	d, s, audit, _ := newWiring(t)

	assert.Equal(t, StoreKey, dispatcher.ListenerKey(s))
	assert.Equal(t, AuditKey, dispatcher.ListenerKey(audit))

	snap := d.Snapshot()
	assert.Contains(t, snap.Action, StoreKey)
	assert.Contains(t, snap.Store, AuditKey)
}

func TestAuditViewCountsStoreChangeErrors(t *testing.T) {
	d, s, audit, _ := newWiring(t)

	s.PostChangeError(context.Background(), "SAVE", errors.New("disk full"))
	d.PublishStoreChangeError(context.Background(), envelope.NewStoreChangeError("", nil))

	assert.Equal(t, Counts{StoreChangeErrors: 2}, audit.Counts())
}
