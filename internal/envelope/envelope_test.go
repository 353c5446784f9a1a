// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package envelope

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string
}

func TestNewReactionBindsTagAndPayload(t *testing.T) {
	users := []user{{Name: "ada"}, {Name: "linus"}}

	r, err := NewReaction("GET_USERS", "users", users)
	require.NoError(t, err)

	assert.Equal(t, "GET_USERS", r.Tag())
	assert.Equal(t, KindReaction, r.Kind())
	assert.NotEmpty(t, r.ID())
	if diff := cmp.Diff(map[string]any{"users": users}, r.Payload().Map()); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	got, ok := Value[[]user](r.Payload(), "users")
	require.True(t, ok)
	assert.Equal(t, users, got)
}

func TestNewReactionRejectsEmptyTag(t *testing.T) {
	_, err := NewReaction("")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewReactionRejectsOddPairs(t *testing.T) {
	_, err := NewReaction("TAG", "a", 1, "b")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "3 items")
}

func TestNewReactionRejectsNonStringKey(t *testing.T) {
	_, err := NewReaction("TAG", 1, "a")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewReactionLastValueWins(t *testing.T) {
	r, err := NewReaction("TAG", "a", 1, "a", 2)
	require.NoError(t, err)

	v, ok := Value[int](r.Payload(), "a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, r.Payload().Len())
}

func TestNewReactionWithoutData(t *testing.T) {
	r, err := NewReaction("PING")
	require.NoError(t, err)
	assert.Zero(t, r.Payload().Len())
	assert.Empty(t, r.Payload().Keys())
}

func TestNewActionValidation(t *testing.T) {
	a, err := NewAction("LOAD", "page", 2)
	require.NoError(t, err)
	assert.Equal(t, KindAction, a.Kind())
	assert.True(t, a.Payload().Has("page"))

	_, err = NewAction("")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewAction("LOAD", "page")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPayloadIsImmutable(t *testing.T) {
	r, err := NewReaction("TAG", "k", "v")
	require.NoError(t, err)

	m := r.Payload().Map()
	m["k"] = "changed"
	m["extra"] = true

	v, _ := r.Payload().Get("k")
	assert.Equal(t, "v", v)
	assert.False(t, r.Payload().Has("extra"))
}

func TestPayloadKeysSorted(t *testing.T) {
	r, err := NewReaction("TAG", "b", 1, "c", 2, "a", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, r.Payload().Keys())
}

func TestValueTypeMismatch(t *testing.T) {
	r, err := NewReaction("TAG", "n", "not-a-number")
	require.NoError(t, err)

	_, ok := Value[int](r.Payload(), "n")
	assert.False(t, ok)
	_, ok = Value[int](r.Payload(), "missing")
	assert.False(t, ok)
}

func TestErrorEnvelopesWrapCause(t *testing.T) {
	cause := errors.New("disk full")

	ae := NewActionError("SAVE", cause)
	assert.Equal(t, KindActionError, ae.Kind())
	assert.Equal(t, "SAVE", ae.Tag())
	require.ErrorIs(t, ae, cause)
	assert.Contains(t, ae.Error(), "disk full")

	se := NewStoreChangeError("SAVE", cause)
	assert.Equal(t, KindStoreChangeError, se.Kind())
	require.ErrorIs(t, se, cause)
	assert.Same(t, cause, se.Cause())
}

func TestErrorEnvelopeDefaults(t *testing.T) {
	ae := NewActionError("", nil)
	assert.Equal(t, "action_error", ae.Tag())
	require.ErrorIs(t, ae.Cause(), ErrUnknownCause)

	se := NewStoreChangeError("", nil)
	assert.Equal(t, "store_change_error", se.Tag())
	require.ErrorIs(t, se.Cause(), ErrUnknownCause)
}

func TestEnvelopeIDsAreUnique(t *testing.T) {
	a, err := NewAction("X")
	require.NoError(t, err)
	b, err := NewAction("X")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestKindString(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, k.Valid())
		assert.NotEqual(t, "unknown", k.String())
	}
	assert.False(t, Kind(0).Valid())
	assert.Equal(t, "unknown", Kind(99).String())
}
