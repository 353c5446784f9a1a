// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuildsAction(t *testing.T) {
	env, err := NewActionBuilder("GET_USERS").Put("page", 1).Put("page", 2).Build()
	require.NoError(t, err)

	a, ok := env.(Action)
	require.True(t, ok, "expected Action, got %T", env)
	v, ok := Value[int](a.Payload(), "page")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestBuilderBuildsReaction(t *testing.T) {
	b := NewReactionBuilder("USERS_LOADED").Put("count", 3)
	env, err := b.Build()
	require.NoError(t, err)
	require.IsType(t, Reaction{}, env)

	// Later Puts must not leak into an already built envelope.
	b.Put("late", true)
	assert.False(t, env.(Reaction).Payload().Has("late"))
}

func TestBuilderRejectsEmptyTag(t *testing.T) {
	_, err := NewReactionBuilder("").Build()
	require.ErrorIs(t, err, ErrInvalidArgument)
}
