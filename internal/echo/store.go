// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package echo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ManuGH/fluxion/internal/dispatcher"
	"github.com/ManuGH/fluxion/internal/envelope"
	xglog "github.com/ManuGH/fluxion/internal/log"
	"github.com/ManuGH/fluxion/internal/metrics"
	"github.com/ManuGH/fluxion/internal/store"
)

// ErrRejected is the cause attached to action errors for rejected tags.
var ErrRejected = errors.New("action rejected")

// StoreKey is the registry key of the echo store.
const StoreKey = "echo.store"

// Store echoes each action back as a reaction with the same tag and payload.
type Store struct {
	*store.Base

	mu     sync.RWMutex
	reject map[string]struct{}
	logger zerolog.Logger
}

// NewStore creates an echo store bound to d. Actions whose tag is in
// rejectTags are answered with an ActionError instead.
func NewStore(d *dispatcher.Dispatcher, rejectTags []string) *Store {
	s := &Store{logger: xglog.WithComponent("echo")}
	s.Base = store.New(d, s)
	s.SetRejectTags(rejectTags)
	return s
}

// ListenerKey implements dispatcher.Keyed.
func (s *Store) ListenerKey() string { return StoreKey }

// SetRejectTags replaces the rejected tag set.
func (s *Store) SetRejectTags(tags []string) {
	reject := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		reject[t] = struct{}{}
	}
	s.mu.Lock()
	s.reject = reject
	s.mu.Unlock()
}

func (s *Store) rejects(tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reject[tag]
	return ok
}

// OnAction implements dispatcher.ActionHandler.
func (s *Store) OnAction(ctx context.Context, a envelope.Action) {
	logger := xglog.WithContext(ctx, s.logger).With().
		Str(xglog.FieldTag, a.Tag()).
		Str(xglog.FieldEnvelopeID, a.ID()).
		Logger()

	if s.rejects(a.Tag()) {
		logger.Debug().Str(xglog.FieldEvent, "echo.rejected").Msg("rejecting action")
		metrics.IncEchoAction(metrics.EchoResultRejected)
		s.PostActionError(ctx, a.Tag(), fmt.Errorf("%w: %s", ErrRejected, a.Tag()))
		return
	}

	p := a.Payload()
	kv := make([]any, 0, p.Len()*2)
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		kv = append(kv, k, v)
	}
	if err := s.PostReaction(ctx, a.Tag(), kv...); err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "echo.failed").Msg("could not echo action")
		metrics.IncEchoAction(metrics.EchoResultFailed)
		s.PostChangeError(ctx, a.Tag(), err)
		return
	}
	metrics.IncEchoAction(metrics.EchoResultReacted)
}
