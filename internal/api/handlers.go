// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/ManuGH/fluxion/internal/dispatcher"
	"github.com/ManuGH/fluxion/internal/envelope"
	xglog "github.com/ManuGH/fluxion/internal/log"
)

// RegistryResponse is returned by GET /api/v1/registry.
type RegistryResponse struct {
	dispatcher.Snapshot
	// Subscriptions counts live bus subscriptions per envelope kind.
	Subscriptions map[string]int `json:"subscriptions"`
}

// PublishRequest is the body of POST /api/v1/actions.
type PublishRequest struct {
	Tag  string         `json:"tag"`
	Data map[string]any `json:"data,omitempty"`
}

// PublishResponse acknowledges a delivered action.
type PublishResponse struct {
	ID  string `json:"id"`
	Tag string `json:"tag"`
}

func (s *Server) handleRegistry(w http.ResponseWriter, _ *http.Request) {
	b := s.dispatcher.Bus()
	subs := make(map[string]int, len(envelope.Kinds))
	for _, k := range envelope.Kinds {
		subs[k.String()] = b.LenKind(k)
	}
	writeJSON(w, http.StatusOK, RegistryResponse{
		Snapshot:      s.dispatcher.Snapshot(),
		Subscriptions: subs,
	})
}

// handlePublishAction builds an Action from the request and delivers it
// synchronously. If another delivery is in flight the request waits behind
// it; the response is written after every listener returned, unless the
// client went away first.
func (s *Server) handlePublishAction(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_body", "trailing data after JSON object")
		return
	}

	action, err := newAction(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_action", err.Error())
		return
	}

	ctx := r.Context()
	logger := xglog.WithContext(ctx, s.logger)
	logger.Debug().
		Str(xglog.FieldEvent, "api.publish_action").
		Str(xglog.FieldTag, action.Tag()).
		Str(xglog.FieldEnvelopeID, action.ID()).
		Int("keys", action.Payload().Len()).
		Msg("publishing action")

	s.dispatcher.PublishAction(ctx, action)
	writeJSON(w, http.StatusAccepted, PublishResponse{ID: action.ID(), Tag: action.Tag()})
}

func newAction(req PublishRequest) (envelope.Action, error) {
	keys := make([]string, 0, len(req.Data))
	for k := range req.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, req.Data[k])
	}
	a, err := envelope.NewAction(req.Tag, kv...)
	if err != nil {
		return envelope.Action{}, fmt.Errorf("build action: %w", err)
	}
	return a, nil
}
