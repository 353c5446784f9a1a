// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package echo

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ManuGH/fluxion/internal/envelope"
	xglog "github.com/ManuGH/fluxion/internal/log"
	"github.com/ManuGH/fluxion/internal/metrics"
)

// AuditKey is the registry key of the audit view.
const AuditKey = "echo.audit"

// Counts is a snapshot of what an AuditView has seen.
type Counts struct {
	Reactions         int64 `json:"reactions"`
	ActionErrors      int64 `json:"actionErrors"`
	StoreChangeErrors int64 `json:"storeChangeErrors"`
}

// AuditView logs every reaction and error published on the store channel.
type AuditView struct {
	logger zerolog.Logger

	reactions         atomic.Int64
	actionErrors      atomic.Int64
	storeChangeErrors atomic.Int64
}

// NewAuditView creates an audit view logging through logger.
func NewAuditView(logger zerolog.Logger) *AuditView {
	return &AuditView{logger: logger.With().Str(xglog.FieldComponent, "audit").Logger()}
}

// ListenerKey implements dispatcher.Keyed.
func (v *AuditView) ListenerKey() string { return AuditKey }

func (v *AuditView) OnReact(ctx context.Context, r envelope.Reaction) {
	v.reactions.Add(1)
	metrics.IncAuditEnvelope(r.Kind().String())
	logger := xglog.WithContext(ctx, v.logger)
	logger.Info().
		Str(xglog.FieldEvent, "audit.reaction").
		Str(xglog.FieldTag, r.Tag()).
		Str(xglog.FieldEnvelopeID, r.ID()).
		Strs("keys", r.Payload().Keys()).
		Msg("reaction")
}

func (v *AuditView) OnActionError(ctx context.Context, e envelope.ActionError) {
	v.actionErrors.Add(1)
	metrics.IncAuditEnvelope(e.Kind().String())
	logger := xglog.WithContext(ctx, v.logger)
	logger.Warn().
		Err(e.Cause()).
		Str(xglog.FieldEvent, "audit.action_error").
		Str(xglog.FieldTag, e.Tag()).
		Str(xglog.FieldEnvelopeID, e.ID()).
		Msg("action error")
}

func (v *AuditView) OnStoreChangedError(ctx context.Context, e envelope.StoreChangeError) {
	v.storeChangeErrors.Add(1)
	metrics.IncAuditEnvelope(e.Kind().String())
	logger := xglog.WithContext(ctx, v.logger)
	logger.Warn().
		Err(e.Cause()).
		Str(xglog.FieldEvent, "audit.store_change_error").
		Str(xglog.FieldTag, e.Tag()).
		Str(xglog.FieldEnvelopeID, e.ID()).
		Msg("store change error")
}

// Counts returns how many envelopes of each kind the view has received.
func (v *AuditView) Counts() Counts {
	return Counts{
		Reactions:         v.reactions.Load(),
		ActionErrors:      v.actionErrors.Load(),
		StoreChangeErrors: v.storeChangeErrors.Load(),
	}
}
