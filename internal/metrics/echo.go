// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Echo outcomes.
const (
	EchoResultReacted  = "reacted"
	EchoResultRejected = "rejected"
	EchoResultFailed   = "failed"
)

var (
	EchoActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxion_echo_actions_total",
		Help: "Actions handled by the echo store by result (reacted, rejected, failed)",
	}, []string{"result"})

	AuditEnvelopesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxion_audit_envelopes_total",
		Help: "Envelopes observed by the audit view by kind",
	}, []string{"kind"})
)

// IncEchoAction records the outcome of one echoed action.
func IncEchoAction(result string) {
	EchoActionsTotal.WithLabelValues(result).Inc()
}

// IncAuditEnvelope records an envelope seen by the audit view.
func IncAuditEnvelope(kind string) {
	AuditEnvelopesTotal.WithLabelValues(kind).Inc()
}
