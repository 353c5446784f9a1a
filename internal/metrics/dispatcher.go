// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration results.
const (
	RegistrationCreated   = "created"
	RegistrationDuplicate = "duplicate"
)

var (
	DispatcherRegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxion_dispatcher_registrations_total",
		Help: "Registration attempts by registry table and result (created, duplicate)",
	}, []string{"table", "result"})

	DispatcherUnregistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxion_dispatcher_unregistrations_total",
		Help: "Subscriptions cancelled through the dispatcher by registry table",
	}, []string{"table"})

	DispatcherRegistered = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fluxion_dispatcher_registered",
		Help: "Number of registered listener keys by registry table",
	}, []string{"table"})
)

// IncDispatcherRegistration records a registration attempt.
func IncDispatcherRegistration(table, result string) {
	DispatcherRegistrationsTotal.WithLabelValues(table, result).Inc()
}

// IncDispatcherUnregistration records a cancelled registration.
func IncDispatcherUnregistration(table string) {
	DispatcherUnregistrationsTotal.WithLabelValues(table).Inc()
}

// SetDispatcherRegistered sets the registered key gauge for a table.
func SetDispatcherRegistered(table string, n int) {
	DispatcherRegistered.WithLabelValues(table).Set(float64(n))
}
