// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BusPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxion_bus_published_total",
		Help: "Total number of envelopes published on the bus by kind",
	}, []string{"kind"})

	BusDeliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxion_bus_delivered_total",
		Help: "Total number of envelope deliveries to subscriber callbacks by kind",
	}, []string{"kind"})

	BusDeferredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxion_bus_deferred_total",
		Help: "Total number of publishes queued behind an in-progress delivery (re-entrant or concurrent)",
	})

	BusSubscriptions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fluxion_bus_subscriptions",
		Help: "Number of live bus subscriptions by kind",
	}, []string{"kind"})

	BusDeliveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fluxion_bus_delivery_duration_seconds",
		Help:    "Time spent inside a single subscriber callback",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"kind"})

	BusSlowDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxion_bus_slow_deliveries_total",
		Help: "Total number of subscriber callbacks exceeding the slow delivery threshold",
	}, []string{"kind"})
)

func kindLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}

// IncBusPublished records a published envelope.
func IncBusPublished(kind string) {
	BusPublishedTotal.WithLabelValues(kindLabel(kind)).Inc()
}

// ObserveBusDelivery records one callback invocation and its duration.
func ObserveBusDelivery(kind string, d time.Duration) {
	k := kindLabel(kind)
	BusDeliveredTotal.WithLabelValues(k).Inc()
	BusDeliveryDuration.WithLabelValues(k).Observe(d.Seconds())
}

// IncBusSlowDelivery records a callback that exceeded the configured threshold.
func IncBusSlowDelivery(kind string) {
	BusSlowDeliveriesTotal.WithLabelValues(kindLabel(kind)).Inc()
}

// IncBusDeferred records a publish that was queued for the active emitter.
func IncBusDeferred() {
	BusDeferredTotal.Inc()
}

// SetBusSubscriptions sets the live subscription gauge for a kind.
func SetBusSubscriptions(kind string, n int) {
	BusSubscriptions.WithLabelValues(kindLabel(kind)).Set(float64(n))
}
