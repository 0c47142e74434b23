// Package observability bundles the process-wide metrics and tracing
// plumbing shared by the lambdas and the HTTP API.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the storage core and the
// real-time layer.
type Metrics struct {
	registry *prometheus.Registry

	storeOpDuration *prometheus.HistogramVec
	deliveries      *prometheus.CounterVec
	broadcastSize   prometheus.Histogram
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		storeOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "workhub",
			Subsystem: "store",
			Name:      "op_duration_seconds",
			Help:      "Latency of keyed-store primitives.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workhub",
			Subsystem: "ws",
			Name:      "deliveries_total",
			Help:      "Per-connection delivery attempts by outcome.",
		}, []string{"outcome"}),
		broadcastSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "workhub",
			Subsystem: "ws",
			Name:      "broadcast_connections",
			Help:      "Connections resolved per broadcast.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
	}
	registry.MustRegister(m.storeOpDuration, m.deliveries, m.broadcastSize)
	return m
}

// ObserveStoreOp records the latency of one store primitive call.
func (m *Metrics) ObserveStoreOp(op string, d time.Duration) {
	m.storeOpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// Delivery outcomes.
const (
	DeliveryDelivered = "delivered"
	DeliveryGone      = "gone"
	DeliveryFailed    = "failed"
)

// CountDelivery records one per-connection delivery attempt.
func (m *Metrics) CountDelivery(outcome string) {
	m.deliveries.WithLabelValues(outcome).Inc()
}

// ObserveBroadcast records the fan-out width of one broadcast.
func (m *Metrics) ObserveBroadcast(connections int) {
	m.broadcastSize.Observe(float64(connections))
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
