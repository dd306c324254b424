// Package metrics provides Prometheus metrics for the trading controller and market feed.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "dionysus"

// Metrics holds every collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	// Market data
	EventsProcessed *prometheus.CounterVec
	EventsDropped   prometheus.Counter
	AppendErrors    *prometheus.CounterVec

	// Decisions and orders
	OrdersDecided   *prometheus.CounterVec
	OrdersSubmitted *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	DecideDuration  prometheus.Histogram

	// Ledger
	Capital       *prometheus.GaugeVec
	LockedCapital *prometheus.GaugeVec
	Balance       *prometheus.GaugeVec
	OpenPositions *prometheus.GaugeVec
	LastPrice     *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance with all collectors registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "events_processed_total",
			Help:      "Total number of market events processed by kind",
		}, []string{"kind"}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "events_dropped_total",
			Help:      "Total number of market events dropped by a full feed queue",
		}),
		AppendErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "append_errors_total",
			Help:      "Total number of samples the history source refused",
		}, []string{"token"}),

		OrdersDecided: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "orders_decided_total",
			Help:      "Total number of orders decided by token and side",
		}, []string{"token", "side"}),
		OrdersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "orders_submitted_total",
			Help:      "Total number of orders accepted by the trader",
		}, []string{"token", "side"}),
		OrdersRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "orders_rejected_total",
			Help:      "Total number of orders rejected by the trader",
		}, []string{"token", "side"}),
		DecideDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "decide_duration_seconds",
			Help:      "Time spent deciding on one order book",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),

		Capital: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "capital",
			Help:      "Free capital in the quote currency",
		}, []string{"token"}),
		LockedCapital: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "locked_capital",
			Help:      "Capital locked by working orders",
		}, []string{"token"}),
		Balance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "balance",
			Help:      "Held quantity of the base symbol",
		}, []string{"token"}),
		OpenPositions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "open_positions",
			Help:      "Number of positions held",
		}, []string{"token"}),
		LastPrice: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "last_price",
			Help:      "Last traded price reported by the ticker stream",
		}, []string{"token"}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLedger sets the ledger gauges of a token.
func (m *Metrics) RecordLedger(token string, capital, locked, balance float64, positions int) {
	m.Capital.WithLabelValues(token).Set(capital)
	m.LockedCapital.WithLabelValues(token).Set(locked)
	m.Balance.WithLabelValues(token).Set(balance)
	m.OpenPositions.WithLabelValues(token).Set(float64(positions))
}

// RecordSubmission counts a trader answer for one order.
func (m *Metrics) RecordSubmission(token, side string, err error) {
	if err != nil {
		m.OrdersRejected.WithLabelValues(token, side).Inc()

		return
	}

	m.OrdersSubmitted.WithLabelValues(token, side).Inc()
}
