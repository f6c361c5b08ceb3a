// Package metrics holds the Prometheus collectors of the inventory service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all inventory metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Ledger metrics
	FieldUpdates      *prometheus.CounterVec
	OperationsWritten *prometheus.CounterVec
	ProductsInCatalog prometheus.Gauge

	// Persistence metrics
	Saves        *prometheus.CounterVec
	SaveDuration prometheus.Histogram
	Backups      *prometheus.CounterVec
}

// New creates the collectors under namespace ("inventory" when empty).
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "inventory"
	}
	registry := prometheus.NewRegistry()

	// Register standard Go metrics
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	m.FieldUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_updates_total",
			Help:      "Daily log field updates applied, by field",
		},
		[]string{"field"},
	)

	m.OperationsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_written_total",
			Help:      "Audit records written, by operation type",
		},
		[]string{"type"},
	)

	m.ProductsInCatalog = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products_in_catalog",
			Help:      "Number of products in the catalog",
		},
	)

	m.Saves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_saves_total",
			Help:      "Snapshot saves, by result",
		},
		[]string{"status"},
	)

	m.SaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_save_duration_seconds",
			Help:      "Snapshot save duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	m.Backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Scheduled backups written, by result",
		},
		[]string{"status"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.FieldUpdates,
		m.OperationsWritten,
		m.ProductsInCatalog,
		m.Saves,
		m.SaveDuration,
		m.Backups,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFieldUpdate records an applied field update and its audit record, if any.
func (m *Metrics) RecordFieldUpdate(field, opType string) {
	m.FieldUpdates.WithLabelValues(field).Inc()
	if opType != "" {
		m.OperationsWritten.WithLabelValues(opType).Inc()
	}
}

// SetCatalogSize sets the number of catalog products.
func (m *Metrics) SetCatalogSize(n int) {
	m.ProductsInCatalog.Set(float64(n))
}

// RecordSave records a snapshot save.
func (m *Metrics) RecordSave(success bool, duration time.Duration) {
	m.Saves.WithLabelValues(status(success)).Inc()
	m.SaveDuration.Observe(duration.Seconds())
}

// RecordBackup records a scheduled backup.
func (m *Metrics) RecordBackup(success bool) {
	m.Backups.WithLabelValues(status(success)).Inc()
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
