// Package telemetry holds the Prometheus collectors for the civic server.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple servers never collide.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	votes           *prometheus.CounterVec
	adapterRequests *prometheus.CounterVec
	rsvps           *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tableRows       *prometheus.GaugeVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civic_votes_total",
			Help: "Votes submitted, by item kind and outcome",
		}, []string{"kind", "outcome"}),
		adapterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civic_adapter_requests_total",
			Help: "External adapter calls, by adapter and whether live or fallback data was served",
		}, []string{"adapter", "source"}),
		rsvps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civic_rsvps_total",
			Help: "RSVPs, by resulting status",
		}, []string{"status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civic_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		tableRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "civic_store_rows",
			Help: "Rows held in each in-memory table",
		}, []string{"table"}),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Vote counts a poll or feedback vote attempt
func (m *Metrics) Vote(kind, outcome string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(kind, outcome).Inc()
}

// AdapterCall counts an adapter result by its source (live or fallback)
func (m *Metrics) AdapterCall(adapter, source string) {
	if m == nil {
		return
	}
	m.adapterRequests.WithLabelValues(adapter, source).Inc()
}

// RSVP counts an RSVP by the status it ended up with
func (m *Metrics) RSVP(status string) {
	if m == nil {
		return
	}
	m.rsvps.WithLabelValues(status).Inc()
}

// ObserveRequest records one handled HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// SetTableRows publishes the size of one table
func (m *Metrics) SetTableRows(table string, n int) {
	if m == nil {
		return
	}
	m.tableRows.WithLabelValues(table).Set(float64(n))
}
