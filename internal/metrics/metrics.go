package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of the service on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	ReservationsCreated *prometheus.CounterVec
	StoreFallbacks      *prometheus.CounterVec
	ReservationsPruned  prometheus.Counter
	ReservationsStarted prometheus.Counter
	ReservationsSynced  prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		reg: reg,
		ReservationsCreated: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "marlett_reservations_created_total",
			Help: "Total number of reservations created.",
		}, []string{"variant"}),
		StoreFallbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "marlett_store_fallbacks_total",
			Help: "Total number of remote store calls served by the local store.",
		}, []string{"operation"}),
		ReservationsPruned: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "marlett_reservations_pruned_total",
			Help: "Total number of past reservations removed.",
		}),
		ReservationsStarted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "marlett_reservations_started_total",
			Help: "Total number of confirmed reservations moved to in-progress.",
		}),
		ReservationsSynced: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "marlett_reservations_synced_total",
			Help: "Total number of locally held reservations replayed to the remote store.",
		}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "marlett_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) Created(variant string) {
	if m == nil {
		return
	}
	m.ReservationsCreated.WithLabelValues(variant).Inc()
}

func (m *Metrics) Fallback(operation string) {
	if m == nil {
		return
	}
	m.StoreFallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) Pruned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReservationsPruned.Add(float64(n))
}

func (m *Metrics) Started(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReservationsStarted.Add(float64(n))
}

func (m *Metrics) Synced() {
	if m == nil {
		return
	}
	m.ReservationsSynced.Inc()
}

func (m *Metrics) Request(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
}
