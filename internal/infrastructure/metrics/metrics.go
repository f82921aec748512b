package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests and multiple servers do not collide on
// the global default one.
type Metrics struct {
	reg       *prometheus.Registry
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	interests *prometheus.CounterVec
	deals     prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		interests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interest_submissions_total",
			Help: "Interest submissions by outcome.",
		}, []string{"outcome"}),
		deals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deals_created_total",
			Help: "Deals created by brokers.",
		}),
	}
	reg.MustRegister(
		m.requests, m.duration, m.interests, m.deals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InterestSubmitted records one outcome: created, updated or the error kind.
func (m *Metrics) InterestSubmitted(outcome string) {
	m.interests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DealCreated() { m.deals.Inc() }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
