package site

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request and page render counters. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	requests       *prom.CounterVec
	requestLatency *prom.HistogramVec
	renderDuration *prom.HistogramVec
	renderResults  *prom.CounterVec
	handler        http.Handler
}

// NewMetrics registers the site's collectors with reg, or a fresh registry
// when reg is nil.
func NewMetrics(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &Metrics{
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),
		requestLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "folio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prom.DefBuckets,
		}, []string{"route"}),
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "folio",
			Name:      "page_render_duration_seconds",
			Help:      "Time spent rendering a page",
			Buckets:   prom.DefBuckets,
		}, []string{"page"}),
		renderResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "page_renders_total",
			Help:      "Page renders by outcome",
		}, []string{"page", "result"}),
	}
	reg.MustRegister(m.requests, m.requestLatency, m.renderDuration, m.renderResults)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestLatency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObserveRender(page string, d time.Duration, success bool) {
	if m == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	m.renderDuration.WithLabelValues(page).Observe(d.Seconds())
	m.renderResults.WithLabelValues(page, res).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}
