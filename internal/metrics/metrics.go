package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	recommendations *prometheus.CounterVec
	weatherFailures *prometheus.CounterVec
	rulesReloads    *prometheus.CounterVec
	chatRequests    *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by response status.",
		}, []string{"status"}),
		weatherFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "weather_fetch_failures_total",
			Help:      "Failed weather lookups by provider.",
		}, []string{"provider"}),
		rulesReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "rules_reload_total",
			Help:      "Crop rule reloads by result.",
		}, []string{"result"}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "chat_requests_total",
			Help:      "Chat assistant requests by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.recommendations,
		m.weatherFailures,
		m.rulesReloads,
		m.chatRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Recommendation(status string) {
	if m == nil {
		return
	}
	m.recommendations.WithLabelValues(status).Inc()
}

func (m *Metrics) WeatherFailure(provider string) {
	if m == nil {
		return
	}
	m.weatherFailures.WithLabelValues(provider).Inc()
}

func (m *Metrics) RulesReload(err error) {
	if m == nil {
		return
	}
	m.rulesReloads.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ChatRequest(err error) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
