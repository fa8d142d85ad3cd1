package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Recommendation("success")
	m.Recommendation("info")
	m.WeatherFailure("openweathermap")
	m.RulesReload(nil)
	m.ChatRequest(errors.New("boom"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	out := string(body)
	for _, want := range []string{
		`crop_advisor_recommendations_total{status="success"} 1`,
		`crop_advisor_recommendations_total{status="info"} 1`,
		`crop_advisor_weather_fetch_failures_total{provider="openweathermap"} 1`,
		`crop_advisor_rules_reload_total{result="ok"} 1`,
		`crop_advisor_chat_requests_total{result="error"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Recommendation("success")
	m.WeatherFailure("x")
	m.RulesReload(nil)
	m.ChatRequest(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil metrics handler, got %d", rec.Code)
	}
}
