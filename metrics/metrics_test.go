package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("/intelligent/search", "200", 0.1)
	m.ObserveSession("search", "complete", 5, 2)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveUpstream("/intelligent/search", "200", 0.25)
	m.ObserveSession("search", "budget", 10, 3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"intelx_upstream_requests_total",
		"intelx_search_sessions_total",
		`family="search"`,
		`outcome="budget"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
