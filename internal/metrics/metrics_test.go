package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_RecordAndScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, http.StatusOK, 25*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, http.StatusOK, 5*time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, http.StatusForbidden, time.Millisecond)
	c.RecordAuthEvent("signin")
	c.RecordGateDecision("forbidden")
	c.RecordProfileLoad("missing")

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 from scrape, got %d", rr.Code)
	}

	body := rr.Body.String()
	for _, want := range []string{
		`turnready_http_requests_total{method="GET",status_code="200"} 2`,
		`turnready_http_requests_total{method="POST",status_code="403"} 1`,
		`turnready_auth_events_total{event="signin"} 1`,
		`turnready_gate_decisions_total{decision="forbidden"} 1`,
		`turnready_profile_loads_total{result="missing"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}
