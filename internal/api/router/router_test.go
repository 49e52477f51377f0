package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voicemed/platform/internal/booking"
	"github.com/voicemed/platform/internal/catalog"
	"github.com/voicemed/platform/internal/observability/metrics"
	"github.com/voicemed/platform/internal/transcript"
	"github.com/voicemed/platform/pkg/logging"
)

func newTestRouter() http.Handler {
	logger := logging.Default()
	cat := catalog.Default()
	store := booking.NewMemorySessionStore(cat)

	reg := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics(reg)

	return New(&Config{
		Logger:             logger,
		BookingHandler:     booking.NewHandler(store, nil, m, logger),
		CatalogHandler:     catalog.NewHandler(cat, logger),
		TranscriptHandler:  transcript.NewHandler(m, logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"*"},
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestFeatureRoutesMounted(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/catalog/departments", http.StatusOK},
		{"POST", "/bookings/sessions", http.StatusCreated},
		{"GET", "/bookings/sessions/unknown/", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, w.Code)
		}
	}
}

func TestCORSHeadersApplied(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://app.voicemed.io")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.voicemed.io" {
		t.Errorf("expected CORS origin echoed, got %q", got)
	}
}
