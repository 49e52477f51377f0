package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBookingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveTransition("select_date", false)
	m.ObserveTransition("select_date", false)
	m.ObserveTransition("select_date", true)
	m.ObserveConfirmed()
	m.ObserveHint(true)
	m.ObserveHint(false)

	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("select_date", "applied")); got != 2 {
		t.Errorf("expected 2 applied transitions, got %v", got)
	}
	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("select_date", "rejected")); got != 1 {
		t.Errorf("expected 1 rejected transition, got %v", got)
	}
	if got := testutil.ToFloat64(m.confirmedTotal); got != 1 {
		t.Errorf("expected 1 confirmed booking, got %v", got)
	}
	if got := testutil.ToFloat64(m.hintsTotal.WithLabelValues("true")); got != 1 {
		t.Errorf("expected 1 matched hint, got %v", got)
	}
}

func TestBookingMetrics_NilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveTransition("confirm", false)
	m.ObserveConfirmed()
	m.ObserveHint(true)
}
