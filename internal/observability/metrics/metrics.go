package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the wizard and transcript flows.
type BookingMetrics struct {
	transitionsTotal *prometheus.CounterVec
	confirmedTotal   prometheus.Counter
	hintsTotal       *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicemed",
			Subsystem: "booking",
			Name:      "wizard_transitions_total",
			Help:      "Wizard transitions by operation and outcome",
		}, []string{"operation", "outcome"}),
		confirmedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voicemed",
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Total confirmed bookings",
		}),
		hintsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicemed",
			Subsystem: "transcript",
			Name:      "hints_total",
			Help:      "Transcript hint extractions by result",
		}, []string{"matched"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.confirmedTotal, m.hintsTotal)
	return m
}

// ObserveTransition records one wizard transition attempt.
func (m *BookingMetrics) ObserveTransition(operation string, rejected bool) {
	if m == nil {
		return
	}
	outcome := "applied"
	if rejected {
		outcome = "rejected"
	}
	m.transitionsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveConfirmed records a confirmed booking.
func (m *BookingMetrics) ObserveConfirmed() {
	if m == nil {
		return
	}
	m.confirmedTotal.Inc()
}

// ObserveHint records a transcript hint extraction attempt.
func (m *BookingMetrics) ObserveHint(matched bool) {
	if m == nil {
		return
	}
	label := "false"
	if matched {
		label = "true"
	}
	m.hintsTotal.WithLabelValues(label).Inc()
}
