package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeCreated   = "created"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeAccepted  = "accepted"
	OutcomeFailed    = "failed"
	OutcomeRecorded  = "recorded"
	OutcomeUnknownQR = "unknown_token"
)

// Counters are registered on the default registry, which is what the
// fiberprometheus /metrics endpoint serves.
var (
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgportal",
		Name:      "committee_registrations_total",
		Help:      "Committee form registration attempts by outcome.",
	}, []string{"outcome"})

	applications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgportal",
		Name:      "recruitment_applications_total",
		Help:      "Position applications by outcome.",
	}, []string{"outcome"})

	decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgportal",
		Name:      "recruitment_decisions_total",
		Help:      "Reviewer decisions on applications.",
	}, []string{"decision"})

	scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgportal",
		Name:      "attendance_scans_total",
		Help:      "Attendance QR scans by outcome.",
	}, []string{"outcome"})
)

func Registration(outcome string) {
	registrations.WithLabelValues(outcome).Inc()
}

func Application(outcome string) {
	applications.WithLabelValues(outcome).Inc()
}

func Decision(decision string) {
	decisions.WithLabelValues(decision).Inc()
}

func Scan(outcome string) {
	scans.WithLabelValues(outcome).Inc()
}
