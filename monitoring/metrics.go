package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by outcome",
		},
		[]string{"outcome"},
	)

	bookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Bookings cancelled, by path (workflow approval or abandonment)",
		},
		[]string{"path"},
	)

	cancellationDispositions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cancellation_dispositions_total",
			Help: "Owner dispositions of cancellation requests",
		},
		[]string{"decision"},
	)

	verificationCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_codes_total",
			Help: "Verification code operations, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func RecordBookingCreated(outcome string) {
	bookingsCreated.WithLabelValues(outcome).Inc()
}

func RecordBookingCancelled(path string) {
	bookingsCancelled.WithLabelValues(path).Inc()
}

func RecordDisposition(decision string) {
	cancellationDispositions.WithLabelValues(decision).Inc()
}

func RecordVerification(operation, outcome string) {
	verificationCodes.WithLabelValues(operation, outcome).Inc()
}
