package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the booking service collectors. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	BookingOutcomes  *prometheus.CounterVec
	MailSendDuration prometheus.Histogram
	Throttled        *prometheus.CounterVec
	DesignRequests   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		BookingOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_booking_outcomes_total",
			Help: "Booking submissions by terminal outcome",
		}, []string{"outcome"}),

		MailSendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxi_booking_mail_send_duration_seconds",
			Help:    "Time spent delivering a booking notification",
			Buckets: prometheus.DefBuckets,
		}),

		Throttled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_booking_throttled_total",
			Help: "Requests rejected by a rate limiter",
		}, []string{"limiter"}),

		DesignRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxi_booking_design_requests_total",
			Help: "Design service calls by endpoint and result",
		}, []string{"endpoint", "result"}),
	}
}
