package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

type Metrics struct {
	bookingsCreated     prometheus.Counter
	bookingConflicts    prometheus.Counter
	busyRejections      prometheus.Counter
	availabilityQueries prometheus.Counter
	bookingDuration     prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		bookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "reservation_bookings_created_total",
			Help: "Number of bookings created",
		}),
		bookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "reservation_booking_conflicts_total",
			Help: "Number of booking attempts rejected due to overlap",
		}),
		busyRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "reservation_booking_busy_total",
			Help: "Number of booking attempts that could not acquire the vehicle lock in time",
		}),
		availabilityQueries: factory.NewCounter(prometheus.CounterOpts{
			Name: "reservation_availability_queries_total",
			Help: "Number of availability queries served",
		}),
		bookingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reservation_booking_duration_seconds",
			Help:    "Latency of successful booking creation",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveBookingCreated(elapsed time.Duration) {
	m.bookingsCreated.Inc()
	m.bookingDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBookingRejected(err error) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		m.bookingConflicts.Inc()
	case errors.Is(err, domain.ErrBusy):
		m.busyRejections.Inc()
	}
}

func (m *Metrics) ObserveAvailabilityQuery() {
	m.availabilityQueries.Inc()
}
