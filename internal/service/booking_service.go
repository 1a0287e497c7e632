package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleet-rental/reservation-service/internal/domain"
	"github.com/fleet-rental/reservation-service/internal/metrics"
	"github.com/fleet-rental/reservation-service/internal/repository"
)

const notifyTimeout = 10 * time.Second

// Notifier receives the booking-created side effect. Delivery is
// fire-and-forget: a failed notification never rolls back a booking.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *domain.Booking, vehicle *domain.Vehicle) error
}

// NoopNotifier stands in when no broker is configured.
type NoopNotifier struct{}

func (NoopNotifier) BookingCreated(context.Context, *domain.Booking, *domain.Vehicle) error {
	return nil
}

// BookingService coordinates validation, overlap checking, pricing and the
// atomic write. It is the only component that creates bookings.
type BookingService struct {
	store    repository.BookingStore
	catalog  repository.VehicleCatalog
	users    repository.UserDirectory
	notifier Notifier
	policy   domain.Policy
	clock    domain.Clock
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewBookingService(
	store repository.BookingStore,
	catalog repository.VehicleCatalog,
	users repository.UserDirectory,
	notifier Notifier,
	policy domain.Policy,
	clock domain.Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		store:    store,
		catalog:  catalog,
		users:    users,
		notifier: notifier,
		policy:   policy,
		clock:    clock,
		metrics:  m,
		logger:   logger,
	}
}

// CreateBooking runs the full check-and-create sequence. The overlap
// re-check and insert happen inside the store's atomic primitive, so
// concurrent requests for the same vehicle are linearized there.
func (s *BookingService) CreateBooking(ctx context.Context, userID, vehicleID uuid.UUID, interval domain.RentalInterval) (*domain.Booking, error) {
	start := time.Now()

	if err := s.policy.Validate(interval, s.clock.Now()); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	vehicle, err := s.catalog.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	total := domain.Quote(interval, vehicle.Type.DailyRate)
	booking := domain.NewBooking(userID, vehicleID, interval, total, s.clock.Now())

	if err := s.store.CreateIfAvailable(ctx, booking); err != nil {
		s.metrics.ObserveBookingRejected(err)
		return nil, err
	}

	s.metrics.ObserveBookingCreated(time.Since(start))
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("vehicle_id", vehicleID.String()),
		zap.String("interval", interval.String()),
		zap.String("total_amount", total.String()))

	s.dispatchNotification(booking, vehicle)

	return booking, nil
}

// CheckAvailability is the read-only query path. The same policy window
// applies to queries, matching the booking rules callers will face.
func (s *BookingService) CheckAvailability(ctx context.Context, interval domain.RentalInterval, filter repository.AvailabilityFilter) ([]domain.Vehicle, error) {
	if err := s.policy.Validate(interval, s.clock.Now()); err != nil {
		return nil, err
	}

	s.metrics.ObserveAvailabilityQuery()
	return s.store.FindAvailableVehicles(ctx, interval, filter)
}

func (s *BookingService) dispatchNotification(booking *domain.Booking, vehicle *domain.Vehicle) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.BookingCreated(ctx, booking, vehicle); err != nil {
			s.logger.Warn("booking notification failed",
				zap.String("booking_id", booking.ID.String()),
				zap.Error(err))
		}
	}()
}
