package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

// AvailabilityFilter narrows an availability query. Zero value means
// "every rentable vehicle".
type AvailabilityFilter struct {
	TypeName  string
	VehicleID *uuid.UUID
}

// BookingStore is the only shared mutable state in the booking core.
// CreateIfAvailable is the atomic primitive: the overlap re-check and the
// insert commit together or not at all.
type BookingStore interface {
	// FindConfirmedIntervals returns the intervals of confirmed bookings
	// for one vehicle, via a range query scoped to that vehicle.
	FindConfirmedIntervals(ctx context.Context, vehicleID uuid.UUID) ([]domain.RentalInterval, error)

	// CreateIfAvailable inserts the booking unless a confirmed booking of
	// the same vehicle overlaps its interval. Returns domain.ErrConflict
	// on overlap and domain.ErrBusy when the per-vehicle serialization
	// could not be acquired within the configured timeout.
	CreateIfAvailable(ctx context.Context, booking *domain.Booking) error

	// FindAvailableVehicles lists rentable vehicles with no confirmed
	// booking overlapping the interval.
	FindAvailableVehicles(ctx context.Context, interval domain.RentalInterval, filter AvailabilityFilter) ([]domain.Vehicle, error)
}

// VehicleCatalog is the read-only gateway to rentable stock.
type VehicleCatalog interface {
	Get(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error)
}

// UserDirectory resolves requester existence; user records live outside
// the booking core.
type UserDirectory interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}
