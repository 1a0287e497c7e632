package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

// In-memory implementations of the store interfaces. They honor the same
// contracts as the Postgres adapters, including the per-vehicle
// serialization of CreateIfAvailable, and back the local runs and tests.

type InMemoryCatalog struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]*domain.Vehicle
}

func NewInMemoryCatalog() *InMemoryCatalog {
	return &InMemoryCatalog{vehicles: make(map[uuid.UUID]*domain.Vehicle)}
}

func (c *InMemoryCatalog) Add(vehicle *domain.Vehicle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicles[vehicle.ID] = vehicle
}

func (c *InMemoryCatalog) Get(_ context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vehicle, ok := c.vehicles[vehicleID]
	if !ok || !vehicle.Rentable() {
		return nil, domain.ErrVehicleNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (c *InMemoryCatalog) list() []domain.Vehicle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Vehicle, 0, len(c.vehicles))
	for _, v := range c.vehicles {
		out = append(out, *v)
	}
	return out
}

type InMemoryUserDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]struct{}
}

func NewInMemoryUserDirectory() *InMemoryUserDirectory {
	return &InMemoryUserDirectory{users: make(map[uuid.UUID]struct{})}
}

func (d *InMemoryUserDirectory) Add(userID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userID] = struct{}{}
}

func (d *InMemoryUserDirectory) Exists(_ context.Context, userID uuid.UUID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.users[userID]
	return ok, nil
}

type InMemoryBookingStore struct {
	catalog     *InMemoryCatalog
	lockTimeout time.Duration

	mu       sync.RWMutex
	bookings map[uuid.UUID][]*domain.Booking
	locks    map[uuid.UUID]chan struct{}
}

func NewInMemoryBookingStore(catalog *InMemoryCatalog, lockTimeout time.Duration) *InMemoryBookingStore {
	return &InMemoryBookingStore{
		catalog:     catalog,
		lockTimeout: lockTimeout,
		bookings:    make(map[uuid.UUID][]*domain.Booking),
		locks:       make(map[uuid.UUID]chan struct{}),
	}
}

func (s *InMemoryBookingStore) FindConfirmedIntervals(_ context.Context, vehicleID uuid.UUID) ([]domain.RentalInterval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var intervals []domain.RentalInterval
	for _, b := range s.bookings[vehicleID] {
		if b.BlocksInterval() {
			intervals = append(intervals, b.Interval)
		}
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Pickup.Before(intervals[j].Pickup)
	})
	return intervals, nil
}

func (s *InMemoryBookingStore) CreateIfAvailable(ctx context.Context, booking *domain.Booking) error {
	lock := s.vehicleLock(booking.VehicleID)

	select {
	case lock <- struct{}{}:
	case <-time.After(s.lockTimeout):
		return domain.ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings[booking.VehicleID] {
		if existing.BlocksInterval() && existing.Interval.Overlaps(booking.Interval) {
			return domain.ErrConflict
		}
	}

	copied := *booking
	s.bookings[booking.VehicleID] = append(s.bookings[booking.VehicleID], &copied)
	return nil
}

func (s *InMemoryBookingStore) FindAvailableVehicles(ctx context.Context, interval domain.RentalInterval, filter AvailabilityFilter) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range s.catalog.list() {
		if !v.Rentable() {
			continue
		}
		if filter.TypeName != "" && v.Type.Name != filter.TypeName {
			continue
		}
		if filter.VehicleID != nil && v.ID != *filter.VehicleID {
			continue
		}

		intervals, err := s.FindConfirmedIntervals(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		blocked := false
		for _, existing := range intervals {
			if existing.Overlaps(interval) {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, v)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Type.Name != out[j].Type.Name {
			return out[i].Type.Name < out[j].Type.Name
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}

// SetBookingStatus applies an external lifecycle transition. The booking
// core itself never calls this; it exists so callers (and tests) can model
// the cancelled/completed transitions that happen outside the core.
func (s *InMemoryBookingStore) SetBookingStatus(bookingID uuid.UUID, status domain.BookingStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range s.bookings {
		for _, b := range list {
			if b.ID == bookingID {
				b.Status = status
				return true
			}
		}
	}
	return false
}

func (s *InMemoryBookingStore) vehicleLock(vehicleID uuid.UUID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[vehicleID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.locks[vehicleID] = lock
	}
	return lock
}
