package repository

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func interval(pickup, ret string) domain.RentalInterval {
	i, err := domain.NewRentalInterval(date(pickup), date(ret))
	if err != nil {
		panic(err)
	}
	return i
}

func testVehicle(typeName string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           uuid.New(),
		TypeID:       uuid.New(),
		Model:        "Test Model",
		Year:         2022,
		LicensePlate: "TST-001",
		Status:       domain.VehicleStatusAvailable,
		Type: domain.VehicleType{
			ID:        uuid.New(),
			Name:      typeName,
			Capacity:  5,
			DailyRate: decimal.RequireFromString("50.00"),
		},
	}
}

func testBooking(vehicleID uuid.UUID, i domain.RentalInterval) *domain.Booking {
	return domain.NewBooking(uuid.New(), vehicleID, i,
		decimal.RequireFromString("100.00"), time.Now())
}

func newTestStore() (*InMemoryBookingStore, *domain.Vehicle) {
	catalog := NewInMemoryCatalog()
	vehicle := testVehicle(domain.VehicleTypeSUV)
	catalog.Add(vehicle)
	return NewInMemoryBookingStore(catalog, time.Second), vehicle
}

func TestCreateIfAvailableRejectsOverlap(t *testing.T) {
	store, vehicle := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.CreateIfAvailable(ctx, testBooking(vehicle.ID, interval("2024-07-01", "2024-07-05"))))

	err := store.CreateIfAvailable(ctx, testBooking(vehicle.ID, interval("2024-07-03", "2024-07-06")))
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// Touching the boundary is fine under the half-open convention.
	require.NoError(t, store.CreateIfAvailable(ctx, testBooking(vehicle.ID, interval("2024-07-05", "2024-07-07"))))
}

func TestCreateIfAvailableIgnoresCancelledBookings(t *testing.T) {
	store, vehicle := newTestStore()
	ctx := context.Background()

	first := testBooking(vehicle.ID, interval("2024-07-01", "2024-07-05"))
	require.NoError(t, store.CreateIfAvailable(ctx, first))
	require.True(t, store.SetBookingStatus(first.ID, domain.BookingStatusCancelled))

	err := store.CreateIfAvailable(ctx, testBooking(vehicle.ID, interval("2024-07-02", "2024-07-04")))
	assert.NoError(t, err)
}

func TestCreateIfAvailableDifferentVehiclesDoNotConflict(t *testing.T) {
	catalog := NewInMemoryCatalog()
	a := testVehicle(domain.VehicleTypeSUV)
	b := testVehicle(domain.VehicleTypeVan)
	catalog.Add(a)
	catalog.Add(b)
	store := NewInMemoryBookingStore(catalog, time.Second)
	ctx := context.Background()

	same := interval("2024-07-01", "2024-07-05")
	require.NoError(t, store.CreateIfAvailable(ctx, testBooking(a.ID, same)))
	require.NoError(t, store.CreateIfAvailable(ctx, testBooking(b.ID, same)))
}

func TestCreateIfAvailableBusyWhenLockHeld(t *testing.T) {
	catalog := NewInMemoryCatalog()
	vehicle := testVehicle(domain.VehicleTypeSUV)
	catalog.Add(vehicle)
	store := NewInMemoryBookingStore(catalog, 50*time.Millisecond)

	// Hold the vehicle lock so the create attempt times out.
	lock := store.vehicleLock(vehicle.ID)
	lock <- struct{}{}
	defer func() { <-lock }()

	err := store.CreateIfAvailable(context.Background(),
		testBooking(vehicle.ID, interval("2024-07-01", "2024-07-05")))
	assert.True(t, errors.Is(err, domain.ErrBusy))
}

func TestConcurrentIdenticalCreatesExactlyOneWins(t *testing.T) {
	store, vehicle := newTestStore()
	same := interval("2024-07-01", "2024-07-05")

	const attempts = 2
	results := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			results <- store.CreateIfAvailable(context.Background(), testBooking(vehicle.ID, same))
		}()
	}
	start.Done()

	var successes, conflicts int
	for i := 0; i < attempts; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

// Stress the store with many concurrent creates over random intervals and
// verify afterwards that no two confirmed bookings of the vehicle overlap.
func TestConcurrentCreatesKeepNonOverlapInvariant(t *testing.T) {
	store, vehicle := newTestStore()
	base := date("2024-07-01")

	const workers = 64
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))

			offset := rng.Intn(20)
			length := 1 + rng.Intn(5)
			pickup := base.AddDate(0, 0, offset)
			ret := pickup.AddDate(0, 0, length)

			iv, err := domain.NewRentalInterval(pickup, ret)
			if err != nil {
				return
			}
			// Conflicts and busy rejections are expected outcomes here.
			_ = store.CreateIfAvailable(context.Background(), testBooking(vehicle.ID, iv))
		}(int64(i))
	}
	wg.Wait()

	intervals, err := store.FindConfirmedIntervals(context.Background(), vehicle.ID)
	require.NoError(t, err)
	require.NotEmpty(t, intervals)

	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			assert.False(t, intervals[i].Overlaps(intervals[j]),
				"confirmed bookings %s and %s overlap", intervals[i], intervals[j])
		}
	}
}

func TestFindAvailableVehicles(t *testing.T) {
	catalog := NewInMemoryCatalog()
	suv := testVehicle(domain.VehicleTypeSUV)
	van := testVehicle(domain.VehicleTypeVan)
	retired := testVehicle(domain.VehicleTypeSUV)
	retired.Status = domain.VehicleStatusRetired
	catalog.Add(suv)
	catalog.Add(van)
	catalog.Add(retired)

	store := NewInMemoryBookingStore(catalog, time.Second)
	ctx := context.Background()

	require.NoError(t, store.CreateIfAvailable(ctx, testBooking(suv.ID, interval("2024-07-01", "2024-07-05"))))

	// SUV is booked over the window, the van is not; the retired vehicle
	// never shows up.
	vehicles, err := store.FindAvailableVehicles(ctx, interval("2024-07-02", "2024-07-04"), AvailabilityFilter{})
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, van.ID, vehicles[0].ID)

	// A window touching the return date is free for the SUV again.
	vehicles, err = store.FindAvailableVehicles(ctx, interval("2024-07-05", "2024-07-07"), AvailabilityFilter{})
	require.NoError(t, err)
	assert.Len(t, vehicles, 2)

	// Type filter.
	vehicles, err = store.FindAvailableVehicles(ctx, interval("2024-07-02", "2024-07-04"),
		AvailabilityFilter{TypeName: domain.VehicleTypeVan})
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, van.ID, vehicles[0].ID)

	// Single-vehicle filter on the booked SUV.
	vehicles, err = store.FindAvailableVehicles(ctx, interval("2024-07-02", "2024-07-04"),
		AvailabilityFilter{VehicleID: &suv.ID})
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}

func TestCatalogGet(t *testing.T) {
	catalog := NewInMemoryCatalog()
	vehicle := testVehicle(domain.VehicleTypeSmallCar)
	retired := testVehicle(domain.VehicleTypeSmallCar)
	retired.Status = domain.VehicleStatusRetired
	catalog.Add(vehicle)
	catalog.Add(retired)

	got, err := catalog.Get(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, vehicle.ID, got.ID)

	_, err = catalog.Get(context.Background(), retired.ID)
	assert.True(t, errors.Is(err, domain.ErrVehicleNotFound))

	_, err = catalog.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domain.ErrVehicleNotFound))
}

func TestUserDirectoryExists(t *testing.T) {
	directory := NewInMemoryUserDirectory()
	userID := uuid.New()
	directory.Add(userID)

	exists, err := directory.Exists(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = directory.Exists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
