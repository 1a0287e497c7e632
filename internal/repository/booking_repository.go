package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

// SQLSTATE raised when lock_timeout expires while waiting on the
// per-vehicle advisory lock.
const lockNotAvailable = "55P03"

type BookingRepository struct {
	db          *DB
	lockTimeout time.Duration
	logger      *zap.Logger
}

func NewBookingRepository(db *DB, lockTimeout time.Duration, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{
		db:          db,
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

func (r *BookingRepository) FindConfirmedIntervals(ctx context.Context, vehicleID uuid.UUID) ([]domain.RentalInterval, error) {
	query := `
		SELECT pickup_date, return_date
		FROM bookings
		WHERE vehicle_id = $1 AND status = $2
		ORDER BY pickup_date ASC
	`

	rows, err := r.db.QueryxContext(ctx, query, vehicleID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, storageError("failed to query confirmed bookings", err)
	}
	defer rows.Close()

	var intervals []domain.RentalInterval
	for rows.Next() {
		var interval domain.RentalInterval
		if err := rows.Scan(&interval.Pickup, &interval.Return); err != nil {
			return nil, storageError("failed to scan booking interval", err)
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating booking intervals", err)
	}

	return intervals, nil
}

// CreateIfAvailable serializes the overlap re-check and the insert behind
// a per-vehicle advisory lock held for the transaction. Two concurrent
// requests for the same vehicle cannot both pass the re-check.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageError("failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Warn("rollback failed", zap.Error(rbErr))
		}
	}()

	lockTimeoutStmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
	if _, err := tx.ExecContext(ctx, lockTimeoutStmt); err != nil {
		return storageError("failed to set lock timeout", err)
	}

	if _, err := tx.ExecContext(ctx,
		"SELECT pg_advisory_xact_lock(hashtext($1))", booking.VehicleID.String()); err != nil {
		if isLockTimeout(err) {
			return domain.ErrBusy
		}
		return storageError("failed to acquire vehicle lock", err)
	}

	overlapQuery := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE vehicle_id = $1
			  AND status = $2
			  AND pickup_date < $4
			  AND return_date > $3
		)
	`

	var conflict bool
	err = tx.QueryRowContext(ctx, overlapQuery,
		booking.VehicleID,
		domain.BookingStatusConfirmed,
		booking.Interval.Pickup,
		booking.Interval.Return,
	).Scan(&conflict)
	if err != nil {
		return storageError("failed to check booking overlap", err)
	}
	if conflict {
		return domain.ErrConflict
	}

	insertQuery := `
		INSERT INTO bookings (
			id, user_id, vehicle_id, pickup_date, return_date,
			total_amount, status, payment_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		booking.ID,
		booking.UserID,
		booking.VehicleID,
		booking.Interval.Pickup,
		booking.Interval.Return,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.CreatedAt,
	)
	if err != nil {
		return storageError("failed to insert booking", err)
	}

	if err := tx.Commit(); err != nil {
		return storageError("failed to commit booking", err)
	}

	return nil
}

func (r *BookingRepository) FindAvailableVehicles(ctx context.Context, interval domain.RentalInterval, filter AvailabilityFilter) ([]domain.Vehicle, error) {
	query := `
		SELECT v.id, v.type_id, v.model, v.year, v.license_plate, v.color, v.status,
		       vt.id AS vt_id, vt.name AS vt_name, vt.capacity AS vt_capacity, vt.daily_rate AS vt_daily_rate
		FROM vehicles v
		JOIN vehicle_types vt ON v.type_id = vt.id
		WHERE v.status = $1
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.vehicle_id = v.id
			  AND b.status = $2
			  AND b.pickup_date < $4
			  AND b.return_date > $3
		  )
	`
	args := []interface{}{
		domain.VehicleStatusAvailable,
		domain.BookingStatusConfirmed,
		interval.Pickup,
		interval.Return,
	}

	if filter.TypeName != "" {
		args = append(args, filter.TypeName)
		query += fmt.Sprintf(" AND vt.name = $%d", len(args))
	}
	if filter.VehicleID != nil {
		args = append(args, *filter.VehicleID)
		query += fmt.Sprintf(" AND v.id = $%d", len(args))
	}
	query += " ORDER BY vt.name, v.model"

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query available vehicles", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		err := rows.Scan(
			&v.ID, &v.TypeID, &v.Model, &v.Year, &v.LicensePlate, &v.Color, &v.Status,
			&v.Type.ID, &v.Type.Name, &v.Type.Capacity, &v.Type.DailyRate,
		)
		if err != nil {
			return nil, storageError("failed to scan vehicle row", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating vehicle rows", err)
	}

	return vehicles, nil
}

func isLockTimeout(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == lockNotAvailable
}

func storageError(msg string, err error) error {
	return fmt.Errorf("%s: %v: %w", msg, err, domain.ErrStorageFailure)
}
