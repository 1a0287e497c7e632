package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

type VehicleRepository struct {
	db *DB
}

func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Get resolves a vehicle together with its type and daily rate. The
// catalog only serves rentable stock, so a retired vehicle reads as not
// found.
func (r *VehicleRepository) Get(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT v.id, v.type_id, v.model, v.year, v.license_plate, v.color, v.status,
		       vt.id AS vt_id, vt.name AS vt_name, vt.capacity AS vt_capacity, vt.daily_rate AS vt_daily_rate
		FROM vehicles v
		JOIN vehicle_types vt ON v.type_id = vt.id
		WHERE v.id = $1 AND v.status = $2
	`

	var v domain.Vehicle
	err := r.db.QueryRowxContext(ctx, query, vehicleID, domain.VehicleStatusAvailable).Scan(
		&v.ID, &v.TypeID, &v.Model, &v.Year, &v.LicensePlate, &v.Color, &v.Status,
		&v.Type.ID, &v.Type.Name, &v.Type.Capacity, &v.Type.DailyRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, storageError("failed to get vehicle", err)
	}

	return &v, nil
}
