package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available"
	VehicleStatusRetired   VehicleStatus = "retired"
)

const (
	VehicleTypeSmallCar = "small_car"
	VehicleTypeSUV      = "suv"
	VehicleTypeVan      = "van"
)

type VehicleType struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Capacity  int             `json:"capacity" db:"capacity"`
	DailyRate decimal.Decimal `json:"daily_rate" db:"daily_rate"`
}

// Vehicle is a rentable unit. The booking core only ever reads vehicles;
// the catalog owns their lifecycle.
type Vehicle struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	TypeID       uuid.UUID     `json:"type_id" db:"type_id"`
	Model        string        `json:"model" db:"model"`
	Year         int           `json:"year" db:"year"`
	LicensePlate string        `json:"license_plate" db:"license_plate"`
	Color        string        `json:"color" db:"color"`
	Status       VehicleStatus `json:"status" db:"status"`
	Type         VehicleType   `json:"vehicle_type"`
}

func (v *Vehicle) Rentable() bool {
	return v.Status == VehicleStatusAvailable
}
