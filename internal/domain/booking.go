package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking is a confirmed reservation of one vehicle for a date interval.
// The core creates bookings exactly once and never mutates them; the
// completed/cancelled transitions happen elsewhere and only matter here
// because cancelled and completed bookings drop out of overlap checks.
type Booking struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	VehicleID     uuid.UUID       `json:"vehicle_id" db:"vehicle_id"`
	Interval      RentalInterval  `json:"interval"`
	Status        BookingStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

func NewBooking(userID, vehicleID uuid.UUID, interval RentalInterval, total decimal.Decimal, now time.Time) *Booking {
	return &Booking{
		ID:            uuid.New(),
		UserID:        userID,
		VehicleID:     vehicleID,
		Interval:      interval,
		Status:        BookingStatusConfirmed,
		PaymentStatus: PaymentStatusPending,
		TotalAmount:   total,
		CreatedAt:     now,
	}
}

// BlocksInterval reports whether this booking participates in overlap
// checks. Only confirmed bookings do.
func (b *Booking) BlocksInterval() bool {
	return b.Status == BookingStatusConfirmed
}
