package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

type CreateBookingRequest struct {
	UserID     uuid.UUID `json:"user_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	PickupDate string    `json:"pickup_date"`
	ReturnDate string    `json:"return_date"`
}

type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	PickupDate    string    `json:"pickup_date"`
	ReturnDate    string    `json:"return_date"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   string    `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

func mapBooking(booking *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            booking.ID,
		UserID:        booking.UserID,
		VehicleID:     booking.VehicleID,
		PickupDate:    booking.Interval.Pickup.Format("2006-01-02"),
		ReturnDate:    booking.Interval.Return.Format("2006-01-02"),
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		TotalAmount:   booking.TotalAmount.StringFixed(2),
		CreatedAt:     booking.CreatedAt,
	}
}

type VehicleResponse struct {
	ID           uuid.UUID `json:"id"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"license_plate"`
	Color        string    `json:"color"`
	TypeName     string    `json:"type_name"`
	Capacity     int       `json:"capacity"`
	DailyRate    string    `json:"daily_rate"`
}

func mapVehicles(vehicles []domain.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		out[i] = VehicleResponse{
			ID:           v.ID,
			Model:        v.Model,
			Year:         v.Year,
			LicensePlate: v.LicensePlate,
			Color:        v.Color,
			TypeName:     v.Type.Name,
			Capacity:     v.Type.Capacity,
			DailyRate:    v.Type.DailyRate.StringFixed(2),
		}
	}
	return out
}
