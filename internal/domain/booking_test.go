package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewBooking(t *testing.T) {
	userID := uuid.New()
	vehicleID := uuid.New()
	now := time.Now()
	total := decimal.RequireFromString("150.00")

	booking := NewBooking(userID, vehicleID, interval("2024-06-01", "2024-06-04"), total, now)

	assert.NotEqual(t, uuid.Nil, booking.ID)
	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, vehicleID, booking.VehicleID)
	assert.Equal(t, BookingStatusConfirmed, booking.Status)
	assert.Equal(t, PaymentStatusPending, booking.PaymentStatus)
	assert.True(t, booking.TotalAmount.Equal(total))
	assert.Equal(t, now, booking.CreatedAt)
}

func TestBlocksInterval(t *testing.T) {
	booking := NewBooking(uuid.New(), uuid.New(),
		interval("2024-06-01", "2024-06-04"), decimal.Zero, time.Now())
	assert.True(t, booking.BlocksInterval())

	booking.Status = BookingStatusCancelled
	assert.False(t, booking.BlocksInterval())

	booking.Status = BookingStatusCompleted
	assert.False(t, booking.BlocksInterval())
}
