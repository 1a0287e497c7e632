package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/fleet-rental/reservation-service/internal/domain"
)

const bookingCreatedRoutingKey = "booking.created"

// BookingCreatedEvent is the payload the notification collaborator
// consumes to send the confirmation message.
type BookingCreatedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	BookingID    uuid.UUID `json:"booking_id"`
	UserID       uuid.UUID `json:"user_id"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	VehicleModel string    `json:"vehicle_model"`
	PickupDate   string    `json:"pickup_date"`
	ReturnDate   string    `json:"return_date"`
	TotalAmount  string    `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
	PublishedAt  time.Time `json:"published_at"`
}

func newBookingCreatedEvent(booking *domain.Booking, vehicle *domain.Vehicle) BookingCreatedEvent {
	return BookingCreatedEvent{
		EventID:      uuid.New(),
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		VehicleID:    booking.VehicleID,
		VehicleModel: vehicle.Model,
		PickupDate:   booking.Interval.Pickup.Format("2006-01-02"),
		ReturnDate:   booking.Interval.Return.Format("2006-01-02"),
		TotalAmount:  booking.TotalAmount.StringFixed(2),
		CreatedAt:    booking.CreatedAt,
		PublishedAt:  time.Now(),
	}
}

// Publisher emits booking events to the topic exchange. It satisfies the
// booking service's Notifier interface.
type Publisher struct {
	client *Client
	logger *zap.Logger
}

func NewPublisher(client *Client, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *domain.Booking, vehicle *domain.Vehicle) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to rabbitmq")
	}

	event := newBookingCreatedEvent(booking, vehicle)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize booking event: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = p.client.Channel().Publish(
		p.client.config.Exchange,
		bookingCreatedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID.String(),
			Timestamp:    event.PublishedAt,
			Headers: amqp.Table{
				"booking_id": event.BookingID.String(),
				"user_id":    event.UserID.String(),
				"vehicle_id": event.VehicleID.String(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	p.logger.Info("booking event published",
		zap.String("routing_key", bookingCreatedRoutingKey),
		zap.String("booking_id", event.BookingID.String()))
	return nil
}
