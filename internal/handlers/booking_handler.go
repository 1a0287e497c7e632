package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleet-rental/reservation-service/internal/domain"
	"github.com/fleet-rental/reservation-service/internal/repository"
	"github.com/fleet-rental/reservation-service/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var request CreateBookingRequest
	if err := c.BodyParser(&request); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_INPUT",
			"Invalid request body", map[string]interface{}{"parse_error": err.Error()})
	}

	if request.UserID == uuid.Nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_INPUT",
			"user_id is required", nil)
	}
	if request.VehicleID == uuid.Nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_INPUT",
			"vehicle_id is required", nil)
	}

	interval, err := parseInterval(request.PickupDate, request.ReturnDate)
	if err != nil {
		return h.mapError(c, err)
	}

	booking, err := h.bookings.CreateBooking(c.Context(), request.UserID, request.VehicleID, interval)
	if err != nil {
		return h.mapError(c, err)
	}

	return createdResponse(c, "Booking created successfully", mapBooking(booking))
}

func (h *BookingHandler) CheckAvailability(c *fiber.Ctx) error {
	interval, err := parseInterval(c.Query("pickup_date"), c.Query("return_date"))
	if err != nil {
		return h.mapError(c, err)
	}

	filter := repository.AvailabilityFilter{TypeName: c.Query("type")}
	if raw := c.Query("vehicle_id"); raw != "" {
		vehicleID, err := uuid.Parse(raw)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "INVALID_INPUT",
				"Invalid vehicle_id", map[string]interface{}{"vehicle_id": raw})
		}
		filter.VehicleID = &vehicleID
	}

	vehicles, err := h.bookings.CheckAvailability(c.Context(), interval, filter)
	if err != nil {
		return h.mapError(c, err)
	}

	return successResponse(c, "Availability retrieved successfully", mapVehicles(vehicles))
}

func (h *BookingHandler) HealthCheck(c *fiber.Ctx) error {
	return successResponse(c, "Reservation service is healthy", map[string]interface{}{
		"service": "reservation-service",
		"status":  "healthy",
	})
}

// parseInterval rejects malformed dates before any policy rule runs.
func parseInterval(pickupRaw, returnRaw string) (domain.RentalInterval, error) {
	if pickupRaw == "" || returnRaw == "" {
		return domain.RentalInterval{}, domain.ErrInvalidInput
	}
	pickup, err := domain.ParseDate(pickupRaw)
	if err != nil {
		return domain.RentalInterval{}, domain.ErrInvalidInput
	}
	ret, err := domain.ParseDate(returnRaw)
	if err != nil {
		return domain.RentalInterval{}, domain.ErrInvalidInput
	}
	return domain.NewRentalInterval(pickup, ret)
}

func (h *BookingHandler) mapError(c *fiber.Ctx, err error) error {
	if violation, ok := domain.AsPolicyViolation(err); ok {
		return errorResponse(c, fiber.StatusBadRequest, "POLICY_VIOLATION",
			violation.Message, map[string]interface{}{"reason": string(violation.Reason)})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_INPUT",
			"Invalid date format. Use YYYY-MM-DD", nil)
	case errors.Is(err, domain.ErrUserNotFound):
		return errorResponse(c, fiber.StatusNotFound, "USER_NOT_FOUND",
			"User not found", nil)
	case errors.Is(err, domain.ErrVehicleNotFound):
		return errorResponse(c, fiber.StatusNotFound, "VEHICLE_NOT_FOUND",
			"Vehicle not found", nil)
	case errors.Is(err, domain.ErrConflict):
		return errorResponse(c, fiber.StatusConflict, "CONFLICT",
			"Vehicle not available for selected dates", nil)
	case errors.Is(err, domain.ErrBusy):
		return errorResponse(c, fiber.StatusServiceUnavailable, "BUSY",
			"Booking is temporarily busy, retry later", nil)
	default:
		h.logger.Error("booking request failed", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
			"Failed to process booking request", nil)
	}
}
