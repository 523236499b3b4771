package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flexoffice/booking-service/internal/api/dto"
	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/domain"
	"github.com/flexoffice/booking-service/internal/service"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// BookingsHandler manages booking endpoints for the session owner.
type BookingsHandler struct {
	service *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{service: bookingService}
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.SpaceID) == "" {
		return apperrors.NewValidationError("spaceId required", nil)
	}
	start, end, err := req.Window()
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	booking, err := h.service.CreateBooking(c.UserContext(), session, req.SpaceID, start, end)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.present(c, booking)})
}

// ListMine handles GET /bookings/mine.
func (h *BookingsHandler) ListMine(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.ListMyBookings(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingList(bookings, h.service.Labels(c.UserContext(), bookings...))})
}

// Get handles GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	booking, err := h.service.GetBooking(c.UserContext(), session, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.present(c, booking)})
}

// QRCode handles GET /bookings/:id/qr.
func (h *BookingsHandler) QRCode(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	img, err := h.service.CredentialImage(c.UserContext(), session, id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.Send(img)
}

// Cancel handles DELETE /bookings/:id.
func (h *BookingsHandler) Cancel(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	booking, err := h.service.CancelBooking(c.UserContext(), session, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.present(c, booking)})
}

func (h *BookingsHandler) present(c *fiber.Ctx, booking *domain.Booking) dto.BookingResponse {
	return dto.NewBookingResponse(booking, h.service.Labels(c.UserContext(), *booking))
}

func requireSession(c *fiber.Ctx) (domain.Session, error) {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return domain.Session{}, apperrors.NewUnauthorized("session required")
	}
	return session, nil
}

// bookingID parses the :id param. Non-numeric ids cannot exist, so they are NOT_FOUND.
func bookingID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("booking", map[string]any{"booking_id": raw})
	}
	return id, nil
}
