package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flexoffice/booking-service/internal/api/dto"
	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/service"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// SpacesHandler exposes the space catalog.
type SpacesHandler struct {
	catalog  *service.SpaceCatalog
	bookings *service.BookingService
}

// NewSpacesHandler constructs handler.
func NewSpacesHandler(catalog *service.SpaceCatalog, bookings *service.BookingService) *SpacesHandler {
	return &SpacesHandler{catalog: catalog, bookings: bookings}
}

// List handles GET /spaces.
func (h *SpacesHandler) List(c *fiber.Ctx) error {
	spaces, err := h.catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SpaceResponse, 0, len(spaces))
	for i := range spaces {
		items = append(items, dto.NewSpaceResponse(&spaces[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /spaces/:id.
func (h *SpacesHandler) Get(c *fiber.Ctx) error {
	space, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSpaceResponse(space)})
}

// Bookings handles GET /spaces/:id/bookings.
func (h *SpacesHandler) Bookings(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	bookings, err := h.bookings.ListSpaceBookings(c.UserContext(), session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingList(bookings, h.bookings.Labels(c.UserContext(), bookings...))})
}
