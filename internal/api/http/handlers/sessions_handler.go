package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flexoffice/booking-service/internal/api/dto"
	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/service"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// SessionsHandler exposes session endpoints.
type SessionsHandler struct {
	auth *service.AuthService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(authService *service.AuthService) *SessionsHandler {
	return &SessionsHandler{auth: authService}
}

// Create handles POST /sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if req.CredentialSecret() == "" {
		return apperrors.NewInvalidCredentials()
	}

	user, token, session, err := h.auth.Authenticate(c.UserContext(), req.Email, req.CredentialSecret())
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SessionResponse{
			Token:       token,
			SubjectID:   user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			ExpiresAt:   session.ExpiresAt,
			ExpiresIn:   int64(h.auth.TokenManager().TTL().Seconds()),
		},
	})
}

// Current handles GET /sessions/current.
func (h *SessionsHandler) Current(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionClaimsResponse(session)})
}
