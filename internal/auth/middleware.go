package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flexoffice/booking-service/internal/domain"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

const sessionKey = "auth_session"

// SessionValidator validates a bearer token into a session.
type SessionValidator interface {
	Validate(token string) (domain.Session, error)
}

// AuthMiddleware validates bearer tokens and stores the session for handlers.
type AuthMiddleware struct {
	sessions SessionValidator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	session, err := m.sessions.Validate(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (domain.Session, bool) {
	session, ok := c.Locals(sessionKey).(domain.Session)
	return session, ok
}
