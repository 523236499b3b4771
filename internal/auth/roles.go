package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flexoffice/booking-service/internal/domain"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// RequireRole ensures the session role claim is one of allowed.
// The claim is trusted as issued; it is not re-read from the user store.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("session required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[session.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
