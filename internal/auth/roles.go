package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// RequireState ensures the session is in one of the allowed states. A session
// in the forced-reset state is blocked from everything except the reset
// endpoint.
func RequireState(allowed ...domain.SessionState) fiber.Handler {
	allowedSet := make(map[domain.SessionState]struct{}, len(allowed))
	for _, state := range allowed {
		allowedSet[state] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[session.State]; !exists {
			if session.State == domain.SessionStateMustReset {
				return apperrors.NewForbidden("password reset required")
			}
			return apperrors.NewForbidden("not permitted in current state")
		}
		return c.Next()
	}
}

// RequireRole ensures the session carries one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[session.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
