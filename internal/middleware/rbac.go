package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// RequireRole ensures the authenticated user holds one of the allowed roles.
// A role mismatch is treated as a compromised or stale login rather than a
// plain deny: every session of the user is destroyed before the 403.
func RequireRole(sessions service.SessionService, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalUserRole).(string)
		if _, ok := allowed[role]; ok {
			return c.Next()
		}

		if userID, ok := c.Locals(LocalUserID).(string); ok && userID != "" && sessions != nil {
			_ = sessions.LogoutUser(c.UserContext(), userID)
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
