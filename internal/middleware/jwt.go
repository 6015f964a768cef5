package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// Locals keys populated by JWTProtected.
const (
	LocalUserID    = "user_id"
	LocalUserRole  = "user_role"
	LocalSessionID = "session_id"
)

// JWTProtected validates bearer tokens and the session they reference. The
// session read refreshes the sliding expiry, so any authenticated request
// keeps the session alive. A token whose session is gone or expired is
// rejected even when the signature is still valid.
func JWTProtected(secret string, sessions service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		userID := stringClaim(claims, "sub")
		sessionID := stringClaim(claims, "sid")
		if userID == "" || sessionID == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		session, err := sessions.Get(c.UserContext(), sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
			}
			return utils.SendError(c, fiber.StatusUnauthorized, "session not found")
		}
		if session.UserID != userID {
			return utils.SendError(c, fiber.StatusUnauthorized, "session mismatch")
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserRole, strings.ToLower(stringClaim(claims, "role")))
		c.Locals(LocalSessionID, sessionID)

		return c.Next()
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key]; ok {
		if str, ok := value.(string); ok {
			return strings.TrimSpace(str)
		}
	}
	return ""
}
