package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// UserHandler exposes admin user listings.
type UserHandler struct {
	users  service.UserService
	logger zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(users service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires the admin user routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("user listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return utils.SendSuccess(c, "users", responses)
}
