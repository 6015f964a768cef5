package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	auth     service.AuthService
	users    service.UserService
	sessions service.SessionService
	logger   zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(auth service.AuthService, users service.UserService, sessions service.SessionService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		users:    users,
		sessions: sessions,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

// RegisterProtected wires the auth routes that require a valid session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
	router.Put("/password", h.updatePassword)
	router.Get("/me", h.me)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Register(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrUnsafeInput):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrDuplicateEmail):
			return utils.SendError(c, fiber.StatusConflict, "email already registered")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("registration failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered", dto.NewUserResponse(user))
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.auth.Login(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrMissingIdentifier):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to login")
		}
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not logged in")
	}

	if err := h.sessions.Logout(c.UserContext(), sessionID); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("logout failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to logout")
	}

	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) updatePassword(c *fiber.Ctx) error {
	var payload dto.UpdatePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not logged in")
	}

	if err := h.users.UpdatePassword(c.UserContext(), userID, payload.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("password update failed")
			return utils.SendError(c, fiber.StatusBadRequest, "failed to update password")
		}
	}

	return utils.SendSuccess(c, "password updated", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "not logged in")
	}

	user, err := h.users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("profile lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile", dto.NewUserResponse(user))
}
