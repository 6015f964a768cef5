package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// SurveyHandler handles survey reads for students and full management for admins.
type SurveyHandler struct {
	surveys service.SurveyService
	users   service.UserService
	logger  zerolog.Logger
}

// NewSurveyHandler constructs a survey handler.
func NewSurveyHandler(surveys service.SurveyService, users service.UserService, logger zerolog.Logger) *SurveyHandler {
	return &SurveyHandler{
		surveys: surveys,
		users:   users,
		logger:  logger.With().Str("component", "survey_handler").Logger(),
	}
}

// RegisterStudent wires the survey routes available to authenticated students.
func (h *SurveyHandler) RegisterStudent(router fiber.Router) {
	router.Get("", h.listMine)
	router.Get("/:id", h.get)
}

// Register wires the admin survey routes.
func (h *SurveyHandler) Register(router fiber.Router) {
	router.Get("", h.listAll)
	router.Post("", h.create)
	router.Patch("/:id/active", h.setActive)
	router.Delete("/:id", h.remove)
}

// listMine returns the active surveys matching the caller's department.
func (h *SurveyHandler) listMine(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.UserContext(), userIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusUnauthorized, "account not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("survey caller lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list surveys")
	}

	surveys, err := h.surveys.GetByDepartment(c.UserContext(), user.Department)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("survey listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list surveys")
	}
	return utils.SendSuccess(c, "surveys", surveys)
}

func (h *SurveyHandler) get(c *fiber.Ctx) error {
	survey, err := h.surveys.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "survey not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("survey lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load survey")
	}
	return utils.SendSuccess(c, "survey", survey)
}

func (h *SurveyHandler) listAll(c *fiber.Ctx) error {
	surveys, err := h.surveys.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("survey listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list surveys")
	}
	return utils.SendSuccess(c, "surveys", surveys)
}

func (h *SurveyHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateSurveyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.surveys.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrQuestionNotFound):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "unknown question in selection")
		case errors.Is(err, service.ErrDepartmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "department not found")
		case errors.Is(err, service.ErrNoDepartments):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "no departments exist")
		case errors.Is(err, service.ErrDepartmentHasNoFaculties):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "department has no faculties")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("survey creation failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create surveys")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "surveys created", response)
}

func (h *SurveyHandler) setActive(c *fiber.Ctx) error {
	var payload dto.UpdateSurveyRequest
	if err := c.BodyParser(&payload); err != nil || payload.IsActive == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	survey, err := h.surveys.SetActive(c.UserContext(), c.Params("id"), *payload.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "survey not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("survey update failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update survey")
	}

	return utils.SendSuccess(c, "survey updated", survey)
}

func (h *SurveyHandler) remove(c *fiber.Ctx) error {
	if err := h.surveys.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "survey not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("survey delete failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete survey")
	}
	return utils.SendSuccess(c, "survey deleted", nil)
}
