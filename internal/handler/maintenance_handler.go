package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// MaintenanceHandler exposes seeding and reset operations to admins.
type MaintenanceHandler struct {
	maintenance service.MaintenanceService
	logger      zerolog.Logger
}

// NewMaintenanceHandler constructs a maintenance handler.
func NewMaintenanceHandler(maintenance service.MaintenanceService, logger zerolog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenance: maintenance,
		logger:      logger.With().Str("component", "maintenance_handler").Logger(),
	}
}

// Register wires the admin maintenance routes.
func (h *MaintenanceHandler) Register(router fiber.Router) {
	router.Post("/seed", h.seed)
	router.Post("/reset/students", h.resetStudents)
	router.Post("/reset/surveys", h.resetSurveys)
}

func (h *MaintenanceHandler) seed(c *fiber.Ctx) error {
	result, err := h.maintenance.SeedDefaults(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("seeding failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to seed defaults")
	}
	return utils.SendSuccess(c, "defaults seeded", result)
}

func (h *MaintenanceHandler) resetStudents(c *fiber.Ctx) error {
	result, err := h.maintenance.ResetStudentData(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("student reset failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset student data")
	}
	return utils.SendSuccess(c, "student data reset", result)
}

func (h *MaintenanceHandler) resetSurveys(c *fiber.Ctx) error {
	result, err := h.maintenance.ResetPreserveStudents(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("survey reset failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset surveys")
	}
	return utils.SendSuccess(c, "surveys and feedback reset", result)
}
