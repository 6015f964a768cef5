package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// ReportHandler serves aggregated feedback reports to admins.
type ReportHandler struct {
	reports service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a report handler.
func NewReportHandler(reports service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires the admin report routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:department", h.forDepartment)
}

func (h *ReportHandler) list(c *fiber.Ctx) error {
	reports, err := h.reports.DepartmentReports(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("report build failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build reports")
	}
	return utils.SendSuccess(c, "reports", reports)
}

func (h *ReportHandler) forDepartment(c *fiber.Ctx) error {
	report, err := h.reports.ForDepartment(c.UserContext(), c.Params("department"))
	if err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "department not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("report build failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report")
	}
	return utils.SendSuccess(c, "report", report)
}
