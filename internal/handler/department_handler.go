package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// DepartmentHandler handles department and faculty management.
type DepartmentHandler struct {
	departments service.DepartmentService
	logger      zerolog.Logger
}

// NewDepartmentHandler constructs a department handler.
func NewDepartmentHandler(departments service.DepartmentService, logger zerolog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		departments: departments,
		logger:      logger.With().Str("component", "department_handler").Logger(),
	}
}

// RegisterReadOnly wires the read routes available to any caller. The
// registration form needs the department list before a student has an account.
func (h *DepartmentHandler) RegisterReadOnly(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id/faculties", h.listFaculties)
}

// Register wires the full admin CRUD routes.
func (h *DepartmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.save)
	router.Put("/:id", h.rename)
	router.Delete("/:id", h.remove)
	router.Get("/:id/faculties", h.listFaculties)
	router.Post("/:id/faculties", h.addFaculty)
	router.Delete("/:id/faculties/:facultyId", h.removeFaculty)
}

func (h *DepartmentHandler) list(c *fiber.Ctx) error {
	departments, err := h.departments.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("department listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list departments")
	}
	return utils.SendSuccess(c, "departments", departments)
}

func (h *DepartmentHandler) save(c *fiber.Ctx) error {
	var payload dto.DepartmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	department, created, err := h.departments.Save(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrUnsafeInput):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("department save failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to save department")
		}
	}

	if !created {
		return utils.SendSuccess(c, "department already exists", department)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "department created", department)
}

func (h *DepartmentHandler) rename(c *fiber.Ctx) error {
	var payload dto.DepartmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	department, err := h.departments.Rename(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrUnsafeInput):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrDepartmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "department not found")
		case errors.Is(err, service.ErrDuplicateDepartment):
			return utils.SendError(c, fiber.StatusConflict, "department name already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("department rename failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to rename department")
		}
	}

	return utils.SendSuccess(c, "department renamed", department)
}

func (h *DepartmentHandler) remove(c *fiber.Ctx) error {
	if err := h.departments.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "department not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("department delete failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete department")
	}
	return utils.SendSuccess(c, "department deleted", nil)
}

func (h *DepartmentHandler) listFaculties(c *fiber.Ctx) error {
	faculties, err := h.departments.ListFaculties(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "department not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("faculty listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list faculties")
	}
	return utils.SendSuccess(c, "faculties", faculties)
}

func (h *DepartmentHandler) addFaculty(c *fiber.Ctx) error {
	var payload dto.FacultyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	faculty, err := h.departments.AddFaculty(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrUnsafeInput):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrDepartmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "department not found")
		case errors.Is(err, service.ErrDuplicateFaculty):
			return utils.SendError(c, fiber.StatusConflict, "faculty already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("faculty add failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to add faculty")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "faculty added", faculty)
}

func (h *DepartmentHandler) removeFaculty(c *fiber.Ctx) error {
	err := h.departments.RemoveFaculty(c.UserContext(), c.Params("id"), c.Params("facultyId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDepartmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "department not found")
		case errors.Is(err, service.ErrFacultyNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "faculty not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("faculty remove failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove faculty")
		}
	}
	return utils.SendSuccess(c, "faculty removed", nil)
}
