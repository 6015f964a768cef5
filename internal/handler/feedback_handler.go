package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// FeedbackHandler handles feedback submission and reads.
type FeedbackHandler struct {
	feedbacks service.FeedbackService
	logger    zerolog.Logger
}

// NewFeedbackHandler constructs a feedback handler.
func NewFeedbackHandler(feedbacks service.FeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbacks: feedbacks,
		logger:    logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// RegisterStudent wires the feedback routes available to authenticated students.
func (h *FeedbackHandler) RegisterStudent(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("/mine", h.listMine)
	router.Get("/status/:surveyId", h.status)
}

// Register wires the admin feedback routes.
func (h *FeedbackHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/survey/:surveyId", h.listBySurvey)
}

func (h *FeedbackHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitFeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	feedback, err := h.feedbacks.Submit(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrSurveyNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "survey not found")
		case errors.Is(err, service.ErrSurveyInactive):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "survey is not active")
		case errors.Is(err, service.ErrSurveyNotForDepartment):
			return utils.SendError(c, fiber.StatusForbidden, "this survey is not available for your department")
		case errors.Is(err, service.ErrDepartmentNotFound):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "department no longer exists")
		case errors.Is(err, service.ErrTeacherNotInDepartment):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "selected teacher not in department")
		case errors.Is(err, service.ErrUnknownQuestion):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "rating references unknown question")
		case errors.Is(err, service.ErrIncompleteRatings):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "incomplete ratings")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusUnauthorized, "account not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("feedback submission failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit feedback")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback recorded", feedback)
}

func (h *FeedbackHandler) listMine(c *fiber.Ctx) error {
	feedbacks, err := h.feedbacks.ListByStudent(c.UserContext(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("feedback listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list feedback")
	}
	return utils.SendSuccess(c, "feedback", feedbacks)
}

// status reports whether the caller already submitted for a survey, so the
// client can disable the form without attempting a duplicate write.
func (h *FeedbackHandler) status(c *fiber.Ctx) error {
	submitted, err := h.feedbacks.HasSubmitted(c.UserContext(), userIDFromContext(c), c.Params("surveyId"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("feedback status lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to check status")
	}
	return utils.SendSuccess(c, "status", fiber.Map{"submitted": submitted})
}

func (h *FeedbackHandler) list(c *fiber.Ctx) error {
	feedbacks, err := h.feedbacks.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("feedback listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list feedback")
	}
	return utils.SendSuccess(c, "feedback", feedbacks)
}

func (h *FeedbackHandler) listBySurvey(c *fiber.Ctx) error {
	feedbacks, err := h.feedbacks.ListBySurvey(c.UserContext(), c.Params("surveyId"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("feedback listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list feedback")
	}
	return utils.SendSuccess(c, "feedback", feedbacks)
}
