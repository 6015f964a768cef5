package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/service"
	"github.com/campuskit/feedback-api/internal/utils"
)

// QuestionHandler handles question bank management.
type QuestionHandler struct {
	questions service.QuestionService
	logger    zerolog.Logger
}

// NewQuestionHandler constructs a question handler.
func NewQuestionHandler(questions service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		logger:    logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register wires the admin question routes.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.save)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *QuestionHandler) list(c *fiber.Ctx) error {
	questions, err := h.questions.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("question listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list questions")
	}
	return utils.SendSuccess(c, "questions", questions)
}

func (h *QuestionHandler) save(c *fiber.Ctx) error {
	var payload dto.QuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	question, created, err := h.questions.Save(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrUnsafeInput):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("question save failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to save question")
		}
	}

	if !created {
		return utils.SendSuccess(c, "question already exists", question)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "question created", question)
}

func (h *QuestionHandler) update(c *fiber.Ctx) error {
	var payload dto.QuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	question, err := h.questions.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrUnsafeInput):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrQuestionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "question not found")
		case errors.Is(err, service.ErrDuplicateQuestion):
			return utils.SendError(c, fiber.StatusConflict, "question text already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("question update failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update question")
		}
	}

	return utils.SendSuccess(c, "question updated", question)
}

func (h *QuestionHandler) remove(c *fiber.Ctx) error {
	if err := h.questions.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "question not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("question delete failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete question")
	}
	return utils.SendSuccess(c, "question deleted", nil)
}
