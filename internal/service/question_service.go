package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/observability"
	"github.com/campuskit/feedback-api/internal/repository"
	"github.com/campuskit/feedback-api/internal/sanitize"
)

var (
	// ErrQuestionNotFound indicates the question record is missing.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrDuplicateQuestion indicates an update collided with another question's text.
	ErrDuplicateQuestion = errors.New("question text already exists")
)

// QuestionService manages the question bank. Questions are copied by value
// into surveys at creation time; edits here never touch existing surveys.
type QuestionService interface {
	List(ctx context.Context) ([]models.Question, error)
	GetByID(ctx context.Context, id string) (models.Question, error)
	// Save is idempotent on the case-folded text: a duplicate returns the
	// existing question with created=false instead of failing.
	Save(ctx context.Context, req dto.QuestionRequest) (models.Question, bool, error)
	Update(ctx context.Context, id string, req dto.QuestionRequest) (models.Question, error)
	Delete(ctx context.Context, id string) error
}

type questionService struct {
	repo      repository.QuestionRepository
	cache     *cache.Store
	ids       *ident.Generator
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuestionService constructs the question service.
func NewQuestionService(repo repository.QuestionRepository, cacheStore *cache.Store, ids *ident.Generator, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		repo:      repo,
		cache:     cacheStore,
		ids:       ids,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
		now:       time.Now,
	}
}

// List bypasses the cache read, same as departments: stale question reads
// caused duplicate creation upstream of the dedup check. The cache is still
// refreshed after each fetch.
func (s *questionService) List(ctx context.Context) ([]models.Question, error) {
	observability.CacheLookups().WithLabelValues(repository.CollectionQuestions, "bypass").Inc()

	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, repository.CollectionQuestions, questions)
	return questions, nil
}

func (s *questionService) GetByID(ctx context.Context, id string) (models.Question, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Question{}, ErrQuestionNotFound
		}
		return models.Question{}, err
	}
	return question, nil
}

func (s *questionService) Save(ctx context.Context, req dto.QuestionRequest) (models.Question, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Question{}, false, err
	}

	text := sanitize.StripHTML(sanitize.Clean(req.Text))
	if !sanitize.IsSafePattern(text) {
		return models.Question{}, false, ErrUnsafeInput
	}

	question := models.Question{
		ID:            s.ids.Next(),
		Text:          text,
		TextKey:       foldKey(text),
		Category:      sanitize.Clean(req.Category),
		AllowComments: req.AllowComments,
	}

	if err := s.repo.Create(ctx, &question); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := s.repo.FindByTextKey(ctx, question.TextKey)
			if lookupErr != nil {
				return models.Question{}, false, lookupErr
			}
			s.logger.Warn().
				Str("existing_id", existing.ID).
				Msg("duplicate question blocked, returning existing")
			return existing, false, nil
		}
		return models.Question{}, false, err
	}

	s.cache.Invalidate(ctx, repository.CollectionQuestions)
	s.logger.Info().Str("question_id", question.ID).Msg("question created")
	return question, true, nil
}

func (s *questionService) Update(ctx context.Context, id string, req dto.QuestionRequest) (models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Question{}, err
	}

	question, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Question{}, err
	}

	text := sanitize.StripHTML(sanitize.Clean(req.Text))
	if !sanitize.IsSafePattern(text) {
		return models.Question{}, ErrUnsafeInput
	}

	question.Text = text
	question.TextKey = foldKey(text)
	question.Category = sanitize.Clean(req.Category)
	question.AllowComments = req.AllowComments

	if err := s.repo.Save(ctx, &question); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Question{}, ErrDuplicateQuestion
		}
		return models.Question{}, err
	}

	s.cache.Invalidate(ctx, repository.CollectionQuestions)
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, repository.CollectionQuestions)
	s.logger.Info().Str("question_id", id).Msg("question deleted")
	return nil
}
