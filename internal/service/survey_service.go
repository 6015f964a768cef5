package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/deptmatch"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/observability"
	"github.com/campuskit/feedback-api/internal/repository"
)

var (
	// ErrSurveyNotFound indicates the survey record is missing.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrNoDepartments indicates an ALL fan-out found no departments.
	ErrNoDepartments = errors.New("no departments to create surveys for")
	// ErrDepartmentHasNoFaculties blocks survey creation for an empty department.
	ErrDepartmentHasNoFaculties = errors.New("department has no faculties")
)

// SurveyService manages survey lifecycles. Surveys carry value snapshots of
// their questions and faculties taken at creation time.
type SurveyService interface {
	List(ctx context.Context) ([]models.Survey, error)
	GetByID(ctx context.Context, id string) (models.Survey, error)
	GetByDepartment(ctx context.Context, department string) ([]models.Survey, error)
	Create(ctx context.Context, createdBy string, req dto.CreateSurveyRequest) (dto.CreateSurveyResponse, error)
	SetActive(ctx context.Context, id string, active bool) (models.Survey, error)
	Delete(ctx context.Context, id string) error
}

type surveyService struct {
	surveys     repository.SurveyRepository
	departments repository.DepartmentRepository
	questions   repository.QuestionRepository
	cache       *cache.Store
	ids         *ident.Generator
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSurveyService constructs the survey service.
func NewSurveyService(surveys repository.SurveyRepository, departments repository.DepartmentRepository, questions repository.QuestionRepository, cacheStore *cache.Store, ids *ident.Generator, validate *validator.Validate, logger zerolog.Logger) SurveyService {
	return &surveyService{
		surveys:     surveys,
		departments: departments,
		questions:   questions,
		cache:       cacheStore,
		ids:         ids,
		validator:   validate,
		logger:      logger.With().Str("component", "survey_service").Logger(),
		now:         time.Now,
	}
}

// List serves the survey collection through the read-through cache.
func (s *surveyService) List(ctx context.Context) ([]models.Survey, error) {
	var surveys []models.Survey
	if s.cache.Get(ctx, repository.CollectionSurveys, &surveys) {
		return surveys, nil
	}

	surveys, err := s.surveys.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, repository.CollectionSurveys, surveys)
	return surveys, nil
}

func (s *surveyService) GetByID(ctx context.Context, id string) (models.Survey, error) {
	survey, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Survey{}, ErrSurveyNotFound
		}
		return models.Survey{}, err
	}
	return survey, nil
}

// GetByDepartment returns the active surveys whose denormalized department
// name matches the given one under the tiered fuzzy rules. Filtering happens
// here rather than in SQL because the stored names drift in format.
func (s *surveyService) GetByDepartment(ctx context.Context, department string) ([]models.Survey, error) {
	if department == "" {
		return []models.Survey{}, nil
	}

	surveys, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Survey, 0)
	for _, survey := range surveys {
		if !survey.IsActive || survey.Department == "" {
			continue
		}
		if deptmatch.Match(department, survey.Department) {
			matched = append(matched, survey)
		}
	}

	s.logger.Debug().
		Str("department", department).
		Int("matched", len(matched)).
		Int("total", len(surveys)).
		Msg("department survey lookup")
	return matched, nil
}

// Create builds one survey per target department, each carrying that
// department's own faculty snapshot and a shared question snapshot. The
// AllDepartments selector fans out over every department; the batch is
// transactional, so either all fan-out targets get a survey or none do.
func (s *surveyService) Create(ctx context.Context, createdBy string, req dto.CreateSurveyRequest) (dto.CreateSurveyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CreateSurveyResponse{}, err
	}

	snapshots, err := s.snapshotQuestions(ctx, req.QuestionIDs)
	if err != nil {
		return dto.CreateSurveyResponse{}, err
	}

	targets, err := s.resolveTargets(ctx, req.DepartmentID)
	if err != nil {
		return dto.CreateSurveyResponse{}, err
	}

	for _, department := range targets {
		if len(department.Faculties) == 0 {
			return dto.CreateSurveyResponse{}, fmt.Errorf("%w: %s", ErrDepartmentHasNoFaculties, department.Name)
		}
	}

	createdAt := s.now()
	surveys := make([]models.Survey, 0, len(targets))
	ids := make([]string, 0, len(targets))
	for _, department := range targets {
		faculties := make([]models.FacultyRef, 0, len(department.Faculties))
		for _, faculty := range department.Faculties {
			faculties = append(faculties, models.FacultyRef{ID: faculty.ID, Name: faculty.Name})
		}

		survey := models.Survey{
			ID:         s.ids.Next(),
			Department: department.Name,
			Faculties:  faculties,
			Questions:  snapshots,
			CreatedBy:  createdBy,
			CreatedAt:  createdAt,
			IsActive:   true,
		}
		surveys = append(surveys, survey)
		ids = append(ids, survey.ID)
	}

	if err := s.surveys.CreateBatch(ctx, surveys); err != nil {
		return dto.CreateSurveyResponse{}, err
	}

	s.cache.Invalidate(ctx, repository.CollectionSurveys)
	observability.SurveyFanout().Add(float64(len(surveys)))
	s.logger.Info().
		Int("created", len(surveys)).
		Str("created_by", createdBy).
		Msg("surveys created")

	return dto.CreateSurveyResponse{SurveyIDs: ids, Created: len(surveys)}, nil
}

func (s *surveyService) SetActive(ctx context.Context, id string, active bool) (models.Survey, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return models.Survey{}, err
	}

	if err := s.surveys.Update(ctx, id, map[string]interface{}{"is_active": active}); err != nil {
		return models.Survey{}, err
	}

	s.cache.Invalidate(ctx, repository.CollectionSurveys)
	return s.GetByID(ctx, id)
}

func (s *surveyService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.surveys.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, repository.CollectionSurveys)
	s.logger.Info().Str("survey_id", id).Msg("survey deleted")
	return nil
}

func (s *surveyService) snapshotQuestions(ctx context.Context, questionIDs []string) ([]models.QuestionSnapshot, error) {
	snapshots := make([]models.QuestionSnapshot, 0, len(questionIDs))
	for _, id := range questionIDs {
		question, err := s.questions.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
			}
			return nil, err
		}
		snapshots = append(snapshots, models.QuestionSnapshot{
			ID:            question.ID,
			Text:          question.Text,
			AllowComments: question.AllowComments,
		})
	}
	return snapshots, nil
}

func (s *surveyService) resolveTargets(ctx context.Context, departmentID string) ([]models.Department, error) {
	if departmentID == dto.AllDepartments {
		departments, err := s.departments.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(departments) == 0 {
			return nil, ErrNoDepartments
		}
		return departments, nil
	}

	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return []models.Department{department}, nil
}
