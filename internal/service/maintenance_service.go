package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
)

// Default seed data. Saves are idempotent on the folded name/text keys, so
// seeding an already populated database changes nothing.
var defaultDepartments = []dto.DepartmentRequest{
	{Name: "BCA", FullName: "Bachelor of Computer Applications"},
	{Name: "BCOM Vocational", FullName: "Bachelor of Commerce (Vocational)"},
	{Name: "BCOM General", FullName: "Bachelor of Commerce (General)"},
	{Name: "BSC", FullName: "Bachelor of Science"},
	{Name: "BA", FullName: "Bachelor of Arts"},
}

var defaultQuestions = []dto.QuestionRequest{
	{Text: "Regularity in conducting classes", Category: "teaching", AllowComments: true},
	{Text: "Punctuality in starting and ending classes", Category: "teaching", AllowComments: true},
	{Text: "Preparation for the class", Category: "teaching", AllowComments: true},
	{Text: "Completion of syllabus in time", Category: "teaching", AllowComments: true},
	{Text: "Clarity in communication and explanation", Category: "teaching", AllowComments: true},
	{Text: "Use of teaching aids and modern tools", Category: "teaching", AllowComments: true},
	{Text: "Encouragement of student participation", Category: "engagement", AllowComments: true},
	{Text: "Availability outside class hours", Category: "engagement", AllowComments: true},
	{Text: "Fairness in internal evaluation", Category: "evaluation", AllowComments: true},
	{Text: "Role as mentor and guide", Category: "engagement", AllowComments: true},
}

// SeedResult reports how many records a seeding run actually created.
type SeedResult struct {
	DepartmentsCreated int `json:"departments_created"`
	QuestionsCreated   int `json:"questions_created"`
}

// ResetResult reports what a reset run deleted.
type ResetResult struct {
	UsersDeleted     int64 `json:"users_deleted"`
	SurveysDeleted   int64 `json:"surveys_deleted"`
	FeedbacksDeleted int64 `json:"feedbacks_deleted"`
}

// MaintenanceService covers the administrative bulk operations: seeding the
// default catalog and wiping collections between academic cycles.
type MaintenanceService interface {
	SeedDefaults(ctx context.Context) (SeedResult, error)
	// ResetStudentData deletes every non-admin user plus all surveys and
	// feedback. Admin accounts, departments and questions survive.
	ResetStudentData(ctx context.Context) (ResetResult, error)
	// ResetPreserveStudents deletes surveys and feedback but keeps all user
	// accounts.
	ResetPreserveStudents(ctx context.Context) (ResetResult, error)
}

type maintenanceService struct {
	departments DepartmentService
	questions   QuestionService
	users       repository.UserRepository
	surveys     repository.SurveyRepository
	feedbacks   repository.FeedbackRepository
	cache       *cache.Store
	logger      zerolog.Logger
}

// NewMaintenanceService constructs the maintenance service.
func NewMaintenanceService(departments DepartmentService, questions QuestionService, users repository.UserRepository, surveys repository.SurveyRepository, feedbacks repository.FeedbackRepository, cacheStore *cache.Store, logger zerolog.Logger) MaintenanceService {
	return &maintenanceService{
		departments: departments,
		questions:   questions,
		users:       users,
		surveys:     surveys,
		feedbacks:   feedbacks,
		cache:       cacheStore,
		logger:      logger.With().Str("component", "maintenance_service").Logger(),
	}
}

func (s *maintenanceService) SeedDefaults(ctx context.Context) (SeedResult, error) {
	var result SeedResult

	for _, req := range defaultDepartments {
		_, created, err := s.departments.Save(ctx, req)
		if err != nil {
			return result, err
		}
		if created {
			result.DepartmentsCreated++
		}
	}

	for _, req := range defaultQuestions {
		_, created, err := s.questions.Save(ctx, req)
		if err != nil {
			return result, err
		}
		if created {
			result.QuestionsCreated++
		}
	}

	s.logger.Info().
		Int("departments_created", result.DepartmentsCreated).
		Int("questions_created", result.QuestionsCreated).
		Msg("default seed applied")
	return result, nil
}

func (s *maintenanceService) ResetStudentData(ctx context.Context) (ResetResult, error) {
	var result ResetResult

	users, err := s.users.DeleteWhereRoleNot(ctx, models.RoleAdmin)
	if err != nil {
		return result, err
	}
	result.UsersDeleted = users

	surveys, feedbacks, err := s.wipeSurveysAndFeedback(ctx)
	if err != nil {
		return result, err
	}
	result.SurveysDeleted = surveys
	result.FeedbacksDeleted = feedbacks

	s.cache.ClearAll(ctx)
	s.logger.Warn().
		Int64("users_deleted", result.UsersDeleted).
		Int64("surveys_deleted", result.SurveysDeleted).
		Int64("feedbacks_deleted", result.FeedbacksDeleted).
		Msg("student data reset")
	return result, nil
}

func (s *maintenanceService) ResetPreserveStudents(ctx context.Context) (ResetResult, error) {
	var result ResetResult

	surveys, feedbacks, err := s.wipeSurveysAndFeedback(ctx)
	if err != nil {
		return result, err
	}
	result.SurveysDeleted = surveys
	result.FeedbacksDeleted = feedbacks

	s.cache.Invalidate(ctx, repository.CollectionSurveys)
	s.cache.Invalidate(ctx, repository.CollectionFeedbacks)
	s.logger.Warn().
		Int64("surveys_deleted", result.SurveysDeleted).
		Int64("feedbacks_deleted", result.FeedbacksDeleted).
		Msg("surveys and feedback reset")
	return result, nil
}

func (s *maintenanceService) wipeSurveysAndFeedback(ctx context.Context) (int64, int64, error) {
	feedbacks, err := s.feedbacks.DeleteAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	surveys, err := s.surveys.DeleteAll(ctx)
	if err != nil {
		return 0, feedbacks, err
	}
	return surveys, feedbacks, nil
}
