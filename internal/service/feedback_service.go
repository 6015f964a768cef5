package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/deptmatch"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/observability"
	"github.com/campuskit/feedback-api/internal/repository"
	"github.com/campuskit/feedback-api/internal/sanitize"
)

var (
	// ErrSurveyInactive blocks submissions against a deactivated survey.
	ErrSurveyInactive = errors.New("survey is not active")
	// ErrSurveyNotForDepartment blocks submissions against another
	// department's survey.
	ErrSurveyNotForDepartment = errors.New("survey is not available for the student's department")
	// ErrTeacherNotInDepartment indicates a selected teacher no longer exists
	// in the student's department.
	ErrTeacherNotInDepartment = errors.New("selected teacher not in department")
	// ErrUnknownQuestion indicates a rating references a question outside the
	// survey's snapshot.
	ErrUnknownQuestion = errors.New("rating references unknown question")
	// ErrIncompleteRatings indicates the submission misses a rating for some
	// (question, teacher) pair.
	ErrIncompleteRatings = errors.New("every teacher must be rated on every question")
)

// FeedbackService accepts and serves survey submissions. Feedback is
// immutable once stored; a repeat submission for the same (student, survey)
// pair returns the original record unchanged.
type FeedbackService interface {
	Submit(ctx context.Context, studentID string, req dto.SubmitFeedbackRequest) (models.Feedback, error)
	List(ctx context.Context) ([]models.Feedback, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]models.Feedback, error)
	HasSubmitted(ctx context.Context, studentID, surveyID string) (bool, error)
}

type feedbackService struct {
	feedbacks   repository.FeedbackRepository
	surveys     repository.SurveyRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	cache       *cache.Store
	ids         *ident.Generator
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(feedbacks repository.FeedbackRepository, surveys repository.SurveyRepository, departments repository.DepartmentRepository, users repository.UserRepository, cacheStore *cache.Store, ids *ident.Generator, validate *validator.Validate, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		feedbacks:   feedbacks,
		surveys:     surveys,
		departments: departments,
		users:       users,
		cache:       cacheStore,
		ids:         ids,
		validator:   validate,
		logger:      logger.With().Str("component", "feedback_service").Logger(),
		tracer:      otel.Tracer("github.com/campuskit/feedback-api/internal/service/feedback"),
		now:         time.Now,
	}
}

func (s *feedbackService) Submit(ctx context.Context, studentID string, req dto.SubmitFeedbackRequest) (models.Feedback, error) {
	ctx, span := s.tracer.Start(ctx, "feedback.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("feedback.student_id", studentID),
		attribute.String("feedback.survey_id", req.SurveyID),
	)

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return models.Feedback{}, err
	}

	survey, err := s.loadSurvey(ctx, req.SurveyID)
	if err != nil {
		observability.FeedbackSubmissions().WithLabelValues("orphan").Inc()
		span.SetStatus(codes.Error, "survey check failed")
		return models.Feedback{}, err
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Feedback{}, ErrUserNotFound
		}
		return models.Feedback{}, err
	}

	if !deptmatch.Match(student.Department, survey.Department) {
		observability.FeedbackSubmissions().WithLabelValues("orphan").Inc()
		span.SetStatus(codes.Error, "department check failed")
		s.logger.Warn().
			Str("student_id", student.ID).
			Str("survey_id", survey.ID).
			Str("survey_department", survey.Department).
			Str("student_department", student.Department).
			Msg("submission against another department's survey blocked")
		return models.Feedback{}, ErrSurveyNotForDepartment
	}

	teachers, err := s.resolveTeachers(ctx, student, req.TeacherIDs)
	if err != nil {
		observability.FeedbackSubmissions().WithLabelValues("orphan").Inc()
		span.SetStatus(codes.Error, "teacher check failed")
		return models.Feedback{}, err
	}

	responses, aggregates, err := s.buildResponses(survey, teachers, req.Ratings)
	if err != nil {
		span.SetStatus(codes.Error, "ratings check failed")
		return models.Feedback{}, err
	}

	feedback := models.Feedback{
		ID:                s.ids.Next(),
		SurveyID:          survey.ID,
		StudentID:         student.ID,
		SurveyDepartment:  survey.Department,
		StudentName:       student.Name,
		StudentDepartment: student.Department,
		StudentYear:       sanitize.Clean(req.Year),
		SelectedTeachers:  teachers,
		Responses:         responses,
		TeacherRatings:    aggregates,
		TotalQuestions:    len(survey.Questions),
		SubmittedAt:       s.now(),
	}

	if err := s.feedbacks.Create(ctx, &feedback); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := s.feedbacks.FindByStudentAndSurvey(ctx, student.ID, survey.ID)
			if lookupErr != nil {
				return models.Feedback{}, lookupErr
			}
			observability.FeedbackSubmissions().WithLabelValues("duplicate").Inc()
			s.logger.Warn().
				Str("student_id", student.ID).
				Str("survey_id", survey.ID).
				Str("existing_id", existing.ID).
				Msg("duplicate feedback blocked, returning existing")
			span.SetStatus(codes.Ok, "duplicate returned")
			return existing, nil
		}
		observability.FeedbackSubmissions().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return models.Feedback{}, err
	}

	s.cache.Invalidate(ctx, repository.CollectionFeedbacks)
	observability.FeedbackSubmissions().WithLabelValues("created").Inc()
	s.logger.Info().
		Str("feedback_id", feedback.ID).
		Str("student_id", student.ID).
		Str("survey_id", survey.ID).
		Int("responses", len(responses)).
		Msg("feedback submitted")
	span.SetStatus(codes.Ok, "created")
	return feedback, nil
}

// List bypasses the cache read: report reads observed stale submissions when
// feedbacks were cached. The cache is refreshed for other readers.
func (s *feedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	observability.CacheLookups().WithLabelValues(repository.CollectionFeedbacks, "bypass").Inc()

	feedbacks, err := s.feedbacks.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, repository.CollectionFeedbacks, feedbacks)
	return feedbacks, nil
}

func (s *feedbackService) ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error) {
	return s.feedbacks.ListByStudent(ctx, studentID)
}

func (s *feedbackService) ListBySurvey(ctx context.Context, surveyID string) ([]models.Feedback, error) {
	return s.feedbacks.ListBySurvey(ctx, surveyID)
}

func (s *feedbackService) HasSubmitted(ctx context.Context, studentID, surveyID string) (bool, error) {
	_, err := s.feedbacks.FindByStudentAndSurvey(ctx, studentID, surveyID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *feedbackService) loadSurvey(ctx context.Context, surveyID string) (models.Survey, error) {
	survey, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Survey{}, ErrSurveyNotFound
		}
		return models.Survey{}, err
	}
	if !survey.IsActive {
		return models.Survey{}, ErrSurveyInactive
	}
	return survey, nil
}

// resolveTeachers re-validates the selected teachers against the student's
// department as it exists now. Teachers removed since the survey snapshot was
// taken fail the submission rather than polluting reports with orphans.
func (s *feedbackService) resolveTeachers(ctx context.Context, student models.User, teacherIDs []string) ([]models.TeacherRef, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	var department *models.Department
	for i := range departments {
		if deptmatch.Match(student.Department, departments[i].Name) {
			department = &departments[i]
			break
		}
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	byID := make(map[string]models.Faculty, len(department.Faculties))
	for _, faculty := range department.Faculties {
		byID[faculty.ID] = faculty
	}

	teachers := make([]models.TeacherRef, 0, len(teacherIDs))
	for _, id := range teacherIDs {
		faculty, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTeacherNotInDepartment, id)
		}
		subject := faculty.Subject
		if subject == "" {
			subject = "Faculty"
		}
		teachers = append(teachers, models.TeacherRef{ID: faculty.ID, Name: faculty.Name, Subject: subject})
	}
	return teachers, nil
}

// buildResponses expands the rating grid in survey question order and
// aggregates per-teacher totals. Every (question, teacher) cell must be
// present exactly once.
func (s *feedbackService) buildResponses(survey models.Survey, teachers []models.TeacherRef, ratings []dto.RatingInput) ([]models.Response, []models.TeacherRating, error) {
	questionByID := make(map[string]models.QuestionSnapshot, len(survey.Questions))
	for _, question := range survey.Questions {
		questionByID[question.ID] = question
	}

	type cell struct {
		rating  int
		comment string
	}
	grid := make(map[string]map[string]cell, len(survey.Questions))
	for _, input := range ratings {
		question, ok := questionByID[input.QuestionID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, input.QuestionID)
		}
		if grid[input.QuestionID] == nil {
			grid[input.QuestionID] = make(map[string]cell, len(teachers))
		}
		comment := ""
		if question.AllowComments {
			comment = sanitize.StripHTML(input.Comment)
		}
		grid[input.QuestionID][input.TeacherID] = cell{rating: input.Rating, comment: comment}
	}

	responses := make([]models.Response, 0, len(survey.Questions)*len(teachers))
	aggregates := make(map[string]*models.TeacherRating, len(teachers))

	for _, question := range survey.Questions {
		for _, teacher := range teachers {
			entry, ok := grid[question.ID][teacher.ID]
			if !ok || entry.rating == 0 {
				return nil, nil, fmt.Errorf("%w: question %s, teacher %s", ErrIncompleteRatings, question.ID, teacher.ID)
			}

			responses = append(responses, models.Response{
				QuestionID:   question.ID,
				QuestionText: question.Text,
				TeacherID:    teacher.ID,
				TeacherName:  teacher.Name,
				Rating:       entry.rating,
				Comment:      entry.comment,
			})

			aggregate, ok := aggregates[teacher.ID]
			if !ok {
				aggregate = &models.TeacherRating{
					TeacherID:      teacher.ID,
					TeacherName:    teacher.Name,
					TeacherSubject: teacher.Subject,
				}
				aggregates[teacher.ID] = aggregate
			}
			aggregate.Ratings = append(aggregate.Ratings, models.RatingDetail{
				QuestionID:   question.ID,
				QuestionText: question.Text,
				Rating:       entry.rating,
			})
			aggregate.TotalRating += entry.rating
		}
	}

	ordered := make([]models.TeacherRating, 0, len(teachers))
	for _, teacher := range teachers {
		aggregate := aggregates[teacher.ID]
		aggregate.AverageRating = round2(float64(aggregate.TotalRating) / float64(len(aggregate.Ratings)))
		ordered = append(ordered, *aggregate)
	}

	return responses, ordered, nil
}
