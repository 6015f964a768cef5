package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
)

type maintenanceFixture struct {
	maintenance MaintenanceService
	departments DepartmentService
	questions   QuestionService
	users       UserService
	db          *gorm.DB
}

func setupMaintenanceService(t *testing.T) maintenanceFixture {
	t.Helper()

	db := newTestDB(t, "maintenance")
	validate := validator.New(validator.WithRequiredStructEnabled())
	ids := ident.New()

	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	departments := NewDepartmentService(departmentRepo, nil, ids, validate, testLogger())
	questions := NewQuestionService(questionRepo, nil, ids, validate, testLogger())
	users := NewUserService(userRepo, nil, ids, validate, testLogger())

	return maintenanceFixture{
		maintenance: NewMaintenanceService(departments, questions, userRepo, surveyRepo, feedbackRepo, nil, testLogger()),
		departments: departments,
		questions:   questions,
		users:       users,
		db:          db,
	}
}

func TestMaintenanceServiceSeedDefaults(t *testing.T) {
	f := setupMaintenanceService(t)
	ctx := context.Background()

	result, err := f.maintenance.SeedDefaults(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, result.DepartmentsCreated)
	require.Equal(t, 10, result.QuestionsCreated)

	// Seeding again is a no-op because the saves are idempotent.
	again, err := f.maintenance.SeedDefaults(ctx)
	require.NoError(t, err)
	require.Zero(t, again.DepartmentsCreated)
	require.Zero(t, again.QuestionsCreated)

	departments, err := f.departments.List(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 5)

	questions, err := f.questions.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 10)
}

func TestMaintenanceServiceResetStudentData(t *testing.T) {
	f := setupMaintenanceService(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, dto.RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "secret1", Department: "BCA",
	})
	require.NoError(t, err)

	admin := models.User{ID: "admin1", Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Password: "x"}
	require.NoError(t, f.db.Create(&admin).Error)
	require.NoError(t, f.db.Create(&models.Survey{ID: "s1", Department: "BCA", IsActive: true}).Error)
	require.NoError(t, f.db.Create(&models.Feedback{ID: "f1", SurveyID: "s1", StudentID: "u1"}).Error)

	result, err := f.maintenance.ResetStudentData(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, result.UsersDeleted)
	require.EqualValues(t, 1, result.SurveysDeleted)
	require.EqualValues(t, 1, result.FeedbacksDeleted)

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.True(t, users[0].IsAdmin())
}

func TestMaintenanceServiceResetPreserveStudents(t *testing.T) {
	f := setupMaintenanceService(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, dto.RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "secret1", Department: "BCA",
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.Survey{ID: "s1", Department: "BCA", IsActive: true}).Error)
	require.NoError(t, f.db.Create(&models.Feedback{ID: "f1", SurveyID: "s1", StudentID: "u1"}).Error)

	result, err := f.maintenance.ResetPreserveStudents(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, result.SurveysDeleted)
	require.EqualValues(t, 1, result.FeedbacksDeleted)
	require.Zero(t, result.UsersDeleted)

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}
