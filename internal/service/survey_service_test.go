package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/repository"
)

type surveyFixture struct {
	surveys     SurveyService
	departments DepartmentService
	questions   QuestionService
	db          *gorm.DB
}

func setupSurveyService(t *testing.T) surveyFixture {
	t.Helper()

	db := newTestDB(t, "survey")
	validate := validator.New(validator.WithRequiredStructEnabled())
	ids := ident.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)

	return surveyFixture{
		surveys:     NewSurveyService(surveyRepo, departmentRepo, questionRepo, nil, ids, validate, testLogger()),
		departments: NewDepartmentService(departmentRepo, nil, ids, validate, testLogger()),
		questions:   NewQuestionService(questionRepo, nil, ids, validate, testLogger()),
		db:          db,
	}
}

func (f surveyFixture) seedDepartment(t *testing.T, name string, facultyNames ...string) string {
	t.Helper()
	ctx := context.Background()

	department, _, err := f.departments.Save(ctx, dto.DepartmentRequest{Name: name})
	require.NoError(t, err)
	for _, facultyName := range facultyNames {
		_, err := f.departments.AddFaculty(ctx, department.ID, dto.FacultyRequest{Name: facultyName})
		require.NoError(t, err)
	}
	return department.ID
}

func (f surveyFixture) seedQuestion(t *testing.T, text string) string {
	t.Helper()

	question, _, err := f.questions.Save(context.Background(), dto.QuestionRequest{Text: text})
	require.NoError(t, err)
	return question.ID
}

func TestSurveyServiceCreateFanOut(t *testing.T) {
	f := setupSurveyService(t)
	ctx := context.Background()

	f.seedDepartment(t, "BCA", "Dr. Rao", "Dr. Iyer")
	f.seedDepartment(t, "BSC", "Dr. Nair")
	f.seedDepartment(t, "BA", "Dr. Menon")
	questionID := f.seedQuestion(t, "Regularity in conducting classes")

	response, err := f.surveys.Create(ctx, "admin1", dto.CreateSurveyRequest{
		DepartmentID: dto.AllDepartments,
		QuestionIDs:  []string{questionID},
	})
	require.NoError(t, err)
	require.Equal(t, 3, response.Created)
	require.Len(t, response.SurveyIDs, 3)

	surveys, err := f.surveys.List(ctx)
	require.NoError(t, err)
	require.Len(t, surveys, 3)

	// Each fan-out target carries its own faculty snapshot.
	byDepartment := map[string]int{}
	for _, survey := range surveys {
		byDepartment[survey.Department] = len(survey.Faculties)
		require.True(t, survey.IsActive)
		require.Len(t, survey.Questions, 1)
	}
	require.Equal(t, map[string]int{"BCA": 2, "BSC": 1, "BA": 1}, byDepartment)
}

func TestSurveyServiceCreateRejectsEmptyDepartment(t *testing.T) {
	f := setupSurveyService(t)

	f.seedDepartment(t, "BCA", "Dr. Rao")
	f.seedDepartment(t, "BSC")
	questionID := f.seedQuestion(t, "Regularity in conducting classes")

	// One empty department blocks the whole fan-out; nothing is created.
	_, err := f.surveys.Create(context.Background(), "admin1", dto.CreateSurveyRequest{
		DepartmentID: dto.AllDepartments,
		QuestionIDs:  []string{questionID},
	})
	require.ErrorIs(t, err, ErrDepartmentHasNoFaculties)

	surveys, listErr := f.surveys.List(context.Background())
	require.NoError(t, listErr)
	require.Empty(t, surveys)
}

func TestSurveyServiceCreateUnknownQuestion(t *testing.T) {
	f := setupSurveyService(t)
	departmentID := f.seedDepartment(t, "BCA", "Dr. Rao")

	_, err := f.surveys.Create(context.Background(), "admin1", dto.CreateSurveyRequest{
		DepartmentID: departmentID,
		QuestionIDs:  []string{"missing"},
	})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSurveyServiceGetByDepartmentFuzzy(t *testing.T) {
	f := setupSurveyService(t)
	ctx := context.Background()

	departmentID := f.seedDepartment(t, "B.Com (General)", "Dr. Rao")
	questionID := f.seedQuestion(t, "Regularity in conducting classes")

	_, err := f.surveys.Create(ctx, "admin1", dto.CreateSurveyRequest{
		DepartmentID: departmentID,
		QuestionIDs:  []string{questionID},
	})
	require.NoError(t, err)

	// The stored name and the student's profile name differ in punctuation.
	matched, err := f.surveys.GetByDepartment(ctx, "bcom general")
	require.NoError(t, err)
	require.Len(t, matched, 1)

	none, err := f.surveys.GetByDepartment(ctx, "Commerce")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSurveyServiceSetActive(t *testing.T) {
	f := setupSurveyService(t)
	ctx := context.Background()

	departmentID := f.seedDepartment(t, "BCA", "Dr. Rao")
	questionID := f.seedQuestion(t, "Regularity in conducting classes")
	response, err := f.surveys.Create(ctx, "admin1", dto.CreateSurveyRequest{
		DepartmentID: departmentID,
		QuestionIDs:  []string{questionID},
	})
	require.NoError(t, err)

	survey, err := f.surveys.SetActive(ctx, response.SurveyIDs[0], false)
	require.NoError(t, err)
	require.False(t, survey.IsActive)

	matched, err := f.surveys.GetByDepartment(ctx, "BCA")
	require.NoError(t, err)
	require.Empty(t, matched)
}
