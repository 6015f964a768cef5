package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/repository"
)

func TestReportServiceAggregates(t *testing.T) {
	f := setupFeedbackService(t)
	student, survey := f.seedSubmission(t)
	ctx := context.Background()

	reports := NewReportService(
		repository.NewFeedbackRepository(f.db),
		repository.NewSurveyRepository(f.db),
		repository.NewDepartmentRepository(f.db),
		testLogger(),
	)

	_, err := f.feedbacks.Submit(ctx, student.ID, dto.SubmitFeedbackRequest{
		SurveyID:   survey.ID,
		TeacherIDs: teacherIDs(survey),
		Ratings:    fullRatings(survey, 7),
	})
	require.NoError(t, err)

	report, err := reports.ForDepartment(ctx, "bca")
	require.NoError(t, err)
	require.Equal(t, "BCA", report.Department)
	require.Equal(t, 1, report.Submissions)
	require.Zero(t, report.ExcludedOrphans)
	require.Len(t, report.Faculty, 2)

	for _, faculty := range report.Faculty {
		require.Equal(t, 1, faculty.Submissions)
		require.InDelta(t, 7.0, faculty.AverageRating, 0.001)
		require.Len(t, faculty.QuestionAverages, 2)
		for _, question := range faculty.QuestionAverages {
			require.InDelta(t, 7.0, question.Average, 0.001)
			require.Equal(t, 1, question.Responses)
		}
	}
}

func TestReportServiceExcludesOrphans(t *testing.T) {
	f := setupFeedbackService(t)
	student, survey := f.seedSubmission(t)
	ctx := context.Background()

	reports := NewReportService(
		repository.NewFeedbackRepository(f.db),
		repository.NewSurveyRepository(f.db),
		repository.NewDepartmentRepository(f.db),
		testLogger(),
	)

	_, err := f.feedbacks.Submit(ctx, student.ID, dto.SubmitFeedbackRequest{
		SurveyID:   survey.ID,
		TeacherIDs: teacherIDs(survey),
		Ratings:    fullRatings(survey, 7),
	})
	require.NoError(t, err)

	// Deleting the survey orphans the feedback; it must not count anymore.
	require.NoError(t, f.surveys.Delete(ctx, survey.ID))

	report, err := reports.ForDepartment(ctx, "BCA")
	require.NoError(t, err)
	require.Zero(t, report.Submissions)
	require.Equal(t, 1, report.ExcludedOrphans)
	for _, faculty := range report.Faculty {
		require.Zero(t, faculty.Submissions)
		require.Zero(t, faculty.AverageRating)
	}
}

func TestReportServiceUnknownDepartment(t *testing.T) {
	f := setupFeedbackService(t)
	f.seedSubmission(t)

	reports := NewReportService(
		repository.NewFeedbackRepository(f.db),
		repository.NewSurveyRepository(f.db),
		repository.NewDepartmentRepository(f.db),
		testLogger(),
	)

	_, err := reports.ForDepartment(context.Background(), "Astrophysics")
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}
