package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/repository"
)

func setupQuestionService(t *testing.T) QuestionService {
	t.Helper()

	db := newTestDB(t, "question")
	repo := repository.NewQuestionRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	return NewQuestionService(repo, nil, ident.New(), validate, testLogger())
}

func TestQuestionServiceSaveIdempotent(t *testing.T) {
	svc := setupQuestionService(t)
	ctx := context.Background()

	first, created, err := svc.Save(ctx, dto.QuestionRequest{Text: "Punctuality in starting classes", AllowComments: true})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Save(ctx, dto.QuestionRequest{Text: " PUNCTUALITY in starting classes "})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)

	questions, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)
}

func TestQuestionServiceSaveStripsMarkup(t *testing.T) {
	svc := setupQuestionService(t)

	question, created, err := svc.Save(context.Background(), dto.QuestionRequest{
		Text: "Clarity of <b>explanation</b><script>alert(1)</script>",
	})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "Clarity of explanation", question.Text)
}

func TestQuestionServiceUpdate(t *testing.T) {
	svc := setupQuestionService(t)
	ctx := context.Background()

	question, _, err := svc.Save(ctx, dto.QuestionRequest{Text: "Original question text"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, question.ID, dto.QuestionRequest{Text: "Amended question text", AllowComments: true})
	require.NoError(t, err)
	require.Equal(t, "Amended question text", updated.Text)
	require.True(t, updated.AllowComments)

	_, err = svc.Update(ctx, "missing", dto.QuestionRequest{Text: "Whatever text here"})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionServiceUpdateDuplicate(t *testing.T) {
	svc := setupQuestionService(t)
	ctx := context.Background()

	_, _, err := svc.Save(ctx, dto.QuestionRequest{Text: "Regularity in conducting classes"})
	require.NoError(t, err)
	other, _, err := svc.Save(ctx, dto.QuestionRequest{Text: "Clarity in communication"})
	require.NoError(t, err)

	// Renaming onto another question's text is a conflict, not a silent
	// hand-back of the other record.
	_, err = svc.Update(ctx, other.ID, dto.QuestionRequest{Text: "Regularity in conducting classes"})
	require.ErrorIs(t, err, ErrDuplicateQuestion)

	kept, err := svc.GetByID(ctx, other.ID)
	require.NoError(t, err)
	require.Equal(t, "Clarity in communication", kept.Text)
}

func TestQuestionServiceUpdateRejectsInjection(t *testing.T) {
	svc := setupQuestionService(t)
	ctx := context.Background()

	question, _, err := svc.Save(ctx, dto.QuestionRequest{Text: "Original question text"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, question.ID, dto.QuestionRequest{Text: "text; DROP TABLE questions"})
	require.ErrorIs(t, err, ErrUnsafeInput)
}

func TestQuestionServiceDelete(t *testing.T) {
	svc := setupQuestionService(t)
	ctx := context.Background()

	question, _, err := svc.Save(ctx, dto.QuestionRequest{Text: "Question slated for removal"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, question.ID))
	require.ErrorIs(t, svc.Delete(ctx, question.ID), ErrQuestionNotFound)
}
