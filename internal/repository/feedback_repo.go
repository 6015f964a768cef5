package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/models"
)

// FeedbackRepository persists completed survey submissions. Feedback is
// immutable: there is deliberately no update method.
type FeedbackRepository interface {
	List(ctx context.Context) ([]models.Feedback, error)
	GetByID(ctx context.Context, id string) (models.Feedback, error)
	FindByStudentAndSurvey(ctx context.Context, studentID, surveyID string) (models.Feedback, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository constructs a feedback repository backed by GORM.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) List(ctx context.Context) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	if err := r.db.WithContext(ctx).Order("submitted_at").Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, id string) (models.Feedback, error) {
	var feedback models.Feedback
	if err := r.db.WithContext(ctx).First(&feedback, "id = ?", id).Error; err != nil {
		return models.Feedback{}, err
	}
	return feedback, nil
}

func (r *feedbackRepository) FindByStudentAndSurvey(ctx context.Context, studentID, surveyID string) (models.Feedback, error) {
	var feedback models.Feedback
	err := r.db.WithContext(ctx).
		First(&feedback, "student_id = ? AND survey_id = ?", studentID, surveyID).
		Error
	if err != nil {
		return models.Feedback{}, err
	}
	return feedback, nil
}

func (r *feedbackRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at").
		Find(&feedbacks).
		Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepository) ListBySurvey(ctx context.Context, surveyID string) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("submitted_at").
		Find(&feedbacks).
		Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Feedback{}, "id = ?", id).Error
}

func (r *feedbackRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Feedback{})
	return result.RowsAffected, result.Error
}
