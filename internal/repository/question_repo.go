package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/models"
)

// QuestionRepository provides access to question records.
type QuestionRepository interface {
	List(ctx context.Context) ([]models.Question, error)
	GetByID(ctx context.Context, id string) (models.Question, error)
	FindByTextKey(ctx context.Context, textKey string) (models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Save(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository constructs a question repository backed by GORM.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).Order("created_at").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return models.Question{}, err
	}
	return question, nil
}

func (r *questionRepository) FindByTextKey(ctx context.Context, textKey string) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "text_key = ?", textKey).Error; err != nil {
		return models.Question{}, err
	}
	return question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) Save(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", id).Error
}
