package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/models"
)

// SurveyRepository provides access to survey records.
type SurveyRepository interface {
	List(ctx context.Context) ([]models.Survey, error)
	GetByID(ctx context.Context, id string) (models.Survey, error)
	Create(ctx context.Context, survey *models.Survey) error
	CreateBatch(ctx context.Context, surveys []models.Survey) error
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type surveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository constructs a survey repository backed by GORM.
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) List(ctx context.Context) ([]models.Survey, error) {
	var surveys []models.Survey
	if err := r.db.WithContext(ctx).Order("created_at").Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepository) GetByID(ctx context.Context, id string) (models.Survey, error) {
	var survey models.Survey
	if err := r.db.WithContext(ctx).First(&survey, "id = ?", id).Error; err != nil {
		return models.Survey{}, err
	}
	return survey, nil
}

func (r *surveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	return r.db.WithContext(ctx).Create(survey).Error
}

// CreateBatch inserts the fan-out surveys in one transaction so an ALL
// request either creates a survey for every department or none.
func (r *surveyRepository) CreateBatch(ctx context.Context, surveys []models.Survey) error {
	if len(surveys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&surveys).Error
	})
}

func (r *surveyRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Survey{}).
		Where("id = ?", id).
		Updates(patch).
		Error
}

func (r *surveyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Survey{}, "id = ?", id).Error
}

func (r *surveyRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Survey{})
	return result.RowsAffected, result.Error
}
