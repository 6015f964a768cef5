package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/models"
)

// DepartmentRepository provides access to department records.
type DepartmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	GetByID(ctx context.Context, id string) (models.Department, error)
	FindByNameKey(ctx context.Context, nameKey string) (models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Save(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository constructs a department repository backed by GORM.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.WithContext(ctx).Order("name").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error; err != nil {
		return models.Department{}, err
	}
	return department, nil
}

func (r *departmentRepository) FindByNameKey(ctx context.Context, nameKey string) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, "name_key = ?", nameKey).Error; err != nil {
		return models.Department{}, err
	}
	return department, nil
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *departmentRepository) Save(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id).Error
}
