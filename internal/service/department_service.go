package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/observability"
	"github.com/campuskit/feedback-api/internal/repository"
	"github.com/campuskit/feedback-api/internal/sanitize"
)

var (
	// ErrDepartmentNotFound indicates the department record is missing.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrDuplicateDepartment indicates a rename collided with another department.
	ErrDuplicateDepartment = errors.New("department name already exists")
	// ErrDuplicateFaculty indicates the department already has a faculty with that name.
	ErrDuplicateFaculty = errors.New("faculty name already exists in department")
	// ErrFacultyNotFound indicates the faculty is not in the department.
	ErrFacultyNotFound = errors.New("faculty not found in department")
)

// DepartmentService manages departments and their owned faculty lists.
type DepartmentService interface {
	List(ctx context.Context) ([]models.Department, error)
	GetByID(ctx context.Context, id string) (models.Department, error)
	// Save is idempotent on the case-folded name: a duplicate returns the
	// existing department with created=false instead of failing.
	Save(ctx context.Context, req dto.DepartmentRequest) (models.Department, bool, error)
	Rename(ctx context.Context, id string, req dto.DepartmentRequest) (models.Department, error)
	Delete(ctx context.Context, id string) error
	AddFaculty(ctx context.Context, departmentID string, req dto.FacultyRequest) (models.Faculty, error)
	RemoveFaculty(ctx context.Context, departmentID, facultyID string) error
	ListFaculties(ctx context.Context, departmentID string) ([]models.Faculty, error)
}

type departmentService struct {
	repo      repository.DepartmentRepository
	cache     *cache.Store
	ids       *ident.Generator
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(repo repository.DepartmentRepository, cacheStore *cache.Store, ids *ident.Generator, validate *validator.Validate, logger zerolog.Logger) DepartmentService {
	return &departmentService{
		repo:      repo,
		cache:     cacheStore,
		ids:       ids,
		validator: validate,
		logger:    logger.With().Str("component", "department_service").Logger(),
		now:       time.Now,
	}
}

// List always bypasses the cache read: stale department reads caused
// duplicate creation in the system this replaces, and the bypass was kept.
// The cache is still refreshed so other readers see recent data.
func (s *departmentService) List(ctx context.Context) ([]models.Department, error) {
	observability.CacheLookups().WithLabelValues(repository.CollectionDepartments, "bypass").Inc()

	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, repository.CollectionDepartments, departments)
	return departments, nil
}

func (s *departmentService) GetByID(ctx context.Context, id string) (models.Department, error) {
	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Department{}, ErrDepartmentNotFound
		}
		return models.Department{}, err
	}
	return department, nil
}

func (s *departmentService) Save(ctx context.Context, req dto.DepartmentRequest) (models.Department, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Department{}, false, err
	}

	name := sanitize.Clean(req.Name)
	if !sanitize.IsSafePattern(name) {
		return models.Department{}, false, ErrUnsafeInput
	}

	department := models.Department{
		ID:        s.ids.Next(),
		Name:      name,
		NameKey:   foldKey(name),
		FullName:  sanitize.Clean(req.FullName),
		Faculties: []models.Faculty{},
	}

	if err := s.repo.Create(ctx, &department); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := s.repo.FindByNameKey(ctx, department.NameKey)
			if lookupErr != nil {
				return models.Department{}, false, lookupErr
			}
			s.logger.Warn().
				Str("name", name).
				Str("existing_id", existing.ID).
				Msg("duplicate department blocked, returning existing")
			return existing, false, nil
		}
		return models.Department{}, false, err
	}

	s.cache.Invalidate(ctx, repository.CollectionDepartments)
	s.logger.Info().Str("department_id", department.ID).Str("name", name).Msg("department created")
	return department, true, nil
}

func (s *departmentService) Rename(ctx context.Context, id string, req dto.DepartmentRequest) (models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Department{}, err
	}

	department, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Department{}, err
	}

	name := sanitize.Clean(req.Name)
	if !sanitize.IsSafePattern(name) {
		return models.Department{}, ErrUnsafeInput
	}

	department.Name = name
	department.NameKey = foldKey(name)
	if req.FullName != "" {
		department.FullName = sanitize.Clean(req.FullName)
	}

	if err := s.repo.Save(ctx, &department); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Department{}, ErrDuplicateDepartment
		}
		return models.Department{}, err
	}

	s.cache.Invalidate(ctx, repository.CollectionDepartments)
	return department, nil
}

func (s *departmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, repository.CollectionDepartments)
	s.logger.Info().Str("department_id", id).Msg("department deleted")
	return nil
}

func (s *departmentService) AddFaculty(ctx context.Context, departmentID string, req dto.FacultyRequest) (models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Faculty{}, err
	}

	department, err := s.GetByID(ctx, departmentID)
	if err != nil {
		return models.Faculty{}, err
	}

	name := sanitize.Clean(req.Name)
	if !sanitize.IsSafePattern(name) {
		return models.Faculty{}, ErrUnsafeInput
	}

	for _, existing := range department.Faculties {
		if foldKey(existing.Name) == foldKey(name) {
			return models.Faculty{}, ErrDuplicateFaculty
		}
	}

	faculty := models.Faculty{
		ID:      s.ids.Next(),
		Name:    name,
		Subject: sanitize.Clean(req.Subject),
	}
	department.Faculties = append(department.Faculties, faculty)

	if err := s.repo.Save(ctx, &department); err != nil {
		return models.Faculty{}, err
	}

	s.cache.Invalidate(ctx, repository.CollectionDepartments)
	s.logger.Info().
		Str("department_id", departmentID).
		Str("faculty_id", faculty.ID).
		Msg("faculty added")
	return faculty, nil
}

func (s *departmentService) RemoveFaculty(ctx context.Context, departmentID, facultyID string) error {
	department, err := s.GetByID(ctx, departmentID)
	if err != nil {
		return err
	}

	kept := make([]models.Faculty, 0, len(department.Faculties))
	removed := false
	for _, faculty := range department.Faculties {
		if faculty.ID == facultyID {
			removed = true
			continue
		}
		kept = append(kept, faculty)
	}
	if !removed {
		return ErrFacultyNotFound
	}

	department.Faculties = kept
	if err := s.repo.Save(ctx, &department); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, repository.CollectionDepartments)
	return nil
}

func (s *departmentService) ListFaculties(ctx context.Context, departmentID string) ([]models.Faculty, error) {
	department, err := s.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	return department.Faculties, nil
}
