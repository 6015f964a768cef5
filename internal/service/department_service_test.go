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

func setupDepartmentService(t *testing.T) DepartmentService {
	t.Helper()

	db := newTestDB(t, "department")
	repo := repository.NewDepartmentRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	return NewDepartmentService(repo, nil, ident.New(), validate, testLogger())
}

func TestDepartmentServiceSaveIdempotent(t *testing.T) {
	svc := setupDepartmentService(t)
	ctx := context.Background()

	first, created, err := svc.Save(ctx, dto.DepartmentRequest{Name: "BCA"})
	require.NoError(t, err)
	require.True(t, created)

	// Same name with different casing and padding resolves to the same record.
	second, created, err := svc.Save(ctx, dto.DepartmentRequest{Name: "  bca "})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)

	departments, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 1)
}

func TestDepartmentServiceRenameDuplicate(t *testing.T) {
	svc := setupDepartmentService(t)
	ctx := context.Background()

	_, _, err := svc.Save(ctx, dto.DepartmentRequest{Name: "BCA"})
	require.NoError(t, err)
	other, _, err := svc.Save(ctx, dto.DepartmentRequest{Name: "BSC"})
	require.NoError(t, err)

	_, err = svc.Rename(ctx, other.ID, dto.DepartmentRequest{Name: "BCA"})
	require.ErrorIs(t, err, ErrDuplicateDepartment)
}

func TestDepartmentServiceAddFaculty(t *testing.T) {
	svc := setupDepartmentService(t)
	ctx := context.Background()

	department, _, err := svc.Save(ctx, dto.DepartmentRequest{Name: "BCA"})
	require.NoError(t, err)

	faculty, err := svc.AddFaculty(ctx, department.ID, dto.FacultyRequest{Name: "Dr. Rao", Subject: "Databases"})
	require.NoError(t, err)
	require.NotEmpty(t, faculty.ID)

	_, err = svc.AddFaculty(ctx, department.ID, dto.FacultyRequest{Name: "dr. rao"})
	require.ErrorIs(t, err, ErrDuplicateFaculty)

	faculties, err := svc.ListFaculties(ctx, department.ID)
	require.NoError(t, err)
	require.Len(t, faculties, 1)
}

func TestDepartmentServiceRemoveFaculty(t *testing.T) {
	svc := setupDepartmentService(t)
	ctx := context.Background()

	department, _, err := svc.Save(ctx, dto.DepartmentRequest{Name: "BCA"})
	require.NoError(t, err)
	faculty, err := svc.AddFaculty(ctx, department.ID, dto.FacultyRequest{Name: "Dr. Rao"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.RemoveFaculty(ctx, department.ID, "missing"), ErrFacultyNotFound)
	require.NoError(t, svc.RemoveFaculty(ctx, department.ID, faculty.ID))

	faculties, err := svc.ListFaculties(ctx, department.ID)
	require.NoError(t, err)
	require.Empty(t, faculties)
}

func TestDepartmentServiceSaveRejectsInjection(t *testing.T) {
	svc := setupDepartmentService(t)

	_, _, err := svc.Save(context.Background(), dto.DepartmentRequest{Name: "BCA; DROP TABLE users"})
	require.ErrorIs(t, err, ErrUnsafeInput)
}

func TestDepartmentServiceRenameRejectsInjection(t *testing.T) {
	svc := setupDepartmentService(t)
	ctx := context.Background()

	department, _, err := svc.Save(ctx, dto.DepartmentRequest{Name: "BCA"})
	require.NoError(t, err)

	_, err = svc.Rename(ctx, department.ID, dto.DepartmentRequest{Name: "BCA; DROP TABLE users"})
	require.ErrorIs(t, err, ErrUnsafeInput)

	kept, err := svc.GetByID(ctx, department.ID)
	require.NoError(t, err)
	require.Equal(t, "BCA", kept.Name)
}
