package dto

// DepartmentRequest describes the payload for creating or renaming a department.
type DepartmentRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
}

// FacultyRequest describes the payload for adding a faculty member to a department.
type FacultyRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Subject string `json:"subject" validate:"omitempty,max=255"`
}
