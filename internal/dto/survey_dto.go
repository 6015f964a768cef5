package dto

// AllDepartments is the department selector that fans a survey out to every
// department.
const AllDepartments = "ALL"

// CreateSurveyRequest describes the payload for creating a survey. Setting
// DepartmentID to AllDepartments creates one survey per existing department.
type CreateSurveyRequest struct {
	DepartmentID string   `json:"department_id" validate:"required"`
	QuestionIDs  []string `json:"question_ids" validate:"required,min=1,max=50,dive,required"`
}

// UpdateSurveyRequest toggles survey state.
type UpdateSurveyRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// CreateSurveyResponse reports how many survey documents the request produced.
type CreateSurveyResponse struct {
	SurveyIDs []string `json:"survey_ids"`
	Created   int      `json:"created"`
}
