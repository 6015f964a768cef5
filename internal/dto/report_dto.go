package dto

// QuestionAverage is one question's mean rating inside a faculty report.
type QuestionAverage struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Average      float64 `json:"average"`
	Responses    int     `json:"responses"`
}

// FacultyReport aggregates every surviving feedback for one faculty member.
// Feedback whose survey or department no longer exists is excluded before
// aggregation.
type FacultyReport struct {
	TeacherID        string            `json:"teacher_id"`
	TeacherName      string            `json:"teacher_name"`
	TeacherSubject   string            `json:"teacher_subject,omitempty"`
	Department       string            `json:"department"`
	Submissions      int               `json:"submissions"`
	AverageRating    float64           `json:"average_rating"`
	QuestionAverages []QuestionAverage `json:"question_averages"`
}

// DepartmentReport groups faculty reports for one department.
type DepartmentReport struct {
	Department      string          `json:"department"`
	Faculty         []FacultyReport `json:"faculty"`
	Submissions     int             `json:"submissions"`
	ExcludedOrphans int             `json:"excluded_orphans"`
}
