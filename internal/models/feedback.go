package models

import (
	"time"

	"gorm.io/datatypes"
)

// TeacherRef identifies an evaluated faculty member inside a feedback record.
type TeacherRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
}

// Response is a single (question, teacher) rating cell.
type Response struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	TeacherID    string `json:"teacher_id"`
	TeacherName  string `json:"teacher_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
}

// RatingDetail is one question's rating inside a per-teacher aggregate.
type RatingDetail struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	Rating       int    `json:"rating"`
}

// TeacherRating aggregates one teacher's ratings across every question of a
// submission, precomputed for report reads.
type TeacherRating struct {
	TeacherID      string         `json:"teacher_id"`
	TeacherName    string         `json:"teacher_name"`
	TeacherSubject string         `json:"teacher_subject"`
	Ratings        []RatingDetail `json:"ratings"`
	TotalRating    int            `json:"total_rating"`
	AverageRating  float64        `json:"average_rating"`
}

// Feedback is one student's completed survey. It holds denormalized copies of
// the teachers and questions it rated, so it stays readable after the source
// records change. Immutable once created: there is no update operation. The
// (student_id, survey_id) unique index guarantees at most one submission per
// student per survey.
type Feedback struct {
	ID                string                             `gorm:"primaryKey;size:64" json:"id"`
	SurveyID          string                             `gorm:"size:64;not null;uniqueIndex:idx_feedback_student_survey,priority:2" json:"survey_id"`
	StudentID         string                             `gorm:"size:64;not null;uniqueIndex:idx_feedback_student_survey,priority:1;index" json:"student_id"`
	SurveyDepartment  string                             `gorm:"size:255" json:"survey_department"`
	StudentName       string                             `gorm:"size:255" json:"student_name"`
	StudentDepartment string                             `gorm:"size:255" json:"student_department"`
	StudentYear       string                             `gorm:"size:32" json:"student_year,omitempty"`
	SelectedTeachers  datatypes.JSONSlice[TeacherRef]    `json:"selected_teachers"`
	Responses         datatypes.JSONSlice[Response]      `json:"responses"`
	TeacherRatings    datatypes.JSONSlice[TeacherRating] `json:"teacher_ratings"`
	TotalQuestions    int                                `json:"total_questions"`
	SubmittedAt       time.Time                          `json:"submitted_at"`
}
