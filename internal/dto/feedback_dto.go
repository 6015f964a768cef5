package dto

// RatingInput is one (question, teacher) rating cell in a submission.
type RatingInput struct {
	QuestionID string `json:"question_id" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=10"`
	Comment    string `json:"comment" validate:"omitempty,max=2048"`
}

// SubmitFeedbackRequest describes a completed survey submission. Every
// selected teacher must carry a rating for every survey question.
type SubmitFeedbackRequest struct {
	SurveyID   string        `json:"survey_id" validate:"required"`
	TeacherIDs []string      `json:"teacher_ids" validate:"required,min=1,dive,required"`
	Ratings    []RatingInput `json:"ratings" validate:"required,min=1,dive"`
	Year       string        `json:"year" validate:"omitempty,max=32"`
}
