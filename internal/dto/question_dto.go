package dto

// QuestionRequest describes the payload for creating or updating a question.
type QuestionRequest struct {
	Text          string `json:"text" validate:"required,min=5,max=1024"`
	Category      string `json:"category" validate:"omitempty,max=255"`
	AllowComments bool   `json:"allow_comments"`
}
