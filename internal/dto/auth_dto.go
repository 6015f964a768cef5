package dto

import (
	"time"

	"github.com/campuskit/feedback-api/internal/models"
)

// RegisterRequest describes the payload for student registration.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RollNumber string `json:"roll_number" validate:"omitempty,max=64"`
	Department string `json:"department" validate:"required"`
	Year       string `json:"year" validate:"omitempty,max=32"`
}

// LoginRequest carries credentials for either role. Students authenticate by
// email, admins by username; exactly one must be set.
type LoginRequest struct {
	Email      string `json:"email" validate:"omitempty,email"`
	Username   string `json:"username" validate:"omitempty,min=2"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// LoginResponse returns the bearer token and the authenticated user.
type LoginResponse struct {
	Token     string       `json:"token"`
	SessionID string       `json:"session_id"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UpdatePasswordRequest describes the password-change payload.
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserResponse is the serialized user returned to API clients. The password
// never leaves the server.
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	Role         string    `json:"role"`
	RollNumber   string    `json:"roll_number,omitempty"`
	Department   string    `json:"department,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	username := ""
	if model.Username != nil {
		username = *model.Username
	}
	return UserResponse{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		Username:     username,
		Role:         model.Role,
		RollNumber:   model.RollNumber,
		Department:   model.Department,
		RegisteredAt: model.RegisteredAt,
	}
}
