package models

import "time"

// User roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a student or administrator account. Email and username are
// stored case-folded; uniqueness is enforced by the database, not by callers.
// The password is stored in plaintext, matching the system this replaces; it
// is a known defect, not a design choice.
type User struct {
	ID                string     `gorm:"primaryKey;size:64" json:"id"`
	Name              string     `gorm:"size:255;not null" json:"name"`
	Email             string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username          *string    `gorm:"size:255;uniqueIndex" json:"username,omitempty"`
	Role              string     `gorm:"size:16;not null" json:"role"`
	RollNumber        string     `gorm:"size:64" json:"roll_number,omitempty"`
	Department        string     `gorm:"size:255" json:"department,omitempty"`
	EmployeeID        string     `gorm:"size:64" json:"employee_id,omitempty"`
	Password          string     `gorm:"size:255;not null" json:"-"`
	RegisteredAt      time.Time  `json:"registered_at"`
	PasswordUpdatedAt *time.Time `json:"password_updated_at,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
