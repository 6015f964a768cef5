package models

import "time"

// Question is an independent rating prompt. Surveys copy questions by value
// at creation time, so later edits never change existing surveys. TextKey is
// the case-folded text backing the uniqueness index.
type Question struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Text          string    `gorm:"size:1024;not null" json:"text"`
	TextKey       string    `gorm:"size:1024;uniqueIndex;not null" json:"-"`
	Category      string    `gorm:"size:255" json:"category,omitempty"`
	AllowComments bool      `json:"allow_comments"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
