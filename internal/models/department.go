package models

import (
	"time"

	"gorm.io/datatypes"
)

// Faculty is owned exclusively by its department; it has no independent
// lifecycle or table of its own.
type Faculty struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
}

// Department groups the faculties a survey can target. NameKey carries the
// case-folded name so the unique index catches duplicates regardless of
// casing.
type Department struct {
	ID        string                       `gorm:"primaryKey;size:64" json:"id"`
	Name      string                       `gorm:"size:255;not null" json:"name"`
	NameKey   string                       `gorm:"size:255;uniqueIndex;not null" json:"-"`
	FullName  string                       `gorm:"size:255" json:"full_name"`
	Faculties datatypes.JSONSlice[Faculty] `json:"faculties"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}
