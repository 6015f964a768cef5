package models

import (
	"time"

	"gorm.io/datatypes"
)

// FacultyRef is the faculty snapshot copied into a survey at creation time.
type FacultyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuestionSnapshot is the question copy a survey carries. Editing or deleting
// the source question leaves the snapshot untouched.
type QuestionSnapshot struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AllowComments bool   `json:"allow_comments"`
}

// Survey targets one department. Department is a denormalized name string,
// not a foreign key; readers reconcile drifted names through deptmatch. A
// "create for ALL departments" request fans out into one Survey row per
// department, each with that department's own faculty snapshot.
type Survey struct {
	ID         string                                `gorm:"primaryKey;size:64" json:"id"`
	Department string                                `gorm:"size:255;not null;index" json:"department"`
	Faculties  datatypes.JSONSlice[FacultyRef]       `json:"faculties"`
	Questions  datatypes.JSONSlice[QuestionSnapshot] `json:"questions"`
	CreatedBy  string                                `gorm:"size:64" json:"created_by"`
	CreatedAt  time.Time                             `json:"created_at"`
	IsActive   bool                                  `json:"is_active"`
}
