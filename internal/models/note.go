package models

import (
	"time"

	"github.com/lib/pq"
)

// Note is shared study material attached to a subject.
type Note struct {
	ID          string         `db:"id" json:"id"`
	SubjectID   string         `db:"subject_id" json:"subject_id"`
	Title       *string        `db:"title" json:"title"`
	Description *string        `db:"description" json:"description"`
	Files       pq.StringArray `db:"files" json:"files"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
