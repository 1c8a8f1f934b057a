package models

import (
	"time"

	"github.com/lib/pq"
)

// Assignment is the at-most-one homework attached to a session. It is created
// lazily with empty fields the first time the assignment view is opened.
type Assignment struct {
	ID          string         `db:"id" json:"id"`
	SessionID   string         `db:"session_id" json:"session_id"`
	Title       *string        `db:"title" json:"title"`
	Description *string        `db:"description" json:"description"`
	DueDate     *time.Time     `db:"due_date" json:"due_date"`
	Files       pq.StringArray `db:"files" json:"files"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Submission holds what one student turned in for an assignment. Rows are
// written by the student-facing flow and only read here.
type Submission struct {
	ID           string         `db:"id" json:"id"`
	StudentID    string         `db:"student_id" json:"student_id"`
	AssignmentID string         `db:"assignment_id" json:"assignment_id"`
	Files        pq.StringArray `db:"files" json:"files"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// RosterPartition splits an assignment's roster into disjoint submitted and
// not-submitted lists; their union is always the full roster.
type RosterPartition struct {
	Submitted    []Student `json:"submitted"`
	NotSubmitted []Student `json:"not_submitted"`
}
