package models

import "time"

// Session is a scheduled class meeting of a subject. Sessions whose date has
// passed count toward the subject's completed-classes total.
type Session struct {
	ID           string    `db:"id" json:"id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	Date         time.Time `db:"date" json:"date"`
	Title        string    `db:"title" json:"title"`
	AssignmentID *string   `db:"assignment_id" json:"assignment_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UpcomingSession is a future session annotated with its subject name for
// the dashboard feed.
type UpcomingSession struct {
	Session
	SubjectName string `db:"subject_name" json:"subject_name"`
}
