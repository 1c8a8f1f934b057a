package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher is an authenticated faculty member. Batch and subject membership is
// denormalized into id arrays, mirroring the document-ish provisioning shape;
// profile updates re-validate every id against live rows.
type Teacher struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	DeptID       string         `db:"dept_id" json:"dept_id"`
	BatchIDs     pq.StringArray `db:"batch_ids" json:"batch_ids"`
	SubjectIDs   pq.StringArray `db:"subject_ids" json:"subject_ids"`
	ImageURL     *string        `db:"image_url" json:"image_url,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherSubject is a subject annotated with its batch name for profile views.
type TeacherSubject struct {
	Subject
	BatchName string `json:"batch_name"`
}

// TeacherProfile is the resolved profile: subjects with batch names plus the
// department name.
type TeacherProfile struct {
	Teacher  Teacher          `json:"teacher"`
	DeptName string           `json:"dept_name"`
	Subjects []TeacherSubject `json:"subjects"`
}
