package models

import "time"

// AttendanceStatus is the persisted per-session mark.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"

	// AttendanceStatusUnmarked is a read-side sentinel for roster members
	// without a row. It is never written to the database; "no record" and an
	// explicit ABSENT mark are different states.
	AttendanceStatusUnmarked AttendanceStatus = "UNMARKED"
)

// Valid reports whether the status may be persisted.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// Attendance is one mark for a (student, session) pair. The pair is unique;
// re-submitting the same status toggles the row off instead of duplicating it.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	SessionID string           `db:"session_id" json:"session_id"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceCounts buckets a student's rows for one subject by status.
type AttendanceCounts struct {
	StudentID   string `db:"student_id" json:"id"`
	StudentName string `db:"student_name" json:"name"`
	PresentDays int    `db:"present_days" json:"presentDays"`
	AbsentDays  int    `db:"absent_days" json:"absentDays"`
	LateDays    int    `db:"late_days" json:"lateDays"`
}

// RollCallRow is one line of a session's roll call snapshot.
type RollCallRow struct {
	StudentID   string           `db:"student_id" json:"id"`
	StudentName string           `db:"student_name" json:"name"`
	Status      AttendanceStatus `db:"status" json:"status"`
}

// SubjectOverviewStudent pairs a roster member with the number of completed
// sessions they attended (PRESENT or LATE).
type SubjectOverviewStudent struct {
	Student
	AttendedDays int `db:"attended_days" json:"attended_days"`
}

// SubjectOverview is the display-time rollup for a subject: the roster with
// attended counts against the completed-classes denominator.
type SubjectOverview struct {
	SubjectID        string                   `json:"subject_id"`
	CompletedClasses int                      `json:"completed_classes"`
	Students         []SubjectOverviewStudent `json:"students"`
}
