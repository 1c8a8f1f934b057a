package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campushub/faculty-api/internal/models"
)

// AttendanceRepository persists per-(student, session) attendance marks.
// The (student_id, session_id) pair carries a UNIQUE constraint.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Find loads the mark for a (student, session) pair.
func (r *AttendanceRepository) Find(ctx context.Context, studentID, sessionID string) (*models.Attendance, error) {
	var record models.Attendance
	query := `SELECT id, student_id, session_id, status, created_at, updated_at
FROM attendance WHERE student_id = $1 AND session_id = $2`
	if err := r.db.GetContext(ctx, &record, query, studentID, sessionID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new mark.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	query := `INSERT INTO attendance (id, student_id, session_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.StudentID, record.SessionID, record.Status, record.CreatedAt, record.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the status of an existing mark.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, studentID, sessionID string, status models.AttendanceStatus) (*models.Attendance, error) {
	var record models.Attendance
	query := `UPDATE attendance SET status = $3, updated_at = $4
WHERE student_id = $1 AND session_id = $2
RETURNING id, student_id, session_id, status, created_at, updated_at`
	if err := r.db.GetContext(ctx, &record, query, studentID, sessionID, status, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update attendance: %w", err)
	}
	return &record, nil
}

// Delete removes the mark for a (student, session) pair.
func (r *AttendanceRepository) Delete(ctx context.Context, studentID, sessionID string) error {
	query := `DELETE FROM attendance WHERE student_id = $1 AND session_id = $2`
	if _, err := r.db.ExecContext(ctx, query, studentID, sessionID); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}

// CountsForSubject buckets each listed student's marks by status, counting
// only rows whose session belongs to the subject at query time.
func (r *AttendanceRepository) CountsForSubject(ctx context.Context, subjectID string, studentIDs []string) ([]models.AttendanceCounts, error) {
	var rows []models.AttendanceCounts
	query := `SELECT st.id AS student_id, st.name AS student_name,
        COUNT(a.id) FILTER (WHERE a.status = 'PRESENT') AS present_days,
        COUNT(a.id) FILTER (WHERE a.status = 'ABSENT') AS absent_days,
        COUNT(a.id) FILTER (WHERE a.status = 'LATE') AS late_days
FROM students st
LEFT JOIN attendance a ON a.student_id = st.id
        AND a.session_id IN (SELECT id FROM sessions WHERE subject_id = $1)
WHERE st.id = ANY($2)
GROUP BY st.id, st.name
ORDER BY st.name`
	if err := r.db.SelectContext(ctx, &rows, query, subjectID, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("count attendance for subject: %w", err)
	}
	return rows, nil
}

// SessionRollCall snapshots every mark of a single meeting.
func (r *AttendanceRepository) SessionRollCall(ctx context.Context, sessionID string) ([]models.RollCallRow, error) {
	var rows []models.RollCallRow
	query := `SELECT a.student_id, st.name AS student_name, a.status
FROM attendance a JOIN students st ON st.id = a.student_id
WHERE a.session_id = $1 ORDER BY st.name`
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("session roll call: %w", err)
	}
	return rows, nil
}

// AttendedInCompleted counts, per roster member, the PRESENT/LATE marks on the
// subject's sessions whose date is at or before now. Marks on future sessions
// are excluded from the rollup but never deleted.
func (r *AttendanceRepository) AttendedInCompleted(ctx context.Context, subjectID, batchID string, now time.Time) ([]models.SubjectOverviewStudent, error) {
	var rows []models.SubjectOverviewStudent
	query := `SELECT st.id, st.name, st.email, st.batch_id,
        COUNT(a.id) FILTER (WHERE a.status IN ('PRESENT', 'LATE')) AS attended_days
FROM students st
LEFT JOIN attendance a ON a.student_id = st.id
        AND a.session_id IN (SELECT id FROM sessions WHERE subject_id = $1 AND date <= $3)
WHERE st.batch_id = $2
GROUP BY st.id, st.name, st.email, st.batch_id
ORDER BY st.name`
	if err := r.db.SelectContext(ctx, &rows, query, subjectID, batchID, now); err != nil {
		return nil, fmt.Errorf("attended in completed sessions: %w", err)
	}
	return rows, nil
}
