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

// SessionRepository persists class meetings.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = time.Now().UTC()
	query := `INSERT INTO sessions (id, subject_id, date, title, created_at)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query,
		session.ID, session.SubjectID, session.Date, session.Title, session.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindByID loads one session.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	query := `SELECT id, subject_id, date, title, assignment_id, created_at FROM sessions WHERE id = $1`
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListBySubject returns all sessions of a subject ordered by date.
func (r *SessionRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Session, error) {
	var sessions []models.Session
	query := `SELECT id, subject_id, date, title, assignment_id, created_at
FROM sessions WHERE subject_id = $1 ORDER BY date`
	if err := r.db.SelectContext(ctx, &sessions, query, subjectID); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CountCompleted counts a subject's sessions whose date is at or before now.
// This is the denominator for attendance ratios.
func (r *SessionRepository) CountCompleted(ctx context.Context, subjectID string, now time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sessions WHERE subject_id = $1 AND date <= $2`
	if err := r.db.GetContext(ctx, &count, query, subjectID, now); err != nil {
		return 0, fmt.Errorf("count completed sessions: %w", err)
	}
	return count, nil
}

// ListUpcoming returns future sessions across a set of subjects, soonest
// first, with subject names attached.
func (r *SessionRepository) ListUpcoming(ctx context.Context, subjectIDs []string, now time.Time) ([]models.UpcomingSession, error) {
	var sessions []models.UpcomingSession
	query := `SELECT se.id, se.subject_id, se.date, se.title, se.assignment_id, se.created_at, su.name AS subject_name
FROM sessions se JOIN subjects su ON su.id = se.subject_id
WHERE se.subject_id = ANY($1) AND se.date >= $2
ORDER BY se.date`
	if err := r.db.SelectContext(ctx, &sessions, query, pq.Array(subjectIDs), now); err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	return sessions, nil
}

// LinkAssignment stores the assignment reference on the session.
func (r *SessionRepository) LinkAssignment(ctx context.Context, sessionID, assignmentID string) error {
	query := `UPDATE sessions SET assignment_id = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, sessionID, assignmentID); err != nil {
		return fmt.Errorf("link assignment: %w", err)
	}
	return nil
}
