package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campushub/faculty-api/internal/models"
)

// AssignmentRepository persists assignments and reads student submissions.
// The session_id column carries a UNIQUE constraint; get-or-create leans on
// it so racing callers converge on a single row.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindByID loads one assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := `SELECT id, session_id, title, description, due_date, files, created_at, updated_at
FROM assignments WHERE id = $1`
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindBySessionID loads the assignment linked to a session.
func (r *AssignmentRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := `SELECT id, session_id, title, description, due_date, files, created_at, updated_at
FROM assignments WHERE session_id = $1`
	if err := r.db.GetContext(ctx, &assignment, query, sessionID); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateIfAbsent inserts an empty assignment for the session unless one
// already exists. ON CONFLICT DO NOTHING makes the race loser fall through to
// a re-read, so exactly one row ever exists per session.
func (r *AssignmentRepository) CreateIfAbsent(ctx context.Context, sessionID string) (*models.Assignment, bool, error) {
	now := time.Now().UTC()
	query := `INSERT INTO assignments (id, session_id, title, description, due_date, files, created_at, updated_at)
VALUES ($1, $2, NULL, NULL, NULL, '{}', $3, $3)
ON CONFLICT (session_id) DO NOTHING
RETURNING id, session_id, title, description, due_date, files, created_at, updated_at`
	var assignment models.Assignment
	err := r.db.GetContext(ctx, &assignment, query, uuid.NewString(), sessionID, now)
	if err == nil {
		return &assignment, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert assignment: %w", err)
	}

	existing, err := r.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("reload assignment after conflict: %w", err)
	}
	return existing, false, nil
}

// UpdateDetails overwrites title, description and due date.
func (r *AssignmentRepository) UpdateDetails(ctx context.Context, id string, title, description *string, dueDate *time.Time) (*models.Assignment, error) {
	var assignment models.Assignment
	query := `UPDATE assignments SET title = $2, description = $3, due_date = $4, updated_at = $5
WHERE id = $1
RETURNING id, session_id, title, description, due_date, files, created_at, updated_at`
	if err := r.db.GetContext(ctx, &assignment, query, id, title, description, dueDate, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateFiles replaces the file list wholesale.
func (r *AssignmentRepository) UpdateFiles(ctx context.Context, id string, files []string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := `UPDATE assignments SET files = $2, updated_at = $3
WHERE id = $1
RETURNING id, session_id, title, description, due_date, files, created_at, updated_at`
	if err := r.db.GetContext(ctx, &assignment, query, id, pq.Array(files), time.Now().UTC()); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// SubmitterIDs returns the distinct students with at least one submission.
func (r *AssignmentRepository) SubmitterIDs(ctx context.Context, assignmentID string) ([]string, error) {
	var ids []string
	query := `SELECT DISTINCT student_id FROM submissions WHERE assignment_id = $1`
	if err := r.db.SelectContext(ctx, &ids, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submitters: %w", err)
	}
	return ids, nil
}

// FindSubmission loads what one student turned in, if anything.
func (r *AssignmentRepository) FindSubmission(ctx context.Context, studentID, assignmentID string) (*models.Submission, error) {
	var submission models.Submission
	query := `SELECT id, student_id, assignment_id, files, created_at
FROM submissions WHERE student_id = $1 AND assignment_id = $2`
	if err := r.db.GetContext(ctx, &submission, query, studentID, assignmentID); err != nil {
		return nil, err
	}
	return &submission, nil
}
