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

// NoteRepository persists subject study notes.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository constructs the repository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedAt = time.Now().UTC()
	if note.Files == nil {
		note.Files = pq.StringArray{}
	}
	query := `INSERT INTO notes (id, subject_id, title, description, files, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		note.ID, note.SubjectID, note.Title, note.Description, pq.Array(note.Files), note.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// FindByID loads one note.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	query := `SELECT id, subject_id, title, description, files, created_at FROM notes WHERE id = $1`
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListBySubject returns a subject's notes, newest first.
func (r *NoteRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	var notes []models.Note
	query := `SELECT id, subject_id, title, description, files, created_at
FROM notes WHERE subject_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &notes, query, subjectID); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// UpdateFiles replaces the note's file list wholesale.
func (r *NoteRepository) UpdateFiles(ctx context.Context, id string, files []string) (*models.Note, error) {
	var note models.Note
	query := `UPDATE notes SET files = $2 WHERE id = $1
RETURNING id, subject_id, title, description, files, created_at`
	if err := r.db.GetContext(ctx, &note, query, id, pq.Array(files)); err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
