package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/faculty-api/internal/models"
)

// StudentRepository reads provisioned student rows.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID loads one student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	query := `SELECT id, name, email, batch_id FROM students WHERE id = $1`
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByBatch returns the full roster of a batch.
func (r *StudentRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Student, error) {
	var students []models.Student
	query := `SELECT id, name, email, batch_id FROM students WHERE batch_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &students, query, batchID); err != nil {
		return nil, err
	}
	return students, nil
}
