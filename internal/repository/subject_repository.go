package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campushub/faculty-api/internal/models"
)

// SubjectRepository reads subjects and their batch annotations.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID loads one subject.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	query := `SELECT id, name, batch_id FROM subjects WHERE id = $1`
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListByBatch returns a batch's subjects.
func (r *SubjectRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Subject, error) {
	var subjects []models.Subject
	query := `SELECT id, name, batch_id FROM subjects WHERE batch_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &subjects, query, batchID); err != nil {
		return nil, fmt.Errorf("list subjects by batch: %w", err)
	}
	return subjects, nil
}

// ListByBatches returns the subjects of several batches at once.
func (r *SubjectRepository) ListByBatches(ctx context.Context, batchIDs []string) ([]models.Subject, error) {
	var subjects []models.Subject
	query := `SELECT id, name, batch_id FROM subjects WHERE batch_id = ANY($1) ORDER BY name`
	if err := r.db.SelectContext(ctx, &subjects, query, pq.Array(batchIDs)); err != nil {
		return nil, fmt.Errorf("list subjects by batches: %w", err)
	}
	return subjects, nil
}

// ListWithBatchNames resolves subjects with their batch names attached,
// used by the teacher profile view.
func (r *SubjectRepository) ListWithBatchNames(ctx context.Context, ids []string) ([]models.TeacherSubject, error) {
	var subjects []models.TeacherSubject
	query := `SELECT s.id, s.name, s.batch_id, b.name AS batch_name
FROM subjects s JOIN batches b ON b.id = s.batch_id
WHERE s.id = ANY($1) ORDER BY s.name`
	if err := r.db.SelectContext(ctx, &subjects, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list subjects with batch names: %w", err)
	}
	return subjects, nil
}
