package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/faculty-api/internal/models"
)

// DirectoryRepository reads the provisioned department/batch directory.
// These rows are created out-of-band; the API never mutates them.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ListDepartments returns all departments.
func (r *DirectoryRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	query := `SELECT id, name FROM departments ORDER BY name`
	if err := r.db.SelectContext(ctx, &depts, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return depts, nil
}

// FindDepartmentByID loads one department.
func (r *DirectoryRepository) FindDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	var dept models.Department
	query := `SELECT id, name FROM departments WHERE id = $1`
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, err
	}
	return &dept, nil
}

// FindDepartmentByName resolves a department by its display name.
func (r *DirectoryRepository) FindDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	var dept models.Department
	query := `SELECT id, name FROM departments WHERE name = $1`
	if err := r.db.GetContext(ctx, &dept, query, name); err != nil {
		return nil, err
	}
	return &dept, nil
}

// ListBatchesByDepartment returns the batches of a department.
func (r *DirectoryRepository) ListBatchesByDepartment(ctx context.Context, deptID string) ([]models.Batch, error) {
	var batches []models.Batch
	query := `SELECT id, name, dept_id FROM batches WHERE dept_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &batches, query, deptID); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// FindBatchByID loads one batch.
func (r *DirectoryRepository) FindBatchByID(ctx context.Context, id string) (*models.Batch, error) {
	var batch models.Batch
	query := `SELECT id, name, dept_id FROM batches WHERE id = $1`
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}
