package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type directoryRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	FindDepartmentByID(ctx context.Context, id string) (*models.Department, error)
	FindDepartmentByName(ctx context.Context, name string) (*models.Department, error)
	ListBatchesByDepartment(ctx context.Context, deptID string) ([]models.Batch, error)
}

type directorySubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Subject, error)
	ListByBatches(ctx context.Context, batchIDs []string) ([]models.Subject, error)
}

type directorySessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
}

// DirectoryService exposes the provisioned department, batch and subject
// directory used by sign-up and profile forms.
type DirectoryService struct {
	repo     directoryRepository
	subjects directorySubjectRepository
	sessions directorySessionRepository
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(repo directoryRepository, subjects directorySubjectRepository, sessions directorySessionRepository) *DirectoryService {
	return &DirectoryService{repo: repo, subjects: subjects, sessions: sessions}
}

// Departments returns all departments.
func (s *DirectoryService) Departments(ctx context.Context) ([]models.Department, error) {
	depts, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	if depts == nil {
		depts = []models.Department{}
	}
	return depts, nil
}

// DepartmentByName resolves a department from its display name.
func (s *DirectoryService) DepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	dept, err := s.repo.FindDepartmentByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return dept, nil
}

// BatchesByDepartment returns the batches of one department.
func (s *DirectoryService) BatchesByDepartment(ctx context.Context, deptID string) ([]models.Batch, error) {
	if _, err := s.repo.FindDepartmentByID(ctx, deptID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	batches, err := s.repo.ListBatchesByDepartment(ctx, deptID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	if batches == nil {
		batches = []models.Batch{}
	}
	return batches, nil
}

// SubjectsByBatch returns the subjects taught to one batch. A batch with no
// subjects is reported as not found rather than an empty list.
func (s *DirectoryService) SubjectsByBatch(ctx context.Context, batchID string) ([]models.Subject, error) {
	subjects, err := s.subjects.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no subjects found for this batch")
	}
	return subjects, nil
}

// SubjectsByBatches returns the subjects of several batches at once, used by
// the sign-up form after batches are picked.
func (s *DirectoryService) SubjectsByBatches(ctx context.Context, batchIDs []string) ([]models.Subject, error) {
	if len(batchIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one batch id is required")
	}

	subjects, err := s.subjects.ListByBatches(ctx, batchIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

// SubjectFromSession resolves the subject a session belongs to.
func (s *DirectoryService) SubjectFromSession(ctx context.Context, sessionID string) (*models.Subject, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	subject, err := s.subjects.FindByID(ctx, session.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}
