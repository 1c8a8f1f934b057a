package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type rosterSubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type rosterDirectoryRepository interface {
	FindBatchByID(ctx context.Context, id string) (*models.Batch, error)
	FindDepartmentByID(ctx context.Context, id string) (*models.Department, error)
}

type rosterStudentRepository interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.Student, error)
}

// RosterCache is the advisory cache contract for resolved rosters.
type RosterCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string)
}

// RosterService resolves the transitive Subject -> Batch -> Students walk.
// Resolution is read-only and safe to cache briefly; directory rows are
// provisioned out-of-band and change rarely.
type RosterService struct {
	subjects  rosterSubjectRepository
	directory rosterDirectoryRepository
	students  rosterStudentRepository
	cache     RosterCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewRosterService constructs a RosterService. A nil cache disables caching.
func NewRosterService(subjects rosterSubjectRepository, directory rosterDirectoryRepository, students rosterStudentRepository, cache RosterCache, cacheTTL time.Duration, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		subjects:  subjects,
		directory: directory,
		students:  students,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func rosterCacheKey(subjectID string) string {
	return fmt.Sprintf("roster:subject:%s", subjectID)
}

// Resolve returns the full roster of a subject. A missing subject, batch or
// department surfaces as not found; an unreachable cache is logged and
// bypassed.
func (s *RosterService) Resolve(ctx context.Context, subjectID string) (*models.SubjectRoster, error) {
	if s.cache != nil {
		var cached models.SubjectRoster
		err := s.cache.Get(ctx, rosterCacheKey(subjectID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("roster cache read failed", zap.String("subject_id", subjectID), zap.Error(err))
		}
	}

	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	batch, err := s.directory.FindBatchByID(ctx, subject.BatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found for subject")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	dept, err := s.directory.FindDepartmentByID(ctx, batch.DeptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found for batch")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	students, err := s.students.ListByBatch(ctx, batch.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch roster")
	}
	if students == nil {
		students = []models.Student{}
	}

	roster := &models.SubjectRoster{
		Subject:   *subject,
		BatchName: batch.Name,
		DeptName:  dept.Name,
		Students:  students,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rosterCacheKey(subjectID), roster, s.cacheTTL); err != nil {
			s.logger.Warn("roster cache write failed", zap.String("subject_id", subjectID), zap.Error(err))
		}
	}

	return roster, nil
}

// Invalidate drops the cached roster for a subject.
func (s *RosterService) Invalidate(ctx context.Context, subjectID string) {
	if s.cache != nil {
		s.cache.Delete(ctx, rosterCacheKey(subjectID))
	}
}
