package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type assignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Assignment, error)
	CreateIfAbsent(ctx context.Context, sessionID string) (*models.Assignment, bool, error)
	UpdateDetails(ctx context.Context, id string, title, description *string, dueDate *time.Time) (*models.Assignment, error)
	UpdateFiles(ctx context.Context, id string, files []string) (*models.Assignment, error)
	SubmitterIDs(ctx context.Context, assignmentID string) ([]string, error)
	FindSubmission(ctx context.Context, studentID, assignmentID string) (*models.Submission, error)
}

type assignmentSessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	LinkAssignment(ctx context.Context, sessionID, assignmentID string) error
}

type assignmentStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type fileDeleter interface {
	Delete(url string) error
}

// EditAssignmentRequest overwrites an assignment's descriptive fields.
type EditAssignmentRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// AssignmentService manages the at-most-one assignment attached to each
// session and reads the student submission ledger.
type AssignmentService struct {
	repo     assignmentRepository
	sessions assignmentSessionRepository
	students assignmentStudentRepository
	roster   rosterResolver
	files    fileDeleter
	logger   *zap.Logger
}

// NewAssignmentService constructs an AssignmentService. A nil fileDeleter
// skips the best-effort cleanup of detached uploads.
func NewAssignmentService(repo assignmentRepository, sessions assignmentSessionRepository, students assignmentStudentRepository, roster rosterResolver, files fileDeleter, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:     repo,
		sessions: sessions,
		students: students,
		roster:   roster,
		files:    files,
		logger:   logger,
	}
}

// Ensure returns the session's assignment, creating an empty one if none
// exists yet. Concurrent calls converge on a single row.
func (s *AssignmentService) Ensure(ctx context.Context, sessionID string) (*models.Assignment, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	assignment, created, err := s.repo.CreateIfAbsent(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to ensure assignment")
	}

	if created || session.AssignmentID == nil || *session.AssignmentID != assignment.ID {
		if err := s.sessions.LinkAssignment(ctx, sessionID, assignment.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link assignment")
		}
	}

	return assignment, nil
}

// Get loads one assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// EditDetails overwrites title, description and due date as provided.
func (s *AssignmentService) EditDetails(ctx context.Context, id string, req EditAssignmentRequest) (*models.Assignment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	assignment, err := s.repo.UpdateDetails(ctx, id, req.Title, req.Description, req.DueDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// SetFiles replaces the file list wholesale. Uploads present before but
// absent after are deleted from storage best-effort; a failed delete is
// logged, never surfaced.
func (s *AssignmentService) SetFiles(ctx context.Context, id string, files []string) (*models.Assignment, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []string{}
	}

	updated, err := s.repo.UpdateFiles(ctx, id, files)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment files")
	}

	s.cleanupDetached(existing.Files, files)
	return updated, nil
}

// RemoveFiles drops the listed entries from the assignment's file list,
// preserving the order of the survivors, and deletes the removed uploads
// from storage best-effort.
func (s *AssignmentService) RemoveFiles(ctx context.Context, id string, removals []string) (*models.Assignment, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]struct{}, len(removals))
	for _, url := range removals {
		drop[url] = struct{}{}
	}

	kept := make([]string, 0, len(existing.Files))
	for _, url := range existing.Files {
		if _, gone := drop[url]; !gone {
			kept = append(kept, url)
		}
	}

	updated, err := s.repo.UpdateFiles(ctx, id, kept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment files")
	}

	s.cleanupDetached(existing.Files, kept)
	return updated, nil
}

// GetFiles returns the assignment's current file list.
func (s *AssignmentService) GetFiles(ctx context.Context, id string) ([]string, error) {
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return assignment.Files, nil
}

// PartitionRoster splits the session's roster into students who submitted
// and students who did not. The two lists are disjoint and together cover
// the whole roster.
func (s *AssignmentService) PartitionRoster(ctx context.Context, assignmentID string) (*models.RosterPartition, error) {
	assignment, err := s.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindByID(ctx, assignment.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found for assignment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	roster, err := s.roster.Resolve(ctx, session.SubjectID)
	if err != nil {
		return nil, err
	}

	submitterIDs, err := s.repo.SubmitterIDs(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submitters")
	}
	submitted := make(map[string]struct{}, len(submitterIDs))
	for _, id := range submitterIDs {
		submitted[id] = struct{}{}
	}

	partition := &models.RosterPartition{
		Submitted:    []models.Student{},
		NotSubmitted: []models.Student{},
	}
	for _, student := range roster.Students {
		if _, ok := submitted[student.ID]; ok {
			partition.Submitted = append(partition.Submitted, student)
		} else {
			partition.NotSubmitted = append(partition.NotSubmitted, student)
		}
	}
	return partition, nil
}

// StudentSubmission loads what one student turned in for an assignment.
func (s *AssignmentService) StudentSubmission(ctx context.Context, studentID, assignmentID string) (*models.Submission, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.Get(ctx, assignmentID); err != nil {
		return nil, err
	}

	submission, err := s.repo.FindSubmission(ctx, studentID, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no submission for this student")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// cleanupDetached deletes uploads that were referenced before but are not in
// the replacement list.
func (s *AssignmentService) cleanupDetached(before, after []string) {
	if s.files == nil {
		return
	}
	keep := make(map[string]struct{}, len(after))
	for _, url := range after {
		keep[url] = struct{}{}
	}
	for _, url := range before {
		if _, ok := keep[url]; ok {
			continue
		}
		if err := s.files.Delete(url); err != nil {
			s.logger.Warn("failed to delete detached upload", zap.String("url", url), zap.Error(err))
		}
	}
}
