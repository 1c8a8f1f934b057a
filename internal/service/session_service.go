package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.Session, error)
	Delete(ctx context.Context, id string) error
	ListUpcoming(ctx context.Context, subjectIDs []string, now time.Time) ([]models.UpcomingSession, error)
}

type sessionSubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateSessionRequest schedules a class meeting.
type CreateSessionRequest struct {
	SubjectID string    `json:"subject_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Title     string    `json:"title"`
}

// SessionService manages the per-subject session ledger.
type SessionService struct {
	repo      sessionRepository
	subjects  sessionSubjectRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, subjects sessionSubjectRepository, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SessionService{
		repo:      repo,
		subjects:  subjects,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create schedules a session for a subject. An empty title defaults to
// "Untitled".
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	title := req.Title
	if title == "" {
		title = "Untitled"
	}

	session := &models.Session{
		SubjectID: req.SubjectID,
		Date:      req.Date.UTC(),
		Title:     title,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Get loads one session.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// ListBySubject returns a subject's sessions in date order.
func (s *SessionService) ListBySubject(ctx context.Context, subjectID string) ([]models.Session, error) {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	sessions, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions, nil
}

// Delete removes a session. Sessions whose date has passed are part of the
// attendance history and cannot be deleted.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	if !session.Date.After(s.now()) {
		return appErrors.Clone(appErrors.ErrConflict, "completed sessions cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

// Upcoming returns future sessions across the given subjects, soonest first.
func (s *SessionService) Upcoming(ctx context.Context, subjectIDs []string) ([]models.UpcomingSession, error) {
	if len(subjectIDs) == 0 {
		return []models.UpcomingSession{}, nil
	}

	sessions, err := s.repo.ListUpcoming(ctx, subjectIDs, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming sessions")
	}
	if sessions == nil {
		sessions = []models.UpcomingSession{}
	}
	return sessions, nil
}
