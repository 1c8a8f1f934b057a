package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type noteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	FindByID(ctx context.Context, id string) (*models.Note, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error)
	UpdateFiles(ctx context.Context, id string, files []string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

type noteSubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateNoteRequest publishes a study note under a subject.
type CreateNoteRequest struct {
	SubjectID   string   `json:"subject_id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
}

// NoteService manages subject study notes and their attached uploads.
type NoteService struct {
	repo      noteRepository
	subjects  noteSubjectRepository
	files     fileDeleter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoteService constructs a NoteService.
func NewNoteService(repo noteRepository, subjects noteSubjectRepository, files fileDeleter, validate *validator.Validate, logger *zap.Logger) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NoteService{repo: repo, subjects: subjects, files: files, validator: validate, logger: logger}
}

// Create publishes a note.
func (s *NoteService) Create(ctx context.Context, req CreateNoteRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	title := req.Title
	note := &models.Note{
		SubjectID: req.SubjectID,
		Title:     &title,
		Files:     pq.StringArray(req.Files),
	}
	if req.Description != "" {
		desc := req.Description
		note.Description = &desc
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}
	return note, nil
}

// Get loads one note.
func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "note not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load note")
	}
	return note, nil
}

// ListBySubject returns a subject's notes, newest first.
func (s *NoteService) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	notes, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

// SetFiles replaces the note's file list wholesale, deleting detached
// uploads from storage best-effort.
func (s *NoteService) SetFiles(ctx context.Context, id string, files []string) (*models.Note, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []string{}
	}

	updated, err := s.repo.UpdateFiles(ctx, id, files)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update note files")
	}

	s.cleanupDetached(existing.Files, files)
	return updated, nil
}

// Delete removes a note and deletes its uploads from storage best-effort.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	note, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete note")
	}

	s.cleanupDetached(note.Files, nil)
	return nil
}

func (s *NoteService) cleanupDetached(before, after []string) {
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
