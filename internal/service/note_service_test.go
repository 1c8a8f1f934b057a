package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type mockNoteRepo struct {
	notes   map[string]models.Note
	deleted []string
}

func (m *mockNoteRepo) Create(ctx context.Context, note *models.Note) error {
	if m.notes == nil {
		m.notes = make(map[string]models.Note)
	}
	note.ID = "n1"
	m.notes[note.ID] = *note
	return nil
}

func (m *mockNoteRepo) FindByID(ctx context.Context, id string) (*models.Note, error) {
	if n, ok := m.notes[id]; ok {
		out := n
		return &out, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockNoteRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	var out []models.Note
	for _, n := range m.notes {
		if n.SubjectID == subjectID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNoteRepo) UpdateFiles(ctx context.Context, id string, files []string) (*models.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	n.Files = pq.StringArray(files)
	m.notes[id] = n
	out := n
	return &out, nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, id string) error {
	delete(m.notes, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newNoteFixture() (*NoteService, *mockNoteRepo, *mockFileStore) {
	repo := &mockNoteRepo{notes: make(map[string]models.Note)}
	subjects := &mockSubjectFinder{subjects: map[string]models.Subject{
		"su1": {ID: "su1", Name: "Algorithms", BatchID: "b1"},
	}}
	files := &mockFileStore{}
	return NewNoteService(repo, subjects, files, validator.New(), zap.NewNop()), repo, files
}

func TestNoteCreate(t *testing.T) {
	svc, repo, _ := newNoteFixture()

	note, err := svc.Create(context.Background(), CreateNoteRequest{
		SubjectID:   "su1",
		Title:       "Week 1 recap",
		Description: "Sorting lower bounds",
		Files:       []string{"/api/v1/files/recap.pdf"},
	})
	require.NoError(t, err)
	require.NotNil(t, note.Title)
	assert.Equal(t, "Week 1 recap", *note.Title)
	require.NotNil(t, note.Description)
	assert.Len(t, repo.notes, 1)
}

func TestNoteCreateUnknownSubject(t *testing.T) {
	svc, _, _ := newNoteFixture()

	_, err := svc.Create(context.Background(), CreateNoteRequest{SubjectID: "ghost", Title: "x"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestNoteCreateMissingTitle(t *testing.T) {
	svc, _, _ := newNoteFixture()

	_, err := svc.Create(context.Background(), CreateNoteRequest{SubjectID: "su1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestNoteListBySubjectEmpty(t *testing.T) {
	svc, _, _ := newNoteFixture()

	notes, err := svc.ListBySubject(context.Background(), "su1")
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestNoteSetFilesDeletesDetached(t *testing.T) {
	svc, _, files := newNoteFixture()
	note, err := svc.Create(context.Background(), CreateNoteRequest{
		SubjectID: "su1",
		Title:     "Week 1 recap",
		Files:     []string{"u1", "u2"},
	})
	require.NoError(t, err)

	updated, err := svc.SetFiles(context.Background(), note.ID, []string{"u2", "u3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3"}, []string(updated.Files))
	assert.Equal(t, []string{"u1"}, files.deleted)
}

func TestNoteDeleteCleansUploads(t *testing.T) {
	svc, repo, files := newNoteFixture()
	note, err := svc.Create(context.Background(), CreateNoteRequest{
		SubjectID: "su1",
		Title:     "Week 1 recap",
		Files:     []string{"u1", "u2"},
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Contains(t, repo.deleted, note.ID)
	assert.ElementsMatch(t, []string{"u1", "u2"}, files.deleted)
}

func TestNoteDeleteUnknown(t *testing.T) {
	svc, _, _ := newNoteFixture()

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
