package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type mockSessionRepo struct {
	sessions map[string]models.Session
	upcoming []models.UpcomingSession
	deleted  []string
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]models.Session)
	}
	session.ID = "generated"
	session.CreatedAt = time.Now().UTC()
	m.sessions[session.ID] = *session
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := m.sessions[id]; ok {
		out := s
		return &out, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.SubjectID == subjectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionRepo) ListUpcoming(ctx context.Context, subjectIDs []string, now time.Time) ([]models.UpcomingSession, error) {
	return m.upcoming, nil
}

func newSessionFixture() (*SessionService, *mockSessionRepo) {
	repo := &mockSessionRepo{sessions: make(map[string]models.Session)}
	subjects := &mockSubjectFinder{subjects: map[string]models.Subject{
		"su1": {ID: "su1", Name: "Algorithms", BatchID: "b1"},
	}}
	return NewSessionService(repo, subjects, validator.New(), zap.NewNop()), repo
}

func TestSessionCreateDefaultsTitle(t *testing.T) {
	svc, _ := newSessionFixture()

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		SubjectID: "su1",
		Date:      time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", session.Title)
}

func TestSessionCreateKeepsTitle(t *testing.T) {
	svc, _ := newSessionFixture()

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		SubjectID: "su1",
		Date:      time.Now().Add(24 * time.Hour),
		Title:     "Week 3: Graphs",
	})
	require.NoError(t, err)
	assert.Equal(t, "Week 3: Graphs", session.Title)
}

func TestSessionCreateUnknownSubject(t *testing.T) {
	svc, _ := newSessionFixture()

	_, err := svc.Create(context.Background(), CreateSessionRequest{
		SubjectID: "ghost",
		Date:      time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSessionDeleteFutureSession(t *testing.T) {
	svc, repo := newSessionFixture()
	repo.sessions["se1"] = models.Session{ID: "se1", SubjectID: "su1", Date: time.Now().Add(48 * time.Hour)}

	err := svc.Delete(context.Background(), "se1")
	require.NoError(t, err)
	assert.Contains(t, repo.deleted, "se1")
}

func TestSessionDeleteCompletedSessionBlocked(t *testing.T) {
	svc, repo := newSessionFixture()
	repo.sessions["se1"] = models.Session{ID: "se1", SubjectID: "su1", Date: time.Now().Add(-48 * time.Hour)}

	err := svc.Delete(context.Background(), "se1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.deleted)
}

func TestSessionDeleteUnknown(t *testing.T) {
	svc, _ := newSessionFixture()

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSessionUpcomingEmptySubjects(t *testing.T) {
	svc, _ := newSessionFixture()

	sessions, err := svc.Upcoming(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionUpcoming(t *testing.T) {
	svc, repo := newSessionFixture()
	repo.upcoming = []models.UpcomingSession{
		{Session: models.Session{ID: "se1", SubjectID: "su1"}, SubjectName: "Algorithms"},
	}

	sessions, err := svc.Upcoming(context.Background(), []string{"su1"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Algorithms", sessions[0].SubjectName)
}
