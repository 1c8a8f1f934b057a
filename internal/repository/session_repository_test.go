package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/faculty-api/internal/models"
)

func newSessionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSessionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(sqlmock.AnyArg(), "su1", sqlmock.AnyArg(), "Week 1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.Session{SubjectID: "su1", Date: time.Now().Add(24 * time.Hour), Title: "Week 1"}
	err := repo.Create(context.Background(), session)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCountCompleted(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sessions WHERE subject_id = $1 AND date <= $2")).
		WithArgs("su1", now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountCompleted(context.Background(), "su1", now)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListUpcoming(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "subject_id", "date", "title", "assignment_id", "created_at", "subject_name"}).
		AddRow("se1", "su1", now.Add(24*time.Hour), "Week 4", nil, now, "Algorithms")
	mock.ExpectQuery("SELECT se.id, se.subject_id, se.date, se.title, se.assignment_id, se.created_at, su.name AS subject_name").
		WithArgs(sqlmock.AnyArg(), now).
		WillReturnRows(rows)

	sessions, err := repo.ListUpcoming(context.Background(), []string{"su1"}, now)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Algorithms", sessions[0].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryLinkAssignment(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET assignment_id = $2 WHERE id = $1")).
		WithArgs("se1", "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.LinkAssignment(context.Background(), "se1", "a1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
