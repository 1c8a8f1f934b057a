package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func assignmentColumns() []string {
	return []string{"id", "session_id", "title", "description", "due_date", "files", "created_at", "updated_at"}
}

func TestAssignmentRepositoryCreateIfAbsentInserts(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows(assignmentColumns()).
		AddRow("a1", "se1", nil, nil, nil, "{}", time.Now(), time.Now())
	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "se1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	assignment, created, err := repo.CreateIfAbsent(context.Background(), "se1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "a1", assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateIfAbsentConflictFallsBack(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "se1", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	rows := sqlmock.NewRows(assignmentColumns()).
		AddRow("existing", "se1", nil, nil, nil, "{}", time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, session_id, title, description, due_date, files, created_at, updated_at").
		WithArgs("se1").
		WillReturnRows(rows)

	assignment, created, err := repo.CreateIfAbsent(context.Background(), "se1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "existing", assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryUpdateFiles(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows(assignmentColumns()).
		AddRow("a1", "se1", nil, nil, nil, `{"u1","u2"}`, time.Now(), time.Now())
	mock.ExpectQuery("UPDATE assignments SET files").
		WithArgs("a1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	assignment, err := repo.UpdateFiles(context.Background(), "a1", []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, []string(assignment.Files))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositorySubmitterIDs(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"student_id"}).AddRow("st1").AddRow("st2")
	mock.ExpectQuery("SELECT DISTINCT student_id FROM submissions").
		WithArgs("a1").
		WillReturnRows(rows)

	ids, err := repo.SubmitterIDs(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"st1", "st2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
