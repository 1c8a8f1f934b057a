package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type pairKey struct {
	studentID string
	sessionID string
}

type mockAttendanceRepo struct {
	records  map[pairKey]models.Attendance
	counts   []models.AttendanceCounts
	rollCall []models.RollCallRow
	attended []models.SubjectOverviewStudent
}

func (m *mockAttendanceRepo) Find(ctx context.Context, studentID, sessionID string) (*models.Attendance, error) {
	if rec, ok := m.records[pairKey{studentID, sessionID}]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	if m.records == nil {
		m.records = make(map[pairKey]models.Attendance)
	}
	record.ID = "generated"
	m.records[pairKey{record.StudentID, record.SessionID}] = *record
	return nil
}

func (m *mockAttendanceRepo) UpdateStatus(ctx context.Context, studentID, sessionID string, status models.AttendanceStatus) (*models.Attendance, error) {
	key := pairKey{studentID, sessionID}
	rec := m.records[key]
	rec.Status = status
	m.records[key] = rec
	return &rec, nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, studentID, sessionID string) error {
	delete(m.records, pairKey{studentID, sessionID})
	return nil
}

func (m *mockAttendanceRepo) CountsForSubject(ctx context.Context, subjectID string, studentIDs []string) ([]models.AttendanceCounts, error) {
	return m.counts, nil
}

func (m *mockAttendanceRepo) SessionRollCall(ctx context.Context, sessionID string) ([]models.RollCallRow, error) {
	return m.rollCall, nil
}

func (m *mockAttendanceRepo) AttendedInCompleted(ctx context.Context, subjectID, batchID string, now time.Time) ([]models.SubjectOverviewStudent, error) {
	return m.attended, nil
}

type mockStudentFinder struct {
	students map[string]models.Student
}

func (m *mockStudentFinder) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentFinder) ListByBatch(ctx context.Context, batchID string) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.students {
		if s.BatchID == batchID {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockSessionFinder struct {
	sessions  map[string]models.Session
	completed int
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionFinder) CountCompleted(ctx context.Context, subjectID string, now time.Time) (int, error) {
	return m.completed, nil
}

type mockSubjectFinder struct {
	subjects   map[string]models.Subject
	batchNames map[string]string
}

func (m *mockSubjectFinder) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectFinder) ListByBatch(ctx context.Context, batchID string) ([]models.Subject, error) {
	var out []models.Subject
	for _, s := range m.subjects {
		if s.BatchID == batchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSubjectFinder) ListByBatches(ctx context.Context, batchIDs []string) ([]models.Subject, error) {
	var out []models.Subject
	for _, batchID := range batchIDs {
		subjects, _ := m.ListByBatch(ctx, batchID)
		out = append(out, subjects...)
	}
	return out, nil
}

func (m *mockSubjectFinder) ListWithBatchNames(ctx context.Context, ids []string) ([]models.TeacherSubject, error) {
	var out []models.TeacherSubject
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			out = append(out, models.TeacherSubject{Subject: s, BatchName: m.batchNames[s.BatchID]})
		}
	}
	return out, nil
}

type mockRoster struct {
	roster *models.SubjectRoster
	err    error
}

func (m *mockRoster) Resolve(ctx context.Context, subjectID string) (*models.SubjectRoster, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roster, nil
}

func newAttendanceFixture() (*AttendanceService, *mockAttendanceRepo) {
	repo := &mockAttendanceRepo{records: make(map[pairKey]models.Attendance)}
	students := &mockStudentFinder{students: map[string]models.Student{
		"st1": {ID: "st1", Name: "Ada", BatchID: "b1"},
		"st2": {ID: "st2", Name: "Grace", BatchID: "b1"},
	}}
	sessions := &mockSessionFinder{sessions: map[string]models.Session{
		"se1": {ID: "se1", SubjectID: "su1"},
	}}
	subjects := &mockSubjectFinder{subjects: map[string]models.Subject{
		"su1": {ID: "su1", Name: "Algorithms", BatchID: "b1"},
	}}
	roster := &mockRoster{roster: &models.SubjectRoster{
		Subject:   models.Subject{ID: "su1", Name: "Algorithms", BatchID: "b1"},
		BatchName: "CS-2024",
		Students: []models.Student{
			{ID: "st1", Name: "Ada", BatchID: "b1"},
			{ID: "st2", Name: "Grace", BatchID: "b1"},
		},
	}}
	return NewAttendanceService(repo, students, sessions, subjects, roster, zap.NewNop()), repo
}

func TestAttendanceSetStatusCreates(t *testing.T) {
	svc, repo := newAttendanceFixture()

	result, err := svc.SetStatus(context.Background(), "st1", "se1", models.AttendanceStatusPresent)
	require.NoError(t, err)
	assert.False(t, result.Removed)
	require.NotNil(t, result.Record)
	assert.Equal(t, models.AttendanceStatusPresent, result.Record.Status)
	assert.Len(t, repo.records, 1)
}

func TestAttendanceSetStatusTogglesOff(t *testing.T) {
	svc, repo := newAttendanceFixture()

	_, err := svc.SetStatus(context.Background(), "st1", "se1", models.AttendanceStatusPresent)
	require.NoError(t, err)

	result, err := svc.SetStatus(context.Background(), "st1", "se1", models.AttendanceStatusPresent)
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Nil(t, result.Record)
	assert.Empty(t, repo.records)
}

func TestAttendanceSetStatusOverwrites(t *testing.T) {
	svc, repo := newAttendanceFixture()

	_, err := svc.SetStatus(context.Background(), "st1", "se1", models.AttendanceStatusPresent)
	require.NoError(t, err)

	result, err := svc.SetStatus(context.Background(), "st1", "se1", models.AttendanceStatusLate)
	require.NoError(t, err)
	assert.False(t, result.Removed)
	assert.Equal(t, models.AttendanceStatusLate, result.Record.Status)
	assert.Len(t, repo.records, 1)
}

func TestAttendanceSetStatusRejectsInvalidStatus(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.SetStatus(context.Background(), "st1", "se1", models.AttendanceStatus("MAYBE"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceSetStatusRejectsUnmarkedSentinel(t *testing.T) {
	svc, repo := newAttendanceFixture()

	_, err := svc.SetStatus(context.Background(), "st1", "se1", models.AttendanceStatusUnmarked)
	require.Error(t, err)
	assert.Empty(t, repo.records)
}

func TestAttendanceSetStatusUnknownStudent(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.SetStatus(context.Background(), "ghost", "se1", models.AttendanceStatusPresent)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAttendanceSetStatusUnknownSession(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.SetStatus(context.Background(), "st1", "ghost", models.AttendanceStatusPresent)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAttendanceSessionRollCallFillsUnmarked(t *testing.T) {
	svc, repo := newAttendanceFixture()
	repo.rollCall = []models.RollCallRow{
		{StudentID: "st1", StudentName: "Ada", Status: models.AttendanceStatusPresent},
	}

	rows, err := svc.SessionRollCall(context.Background(), "se1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := make(map[string]models.AttendanceStatus)
	for _, row := range rows {
		byID[row.StudentID] = row.Status
	}
	assert.Equal(t, models.AttendanceStatusPresent, byID["st1"])
	assert.Equal(t, models.AttendanceStatusUnmarked, byID["st2"])
}

func TestAttendanceAggregateEmptyRoster(t *testing.T) {
	svc, _ := newAttendanceFixture()
	svc.roster = &mockRoster{roster: &models.SubjectRoster{
		Subject:  models.Subject{ID: "su1"},
		Students: []models.Student{},
	}}

	counts, err := svc.AggregateForSubject(context.Background(), "su1")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestAttendanceSubjectOverview(t *testing.T) {
	svc, repo := newAttendanceFixture()
	repo.attended = []models.SubjectOverviewStudent{
		{Student: models.Student{ID: "st1", Name: "Ada", BatchID: "b1"}, AttendedDays: 3},
		{Student: models.Student{ID: "st2", Name: "Grace", BatchID: "b1"}, AttendedDays: 0},
	}
	sessions := svc.sessions.(*mockSessionFinder)
	sessions.completed = 4

	overview, err := svc.SubjectOverview(context.Background(), "su1")
	require.NoError(t, err)
	assert.Equal(t, 4, overview.CompletedClasses)
	require.Len(t, overview.Students, 2)
	for _, student := range overview.Students {
		assert.LessOrEqual(t, student.AttendedDays, overview.CompletedClasses)
	}
}

func TestAttendanceExportRegisterCSV(t *testing.T) {
	svc, repo := newAttendanceFixture()
	repo.counts = []models.AttendanceCounts{
		{StudentID: "st1", StudentName: "Ada", PresentDays: 3, AbsentDays: 1, LateDays: 0},
	}

	data, contentType, err := svc.ExportRegister(context.Background(), "su1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(data)
	assert.True(t, strings.HasPrefix(body, "Student,Present,Absent,Late"))
	assert.Contains(t, body, "Ada,3,1,0")
}

func TestAttendanceExportRegisterPDF(t *testing.T) {
	svc, repo := newAttendanceFixture()
	repo.counts = []models.AttendanceCounts{
		{StudentID: "st1", StudentName: "Ada", PresentDays: 2, AbsentDays: 0, LateDays: 1},
	}

	data, contentType, err := svc.ExportRegister(context.Background(), "su1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestAttendanceExportRegisterUnknownFormat(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, _, err := svc.ExportRegister(context.Background(), "su1", "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
