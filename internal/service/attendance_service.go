package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
	"github.com/campushub/faculty-api/pkg/export"
)

type attendanceRepository interface {
	Find(ctx context.Context, studentID, sessionID string) (*models.Attendance, error)
	Create(ctx context.Context, record *models.Attendance) error
	UpdateStatus(ctx context.Context, studentID, sessionID string, status models.AttendanceStatus) (*models.Attendance, error)
	Delete(ctx context.Context, studentID, sessionID string) error
	CountsForSubject(ctx context.Context, subjectID string, studentIDs []string) ([]models.AttendanceCounts, error)
	SessionRollCall(ctx context.Context, sessionID string) ([]models.RollCallRow, error)
	AttendedInCompleted(ctx context.Context, subjectID, batchID string, now time.Time) ([]models.SubjectOverviewStudent, error)
}

type attendanceStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type attendanceSessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	CountCompleted(ctx context.Context, subjectID string, now time.Time) (int, error)
}

type attendanceSubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type rosterResolver interface {
	Resolve(ctx context.Context, subjectID string) (*models.SubjectRoster, error)
}

// MarkResult reports the outcome of a toggle-aware mark submission.
type MarkResult struct {
	// Removed is true when resubmitting the current status cleared the row.
	Removed bool               `json:"removed"`
	Record  *models.Attendance `json:"record,omitempty"`
}

// AttendanceService implements the toggle-style marking flow and the
// display-time rollups.
type AttendanceService struct {
	repo     attendanceRepository
	students attendanceStudentRepository
	sessions attendanceSessionRepository
	subjects attendanceSubjectRepository
	roster   rosterResolver
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, students attendanceStudentRepository, sessions attendanceSessionRepository, subjects attendanceSubjectRepository, roster rosterResolver, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:     repo,
		students: students,
		sessions: sessions,
		subjects: subjects,
		roster:   roster,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetStatus applies a mark with toggle semantics: submitting the status a
// student already has removes the row, submitting a different one overwrites
// it, and submitting against a clean slate creates it. Concurrent submissions
// for the same pair resolve last-write-wins.
func (s *AttendanceService) SetStatus(ctx context.Context, studentID, sessionID string, status models.AttendanceStatus) (*MarkResult, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid attendance status %q", status))
	}

	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	existing, err := s.repo.Find(ctx, studentID, sessionID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
		}
		record := &models.Attendance{StudentID: studentID, SessionID: sessionID, Status: status}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
		}
		return &MarkResult{Record: record}, nil
	}

	if existing.Status == status {
		if err := s.repo.Delete(ctx, studentID, sessionID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear attendance")
		}
		return &MarkResult{Removed: true}, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, studentID, sessionID, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
	}
	return &MarkResult{Record: updated}, nil
}

// AggregateForSubject buckets each roster member's marks for the subject by
// status. Students without rows appear with zero counts.
func (s *AttendanceService) AggregateForSubject(ctx context.Context, subjectID string) ([]models.AttendanceCounts, error) {
	roster, err := s.roster.Resolve(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]string, 0, len(roster.Students))
	for _, student := range roster.Students {
		studentIDs = append(studentIDs, student.ID)
	}
	if len(studentIDs) == 0 {
		return []models.AttendanceCounts{}, nil
	}

	counts, err := s.repo.CountsForSubject(ctx, subjectID, studentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate attendance")
	}
	if counts == nil {
		counts = []models.AttendanceCounts{}
	}
	return counts, nil
}

// SessionRollCall returns one row per roster member for a single session.
// Roster members without a persisted mark come back UNMARKED.
func (s *AttendanceService) SessionRollCall(ctx context.Context, sessionID string) ([]models.RollCallRow, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	roster, err := s.roster.Resolve(ctx, session.SubjectID)
	if err != nil {
		return nil, err
	}

	marked, err := s.repo.SessionRollCall(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roll call")
	}

	byStudent := make(map[string]models.AttendanceStatus, len(marked))
	for _, row := range marked {
		byStudent[row.StudentID] = row.Status
	}

	rows := make([]models.RollCallRow, 0, len(roster.Students))
	for _, student := range roster.Students {
		status, ok := byStudent[student.ID]
		if !ok {
			status = models.AttendanceStatusUnmarked
		}
		rows = append(rows, models.RollCallRow{
			StudentID:   student.ID,
			StudentName: student.Name,
			Status:      status,
		})
	}
	return rows, nil
}

// SubjectOverview returns the completed-classes denominator alongside each
// roster member's attended count.
func (s *AttendanceService) SubjectOverview(ctx context.Context, subjectID string) (*models.SubjectOverview, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	now := s.now()
	completed, err := s.sessions.CountCompleted(ctx, subjectID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count completed sessions")
	}

	students, err := s.repo.AttendedInCompleted(ctx, subjectID, subject.BatchID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate attended sessions")
	}
	if students == nil {
		students = []models.SubjectOverviewStudent{}
	}

	return &models.SubjectOverview{
		SubjectID:        subjectID,
		CompletedClasses: completed,
		Students:         students,
	}, nil
}

// ExportRegister renders the subject's attendance register in the requested
// format. Supported formats are "csv" and "pdf".
func (s *AttendanceService) ExportRegister(ctx context.Context, subjectID, format string) ([]byte, string, error) {
	roster, err := s.roster.Resolve(ctx, subjectID)
	if err != nil {
		return nil, "", err
	}

	counts, err := s.AggregateForSubject(ctx, subjectID)
	if err != nil {
		return nil, "", err
	}

	register := export.Register{
		Subject: roster.Subject.Name,
		Batch:   roster.BatchName,
		Rows:    make([]export.RegisterRow, 0, len(counts)),
	}
	for _, row := range counts {
		register.Rows = append(register.Rows, export.RegisterRow{
			Student: row.StudentName,
			Present: row.PresentDays,
			Absent:  row.AbsentDays,
			Late:    row.LateDays,
		})
	}

	switch strings.ToLower(format) {
	case "csv":
		data, err := s.csv.Render(register)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv register")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := s.pdf.Render(register)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf register")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
