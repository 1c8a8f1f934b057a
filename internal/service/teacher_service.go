package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type teacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
}

type teacherDirectoryRepository interface {
	FindDepartmentByID(ctx context.Context, id string) (*models.Department, error)
	FindDepartmentByName(ctx context.Context, name string) (*models.Department, error)
	ListBatchesByDepartment(ctx context.Context, deptID string) ([]models.Batch, error)
}

type teacherSubjectRepository interface {
	ListByBatches(ctx context.Context, batchIDs []string) ([]models.Subject, error)
	ListWithBatchNames(ctx context.Context, ids []string) ([]models.TeacherSubject, error)
}

// UpdateProfileRequest rewrites the teacher's mutable profile fields.
// Batch and subject id lists are re-validated against live rows before
// being stored; unknown ids are silently dropped. A non-empty DeptName
// moves the teacher to that department, and setting NewPassword requires
// the current password in OldPassword.
type UpdateProfileRequest struct {
	Name        string   `json:"name" validate:"required"`
	DeptName    string   `json:"dept_name"`
	BatchIDs    []string `json:"batch_ids" validate:"required,min=1"`
	SubjectIDs  []string `json:"subject_ids" validate:"required,min=1"`
	ImageURL    *string  `json:"image_url"`
	OldPassword string   `json:"old_password"`
	NewPassword string   `json:"new_password" validate:"omitempty,min=8"`
}

// TeacherService manages the authenticated teacher's profile.
type TeacherService struct {
	repo      teacherRepository
	directory teacherDirectoryRepository
	subjects  teacherSubjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, directory teacherDirectoryRepository, subjects teacherSubjectRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{repo: repo, directory: directory, subjects: subjects, validator: validate, logger: logger}
}

// Profile resolves the teacher's denormalized ids into display data: the
// department name plus each subject annotated with its batch name.
func (s *TeacherService) Profile(ctx context.Context, teacherID string) (*models.TeacherProfile, error) {
	teacher, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	dept, err := s.directory.FindDepartmentByID(ctx, teacher.DeptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found for teacher")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	subjects := []models.TeacherSubject{}
	if len(teacher.SubjectIDs) > 0 {
		subjects, err = s.subjects.ListWithBatchNames(ctx, teacher.SubjectIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
		}
	}

	return &models.TeacherProfile{
		Teacher:  *teacher,
		DeptName: dept.Name,
		Subjects: subjects,
	}, nil
}

// UpdateProfile rewrites the teacher's name, memberships and photo. Ids that
// do not resolve to live rows in the teacher's department are dropped; if
// nothing survives the filter the update is rejected.
func (s *TeacherService) UpdateProfile(ctx context.Context, teacherID string, req UpdateProfileRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	teacher, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	if req.DeptName != "" {
		dept, err := s.directory.FindDepartmentByName(ctx, req.DeptName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up department")
		}
		teacher.DeptID = dept.ID
	}

	if req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.OldPassword)); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		teacher.PasswordHash = string(hash)
	}

	batches, err := s.directory.ListBatchesByDepartment(ctx, teacher.DeptID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department batches")
	}
	validBatches := make(map[string]struct{}, len(batches))
	for _, batch := range batches {
		validBatches[batch.ID] = struct{}{}
	}
	filteredBatches := make([]string, 0, len(req.BatchIDs))
	for _, id := range req.BatchIDs {
		if _, ok := validBatches[id]; ok {
			filteredBatches = append(filteredBatches, id)
		}
	}
	if len(filteredBatches) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no valid batches for this department")
	}

	subjects, err := s.subjects.ListByBatches(ctx, filteredBatches)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch subjects")
	}
	validSubjects := make(map[string]struct{}, len(subjects))
	for _, subject := range subjects {
		validSubjects[subject.ID] = struct{}{}
	}
	filteredSubjects := make([]string, 0, len(req.SubjectIDs))
	for _, id := range req.SubjectIDs {
		if _, ok := validSubjects[id]; ok {
			filteredSubjects = append(filteredSubjects, id)
		}
	}
	if len(filteredSubjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no valid subjects for these batches")
	}

	teacher.Name = req.Name
	teacher.BatchIDs = pq.StringArray(filteredBatches)
	teacher.SubjectIDs = pq.StringArray(filteredSubjects)
	if req.ImageURL != nil {
		teacher.ImageURL = req.ImageURL
	}

	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}
