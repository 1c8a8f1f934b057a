package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

func newDirectoryFixture() *DirectoryService {
	repo := &mockDirectoryRepo{
		depts: map[string]models.Department{
			"d1": {ID: "d1", Name: "Computer Science"},
			"d2": {ID: "d2", Name: "Mathematics"},
		},
		batches: map[string]models.Batch{
			"b1": {ID: "b1", Name: "CS-2024", DeptID: "d1"},
			"b2": {ID: "b2", Name: "CS-2025", DeptID: "d1"},
		},
	}
	subjects := &mockSubjectFinder{subjects: map[string]models.Subject{
		"su1": {ID: "su1", Name: "Algorithms", BatchID: "b1"},
		"su2": {ID: "su2", Name: "Compilers", BatchID: "b2"},
	}}
	sessions := &mockSessionRepo{sessions: map[string]models.Session{
		"se1": {ID: "se1", SubjectID: "su1", Date: time.Now().Add(24 * time.Hour)},
	}}
	return NewDirectoryService(repo, subjects, sessions)
}

func TestDirectoryDepartments(t *testing.T) {
	svc := newDirectoryFixture()

	depts, err := svc.Departments(context.Background())
	require.NoError(t, err)
	assert.Len(t, depts, 2)
}

func TestDirectoryDepartmentByName(t *testing.T) {
	svc := newDirectoryFixture()

	dept, err := svc.DepartmentByName(context.Background(), "Mathematics")
	require.NoError(t, err)
	assert.Equal(t, "d2", dept.ID)
}

func TestDirectoryDepartmentByNameUnknown(t *testing.T) {
	svc := newDirectoryFixture()

	_, err := svc.DepartmentByName(context.Background(), "Alchemy")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDirectoryBatchesByDepartment(t *testing.T) {
	svc := newDirectoryFixture()

	batches, err := svc.BatchesByDepartment(context.Background(), "d1")
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestDirectoryBatchesUnknownDepartment(t *testing.T) {
	svc := newDirectoryFixture()

	_, err := svc.BatchesByDepartment(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDirectorySubjectsByBatch(t *testing.T) {
	svc := newDirectoryFixture()

	subjects, err := svc.SubjectsByBatch(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Algorithms", subjects[0].Name)
}

func TestDirectorySubjectsByBatchEmptyIsNotFound(t *testing.T) {
	svc := newDirectoryFixture()

	_, err := svc.SubjectsByBatch(context.Background(), "b3")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDirectorySubjectsByBatches(t *testing.T) {
	svc := newDirectoryFixture()

	subjects, err := svc.SubjectsByBatches(context.Background(), []string{"b1", "b2"})
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}

func TestDirectorySubjectsByBatchesRequiresIDs(t *testing.T) {
	svc := newDirectoryFixture()

	_, err := svc.SubjectsByBatches(context.Background(), nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDirectorySubjectFromSession(t *testing.T) {
	svc := newDirectoryFixture()

	subject, err := svc.SubjectFromSession(context.Background(), "se1")
	require.NoError(t, err)
	assert.Equal(t, "su1", subject.ID)
	assert.Equal(t, "Algorithms", subject.Name)
}

func TestDirectorySubjectFromSessionUnknown(t *testing.T) {
	svc := newDirectoryFixture()

	_, err := svc.SubjectFromSession(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
