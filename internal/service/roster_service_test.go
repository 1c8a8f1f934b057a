package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	appErrors "github.com/campushub/faculty-api/pkg/errors"
)

type mockDirectoryRepo struct {
	depts   map[string]models.Department
	batches map[string]models.Batch
}

func (m *mockDirectoryRepo) FindBatchByID(ctx context.Context, id string) (*models.Batch, error) {
	if b, ok := m.batches[id]; ok {
		out := b
		return &out, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDirectoryRepo) FindDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := m.depts[id]; ok {
		out := d
		return &out, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDirectoryRepo) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	for _, d := range m.depts {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockDirectoryRepo) FindDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			out := d
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockDirectoryRepo) ListBatchesByDepartment(ctx context.Context, deptID string) ([]models.Batch, error) {
	var out []models.Batch
	for _, b := range m.batches {
		if b.DeptID == deptID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockRosterCache struct {
	cached map[string]models.SubjectRoster
	hits   int
	misses int
	sets   int
}

func (m *mockRosterCache) Get(ctx context.Context, key string, dest interface{}) error {
	cached, ok := m.cached[key]
	if !ok {
		m.misses++
		return appErrors.ErrCacheMiss
	}
	m.hits++
	*(dest.(*models.SubjectRoster)) = cached
	return nil
}

func (m *mockRosterCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.cached == nil {
		m.cached = make(map[string]models.SubjectRoster)
	}
	m.cached[key] = *(value.(*models.SubjectRoster))
	m.sets++
	return nil
}

func (m *mockRosterCache) Delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		delete(m.cached, key)
	}
}

func newRosterFixture(cache RosterCache) *RosterService {
	subjects := &mockSubjectFinder{subjects: map[string]models.Subject{
		"su1": {ID: "su1", Name: "Algorithms", BatchID: "b1"},
	}}
	directory := &mockDirectoryRepo{
		depts:   map[string]models.Department{"d1": {ID: "d1", Name: "Computer Science"}},
		batches: map[string]models.Batch{"b1": {ID: "b1", Name: "CS-2024", DeptID: "d1"}},
	}
	students := &mockStudentFinder{students: map[string]models.Student{
		"st1": {ID: "st1", Name: "Ada", BatchID: "b1"},
		"st2": {ID: "st2", Name: "Grace", BatchID: "b1"},
		"st3": {ID: "st3", Name: "Edsger", BatchID: "other"},
	}}
	return NewRosterService(subjects, directory, students, cache, time.Minute, zap.NewNop())
}

func TestRosterResolve(t *testing.T) {
	svc := newRosterFixture(nil)

	roster, err := svc.Resolve(context.Background(), "su1")
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", roster.Subject.Name)
	assert.Equal(t, "CS-2024", roster.BatchName)
	assert.Equal(t, "Computer Science", roster.DeptName)
	assert.Len(t, roster.Students, 2)
	for _, student := range roster.Students {
		assert.Equal(t, "b1", student.BatchID)
	}
}

func TestRosterResolveUnknownSubject(t *testing.T) {
	svc := newRosterFixture(nil)

	_, err := svc.Resolve(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRosterResolveUsesCache(t *testing.T) {
	cache := &mockRosterCache{}
	svc := newRosterFixture(cache)

	_, err := svc.Resolve(context.Background(), "su1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)
	assert.Equal(t, 1, cache.sets)

	roster, err := svc.Resolve(context.Background(), "su1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, "CS-2024", roster.BatchName)
}

func TestRosterInvalidateDropsCache(t *testing.T) {
	cache := &mockRosterCache{}
	svc := newRosterFixture(cache)

	_, err := svc.Resolve(context.Background(), "su1")
	require.NoError(t, err)

	svc.Invalidate(context.Background(), "su1")

	_, err = svc.Resolve(context.Background(), "su1")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.misses)
}
