package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/faculty-api/internal/models"
	"github.com/campushub/faculty-api/internal/service"
)

type stubTeacherRepo struct{}

func (stubTeacherRepo) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	return nil, sql.ErrNoRows
}

func (stubTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	return &models.Teacher{ID: id}, nil
}

func (stubTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error { return nil }

func (stubTeacherRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return nil
}

func (stubTeacherRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return nil, sql.ErrNoRows
}

func (stubTeacherRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	return nil
}

func (stubTeacherRepo) RevokeTeacherRefreshTokens(ctx context.Context, teacherID string) error {
	return nil
}

type stubDirectoryRepo struct{}

func (stubDirectoryRepo) FindDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	return nil, sql.ErrNoRows
}

func (stubDirectoryRepo) ListBatchesByDepartment(ctx context.Context, deptID string) ([]models.Batch, error) {
	return nil, nil
}

type stubSubjectRepo struct{}

func (stubSubjectRepo) ListByBatches(ctx context.Context, batchIDs []string) ([]models.Subject, error) {
	return nil, nil
}

func newJWTFixture() (*service.AuthService, gin.HandlerFunc) {
	svc := service.NewAuthService(stubTeacherRepo{}, stubDirectoryRepo{}, stubSubjectRepo{}, nil, zap.NewNop(), service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "faculty-api",
	})
	return svc, JWT(svc)
}

func TestJWTMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mw := newJWTFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/protected", nil)

	mw(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestJWTMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mw := newJWTFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/protected", nil)
	c.Request.Header.Set("Authorization", "Token abc")

	mw(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mw := newJWTFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/protected", nil)
	c.Request.Header.Set("Authorization", "Bearer not.a.jwt")

	mw(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTStoresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mw := newJWTFixture()

	token := issueToken(t, "test-secret")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/protected", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	mw(c)
	require.False(t, c.IsAborted())

	value, exists := c.Get(ContextUserKey)
	require.True(t, exists)
	claims, ok := value.(*models.JWTClaims)
	require.True(t, ok)
	assert.Equal(t, "t1", claims.TeacherID)
}

func issueToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &models.JWTClaims{
		TeacherID: "t1",
		Email:     "knuth@campus.edu",
		Name:      "Prof. Knuth",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "faculty-api",
			Subject:   "t1",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
