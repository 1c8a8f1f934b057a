package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campushub/faculty-api/internal/models"
)

// TeacherRepository persists teacher accounts and their refresh tokens.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByEmail loads a teacher by email.
func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var teacher models.Teacher
	query := `SELECT id, name, email, password_hash, dept_id, batch_ids, subject_ids, image_url, created_at, updated_at
FROM teachers WHERE email = $1`
	if err := r.db.GetContext(ctx, &teacher, query, email); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByID loads a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	query := `SELECT id, name, email, password_hash, dept_id, batch_ids, subject_ids, image_url, created_at, updated_at
FROM teachers WHERE id = $1`
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a new teacher account.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	now := time.Now().UTC()
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	query := `INSERT INTO teachers (id, name, email, password_hash, dept_id, batch_ids, subject_ids, image_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		teacher.ID, teacher.Name, teacher.Email, teacher.PasswordHash, teacher.DeptID,
		pq.Array(teacher.BatchIDs), pq.Array(teacher.SubjectIDs), teacher.ImageURL,
		teacher.CreatedAt, teacher.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert teacher: %w", err)
	}
	return nil
}

// Update rewrites the mutable profile columns.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	query := `UPDATE teachers
SET name = $2, email = $3, password_hash = $4, dept_id = $5, batch_ids = $6, subject_ids = $7, image_url = $8, updated_at = $9
WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		teacher.ID, teacher.Name, teacher.Email, teacher.PasswordHash, teacher.DeptID,
		pq.Array(teacher.BatchIDs), pq.Array(teacher.SubjectIDs), teacher.ImageURL, teacher.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// CreateRefreshToken persists an issued refresh token.
func (r *TeacherRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	query := `INSERT INTO refresh_tokens (id, teacher_id, token, expires_at, created_at, revoked, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		token.ID, token.TeacherID, token.Token, token.ExpiresAt, token.CreatedAt,
		token.Revoked, token.IPAddress, token.UserAgent,
	); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken loads a refresh token by its opaque value.
func (r *TeacherRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	query := `SELECT id, teacher_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent
FROM refresh_tokens WHERE token = $1`
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		return nil, err
	}
	return &stored, nil
}

// RevokeRefreshToken marks a single token revoked.
func (r *TeacherRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeTeacherRefreshTokens revokes every live token of a teacher.
func (r *TeacherRepository) RevokeTeacherRefreshTokens(ctx context.Context, teacherID string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE teacher_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, teacherID); err != nil {
		return fmt.Errorf("revoke teacher refresh tokens: %w", err)
	}
	return nil
}
