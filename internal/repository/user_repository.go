package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

// UserRepository reads platform users. Accounts are provisioned by the identity service.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindTeacher returns the summary of an active user holding the teacher role.
func (r *UserRepository) FindTeacher(ctx context.Context, id string) (*models.TeacherSummary, error) {
	const query = `SELECT id, full_name, email FROM users WHERE id = $1 AND role = $2 AND active = TRUE LIMIT 1`
	var teacher models.TeacherSummary
	if err := r.db.GetContext(ctx, &teacher, query, id, models.RoleTeacher); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}
