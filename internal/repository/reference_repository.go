package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

// ReferenceRepository resolves the class and subject records syllabus entries point at.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs a ReferenceRepository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// FindClass returns a class summary by id.
func (r *ReferenceRepository) FindClass(ctx context.Context, id string) (*models.ClassSummary, error) {
	const query = `SELECT id, name, section FROM classes WHERE id = $1`
	var class models.ClassSummary
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// FindSubject returns a subject summary by id.
func (r *ReferenceRepository) FindSubject(ctx context.Context, id string) (*models.SubjectSummary, error) {
	const query = `SELECT id, name, code FROM subjects WHERE id = $1`
	var subject models.SubjectSummary
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return &subject, nil
}
