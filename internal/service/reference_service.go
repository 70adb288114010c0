package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

const (
	referenceKeyClass   = "ref:class:"
	referenceKeySubject = "ref:subject:"
	referenceKeyTeacher = "ref:teacher:"
)

type referenceRepository interface {
	FindClass(ctx context.Context, id string) (*models.ClassSummary, error)
	FindSubject(ctx context.Context, id string) (*models.SubjectSummary, error)
}

type teacherLookup interface {
	FindTeacher(ctx context.Context, id string) (*models.TeacherSummary, error)
}

// ReferenceService resolves classes, subjects and teachers, caching the summaries in Redis.
type ReferenceService struct {
	refs     referenceRepository
	teachers teacherLookup
	cache    *CacheService
	ttl      time.Duration
	logger   *zap.Logger
}

// NewReferenceService constructs a ReferenceService. cache may be nil.
func NewReferenceService(refs referenceRepository, teachers teacherLookup, cache *CacheService, ttl time.Duration, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{refs: refs, teachers: teachers, cache: cache, ttl: ttl, logger: logger}
}

// Class returns the class summary or NotFound.
func (s *ReferenceService) Class(ctx context.Context, id string) (*models.ClassSummary, error) {
	class, err := Remember(ctx, s.cache, referenceKeyClass+id, s.ttl, func(ctx context.Context) (*models.ClassSummary, error) {
		return s.refs.FindClass(ctx, id)
	})
	return class, lookupError(err, "Class not found", "failed to load class")
}

// Subject returns the subject summary or NotFound.
func (s *ReferenceService) Subject(ctx context.Context, id string) (*models.SubjectSummary, error) {
	subject, err := Remember(ctx, s.cache, referenceKeySubject+id, s.ttl, func(ctx context.Context) (*models.SubjectSummary, error) {
		return s.refs.FindSubject(ctx, id)
	})
	return subject, lookupError(err, "Subject not found", "failed to load subject")
}

// Teacher returns the summary of a user with the teacher role, or NotFound.
func (s *ReferenceService) Teacher(ctx context.Context, id string) (*models.TeacherSummary, error) {
	teacher, err := Remember(ctx, s.cache, referenceKeyTeacher+id, s.ttl, func(ctx context.Context) (*models.TeacherSummary, error) {
		return s.teachers.FindTeacher(ctx, id)
	})
	return teacher, lookupError(err, "Teacher not found", "failed to load teacher")
}

// Forget drops the cached summaries for the given ids.
func (s *ReferenceService) Forget(ctx context.Context, classID, subjectID, teacherID string) {
	keys := make([]string, 0, 3)
	if classID != "" {
		keys = append(keys, referenceKeyClass+classID)
	}
	if subjectID != "" {
		keys = append(keys, referenceKeySubject+subjectID)
	}
	if teacherID != "" {
		keys = append(keys, referenceKeyTeacher+teacherID)
	}
	if len(keys) > 0 {
		s.cache.Invalidate(ctx, keys...)
	}
}

func lookupError(err error, notFound, internal string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, internal)
}
