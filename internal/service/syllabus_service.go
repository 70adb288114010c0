package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/repository"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/validation"
)

const (
	dateLayout       = "2006-01-02"
	maxBulkUpdates   = 500
	syllabusNotFound = "Syllabus entry not found"
)

type syllabusRepository interface {
	Create(ctx context.Context, entry *models.SyllabusEntry) error
	Update(ctx context.Context, entry *models.SyllabusEntry) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.SyllabusEntryDetail, error)
	ExistsByTopic(ctx context.Context, classID, subjectID, topic, excludeID string) (bool, error)
	List(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntryDetail, int, error)
	Search(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntryDetail, error)
	ListByClassSubject(ctx context.Context, classID, subjectID string) ([]models.SyllabusEntryDetail, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.SyllabusEntryDetail, error)
	ListAll(ctx context.Context) ([]models.SyllabusEntryDetail, error)
}

type referenceResolver interface {
	Class(ctx context.Context, id string) (*models.ClassSummary, error)
	Subject(ctx context.Context, id string) (*models.SubjectSummary, error)
	Teacher(ctx context.Context, id string) (*models.TeacherSummary, error)
	Forget(ctx context.Context, classID, subjectID, teacherID string)
}

type auditRecorder interface {
	Record(ctx context.Context, action, resourceID string, values interface{})
}

// CreateSyllabusRequest is the payload for creating an entry. Dates accept YYYY-MM-DD or RFC3339.
type CreateSyllabusRequest struct {
	ClassID              string   `json:"class_id" validate:"required,notblank"`
	SubjectID            string   `json:"subject_id" validate:"required,notblank"`
	TeacherID            string   `json:"teacher_id" validate:"required,notblank"`
	Topic                string   `json:"topic" validate:"required,notblank,max=255"`
	Chapter              *string  `json:"chapter" validate:"omitempty,max=255"`
	Unit                 *string  `json:"unit" validate:"omitempty,max=255"`
	Notes                *string  `json:"notes" validate:"omitempty,max=2000"`
	PlannedDate          string   `json:"planned_date" validate:"required,notblank"`
	ActualDate           *string  `json:"actual_date"`
	EstimatedHours       *float64 `json:"estimated_hours" validate:"omitempty,gte=0"`
	ActualHours          *float64 `json:"actual_hours" validate:"omitempty,gte=0"`
	CompletionPercentage *int     `json:"completion_percentage" validate:"omitempty,min=0,max=100"`
	Status               *string  `json:"status"`
}

// UpdateSyllabusRequest is a partial update; nil fields are left untouched.
type UpdateSyllabusRequest struct {
	ClassID              *string  `json:"class_id" validate:"omitempty,notblank"`
	SubjectID            *string  `json:"subject_id" validate:"omitempty,notblank"`
	TeacherID            *string  `json:"teacher_id" validate:"omitempty,notblank"`
	Topic                *string  `json:"topic" validate:"omitempty,notblank,max=255"`
	Chapter              *string  `json:"chapter" validate:"omitempty,max=255"`
	Unit                 *string  `json:"unit" validate:"omitempty,max=255"`
	Notes                *string  `json:"notes" validate:"omitempty,max=2000"`
	PlannedDate          *string  `json:"planned_date" validate:"omitempty,notblank"`
	ActualDate           *string  `json:"actual_date"`
	EstimatedHours       *float64 `json:"estimated_hours" validate:"omitempty,gte=0"`
	ActualHours          *float64 `json:"actual_hours" validate:"omitempty,gte=0"`
	CompletionPercentage *int     `json:"completion_percentage" validate:"omitempty,min=0,max=100"`
	Status               *string  `json:"status"`
}

// UpdateSyllabusStatusRequest changes only the status of an entry.
type UpdateSyllabusStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// BulkStatusItem is one element of a bulk status update.
type BulkStatusItem struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// BulkUpdateSyllabusRequest wraps a list of status changes.
type BulkUpdateSyllabusRequest struct {
	Updates []BulkStatusItem `json:"updates" validate:"required,min=1,max=500"`
}

// ListSyllabusRequest carries raw list filters as received from the query string.
type ListSyllabusRequest struct {
	ClassID   string
	SubjectID string
	TeacherID string
	Status    string
	Chapter   string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// SyllabusConfig tunes pagination and aggregation.
type SyllabusConfig struct {
	DefaultPageSize    int
	MaxPageSize        int
	RecentEntriesLimit int
}

// SyllabusService implements the syllabus entry store and progress queries.
type SyllabusService struct {
	repo      syllabusRepository
	refs      referenceResolver
	audit     auditRecorder
	metrics   *MetricsService
	validator *validation.Validator
	logger    *zap.Logger
	config    SyllabusConfig
	now       func() time.Time
}

// NewSyllabusService constructs a SyllabusService.
func NewSyllabusService(repo syllabusRepository, refs referenceResolver, audit auditRecorder, metrics *MetricsService, validate *validation.Validator, logger *zap.Logger, config SyllabusConfig) *SyllabusService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if audit == nil {
		audit = noopAudit{}
	}
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = 10
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = 100
	}
	if config.RecentEntriesLimit <= 0 {
		config.RecentEntriesLimit = DefaultRecentEntriesLimit
	}
	return &SyllabusService{
		repo:      repo,
		refs:      refs,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source.
func (s *SyllabusService) WithClock(now func() time.Time) *SyllabusService {
	s.now = now
	return s
}

// Create validates and stores a new entry, returning it hydrated.
func (s *SyllabusService) Create(ctx context.Context, req CreateSyllabusRequest) (*models.SyllabusEntryDetail, error) {
	entry, err := s.create(ctx, req)
	s.metrics.RecordSyllabusMutation(models.AuditActionSyllabusCreate, err)
	return entry, err
}

func (s *SyllabusService) create(ctx context.Context, req CreateSyllabusRequest) (*models.SyllabusEntryDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err.Error())
	}

	now := s.now()
	entry := &models.SyllabusEntry{
		ClassID:        strings.TrimSpace(req.ClassID),
		SubjectID:      strings.TrimSpace(req.SubjectID),
		TeacherID:      strings.TrimSpace(req.TeacherID),
		Topic:          strings.TrimSpace(req.Topic),
		Chapter:        normalizeOptional(req.Chapter),
		Unit:           normalizeOptional(req.Unit),
		Notes:          normalizeOptional(req.Notes),
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Status:         models.SyllabusStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	planned, _, err := parseDate("planned_date", req.PlannedDate)
	if err != nil {
		return nil, err
	}
	entry.PlannedDate = planned
	if entry.ActualDate, err = parseOptionalDate("actual_date", req.ActualDate); err != nil {
		return nil, err
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		entry.Status = status
	}
	if req.CompletionPercentage != nil {
		entry.CompletionPercentage = *req.CompletionPercentage
	}

	if err := s.ensureReferences(ctx, entry.ClassID, entry.SubjectID, entry.TeacherID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueTopic(ctx, entry, ""); err != nil {
		return nil, err
	}

	s.finalize(entry, now)
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, s.writeError(ctx, entry, err, "failed to create syllabus entry")
	}

	detail, err := s.load(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, models.AuditActionSyllabusCreate, entry.ID, entry)
	return detail, nil
}

// Get returns one entry with its delay flag evaluated now.
func (s *SyllabusService) Get(ctx context.Context, id string) (*models.SyllabusEntryDetail, error) {
	return s.load(ctx, id)
}

// List returns a page of entries ordered by planned date.
func (s *SyllabusService) List(ctx context.Context, req ListSyllabusRequest) ([]models.SyllabusEntryDetail, *models.Pagination, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, nil, err
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list syllabus entries")
	}
	MarkDelayed(entries, s.now())
	return entries, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Search returns every entry matching the filters, ignoring pagination.
func (s *SyllabusService) Search(ctx context.Context, req ListSyllabusRequest) ([]models.SyllabusEntryDetail, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search syllabus entries")
	}
	MarkDelayed(entries, s.now())
	return entries, nil
}

// Update merges the non-nil fields into an existing entry.
func (s *SyllabusService) Update(ctx context.Context, id string, req UpdateSyllabusRequest) (*models.SyllabusEntryDetail, error) {
	entry, err := s.update(ctx, id, req)
	s.metrics.RecordSyllabusMutation(models.AuditActionSyllabusUpdate, err)
	return entry, err
}

func (s *SyllabusService) update(ctx context.Context, id string, req UpdateSyllabusRequest) (*models.SyllabusEntryDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err.Error())
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := current.SyllabusEntry

	referencesChanged := false
	if req.ClassID != nil {
		referencesChanged = referencesChanged || strings.TrimSpace(*req.ClassID) != entry.ClassID
		entry.ClassID = strings.TrimSpace(*req.ClassID)
	}
	if req.SubjectID != nil {
		referencesChanged = referencesChanged || strings.TrimSpace(*req.SubjectID) != entry.SubjectID
		entry.SubjectID = strings.TrimSpace(*req.SubjectID)
	}
	if req.TeacherID != nil {
		referencesChanged = referencesChanged || strings.TrimSpace(*req.TeacherID) != entry.TeacherID
		entry.TeacherID = strings.TrimSpace(*req.TeacherID)
	}
	topicChanged := false
	if req.Topic != nil {
		topic := strings.TrimSpace(*req.Topic)
		topicChanged = topic != entry.Topic
		entry.Topic = topic
	}
	if req.Chapter != nil {
		entry.Chapter = normalizeOptional(req.Chapter)
	}
	if req.Unit != nil {
		entry.Unit = normalizeOptional(req.Unit)
	}
	if req.Notes != nil {
		entry.Notes = normalizeOptional(req.Notes)
	}
	if req.PlannedDate != nil {
		planned, _, err := parseDate("planned_date", *req.PlannedDate)
		if err != nil {
			return nil, err
		}
		entry.PlannedDate = planned
	}
	if req.EstimatedHours != nil {
		entry.EstimatedHours = req.EstimatedHours
	}
	if req.ActualHours != nil {
		entry.ActualHours = req.ActualHours
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		applyStatus(&entry, status)
	}
	if req.CompletionPercentage != nil {
		progress := *req.CompletionPercentage
		if req.Status == nil && progress < 100 && entry.Status == models.SyllabusStatusCompleted {
			applyStatus(&entry, models.SyllabusStatusPending)
		}
		entry.CompletionPercentage = progress
	}
	if req.ActualDate != nil {
		if entry.ActualDate, err = parseOptionalDate("actual_date", req.ActualDate); err != nil {
			return nil, err
		}
	}

	if referencesChanged {
		if err := s.ensureReferences(ctx, entry.ClassID, entry.SubjectID, entry.TeacherID); err != nil {
			return nil, err
		}
	}
	if referencesChanged || topicChanged {
		if err := s.ensureUniqueTopic(ctx, &entry, entry.ID); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, &entry, models.AuditActionSyllabusUpdate)
}

// UpdateStatus changes the status of an entry, stamping the actual date on completion.
func (s *SyllabusService) UpdateStatus(ctx context.Context, id string, req UpdateSyllabusStatusRequest) (*models.SyllabusEntryDetail, error) {
	entry, err := s.updateStatus(ctx, id, req)
	s.metrics.RecordSyllabusMutation(models.AuditActionSyllabusStatus, err)
	return entry, err
}

func (s *SyllabusService) updateStatus(ctx context.Context, id string, req UpdateSyllabusStatusRequest) (*models.SyllabusEntryDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err.Error())
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := current.SyllabusEntry
	applyStatus(&entry, status)
	if req.Notes != nil {
		entry.Notes = normalizeOptional(req.Notes)
	}
	return s.save(ctx, &entry, models.AuditActionSyllabusStatus)
}

// Delete removes an entry physically.
func (s *SyllabusService) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	s.metrics.RecordSyllabusMutation(models.AuditActionSyllabusDelete, err)
	return err
}

func (s *SyllabusService) delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, syllabusNotFound)
		}
		return appErrors.Internal(err, "failed to delete syllabus entry")
	}
	s.audit.Record(ctx, models.AuditActionSyllabusDelete, id, nil)
	return nil
}

// BulkUpdateStatus applies each status change independently and reports per-item failures.
func (s *SyllabusService) BulkUpdateStatus(ctx context.Context, req BulkUpdateSyllabusRequest) (*dto.BulkUpdateResult, error) {
	if len(req.Updates) == 0 {
		return nil, validationError("updates must contain at least one item")
	}
	if len(req.Updates) > maxBulkUpdates {
		return nil, validationError(fmt.Sprintf("updates must contain at most %d items", maxBulkUpdates))
	}

	result := &dto.BulkUpdateResult{
		Updated: make([]models.SyllabusEntryDetail, 0, len(req.Updates)),
		Failed:  make([]dto.BulkUpdateFailure, 0),
	}
	ids := make([]string, 0, len(req.Updates))
	for _, item := range req.Updates {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			result.Failed = append(result.Failed, dto.BulkUpdateFailure{ID: item.ID, Error: "id is required"})
			continue
		}
		entry, err := s.updateStatus(ctx, id, UpdateSyllabusStatusRequest{Status: item.Status, Notes: item.Notes})
		s.metrics.RecordSyllabusMutation(models.AuditActionSyllabusBulkStatus, err)
		if err != nil {
			result.Failed = append(result.Failed, dto.BulkUpdateFailure{ID: id, Error: appErrors.FromError(err).Message})
			continue
		}
		result.Updated = append(result.Updated, *entry)
		ids = append(ids, id)
	}
	result.Count = len(result.Updated)

	if len(ids) > 0 {
		s.audit.Record(ctx, models.AuditActionSyllabusBulkStatus, "", map[string]interface{}{"ids": ids, "failed": len(result.Failed)})
	}
	if len(result.Failed) > 0 {
		s.logger.Warn("bulk syllabus update partially failed", zap.Int("updated", result.Count), zap.Int("failed", len(result.Failed)))
	}
	return result, nil
}

// ClassSubjectProgress aggregates every entry of a class and subject.
func (s *SyllabusService) ClassSubjectProgress(ctx context.Context, classID, subjectID string) (*dto.ClassSubjectProgressResponse, error) {
	entries, err := s.repo.ListByClassSubject(ctx, classID, subjectID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load syllabus progress")
	}
	return BuildClassSubjectProgress(classID, subjectID, entries, s.now()), nil
}

// TeacherProgress aggregates every entry assigned to a teacher.
func (s *SyllabusService) TeacherProgress(ctx context.Context, teacherID string) (*dto.TeacherProgressResponse, error) {
	if _, err := s.refs.Teacher(ctx, teacherID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teacher progress")
	}
	return BuildTeacherProgress(teacherID, entries, s.now(), s.config.RecentEntriesLimit), nil
}

// Overview computes system-wide statistics.
func (s *SyllabusService) Overview(ctx context.Context) (*dto.SyllabusOverview, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load syllabus statistics")
	}
	return BuildOverview(entries, s.now()), nil
}

func (s *SyllabusService) save(ctx context.Context, entry *models.SyllabusEntry, action string) (*models.SyllabusEntryDetail, error) {
	now := s.now()
	s.finalize(entry, now)
	entry.UpdatedAt = now
	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, syllabusNotFound)
		}
		return nil, s.writeError(ctx, entry, err, "failed to update syllabus entry")
	}
	detail, err := s.load(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, action, entry.ID, entry)
	return detail, nil
}

// finalize applies the derived status rule and stamps completion.
func (s *SyllabusService) finalize(entry *models.SyllabusEntry, now time.Time) {
	entry.ApplyDerivedStatus()
	if entry.Status == models.SyllabusStatusCompleted && entry.ActualDate == nil {
		stamped := now
		entry.ActualDate = &stamped
	}
}

func (s *SyllabusService) load(ctx context.Context, id string) (*models.SyllabusEntryDetail, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, syllabusNotFound)
		}
		return nil, appErrors.Internal(err, "failed to load syllabus entry")
	}
	entry.IsDelayed = entry.IsDelayedAt(s.now())
	return entry, nil
}

func (s *SyllabusService) ensureReferences(ctx context.Context, classID, subjectID, teacherID string) error {
	if _, err := s.refs.Teacher(ctx, teacherID); err != nil {
		return err
	}
	if _, err := s.refs.Class(ctx, classID); err != nil {
		return err
	}
	if _, err := s.refs.Subject(ctx, subjectID); err != nil {
		return err
	}
	return nil
}

func (s *SyllabusService) ensureUniqueTopic(ctx context.Context, entry *models.SyllabusEntry, excludeID string) error {
	exists, err := s.repo.ExistsByTopic(ctx, entry.ClassID, entry.SubjectID, entry.Topic, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to check syllabus topic")
	}
	if exists {
		return appErrors.ErrDuplicateTopic
	}
	return nil
}

// writeError maps storage write failures. A missing reference evicts the cached summaries that passed the checks.
func (s *SyllabusService) writeError(ctx context.Context, entry *models.SyllabusEntry, err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEntry):
		return appErrors.ErrDuplicateTopic
	case errors.Is(err, repository.ErrMissingReference):
		s.refs.Forget(ctx, entry.ClassID, entry.SubjectID, entry.TeacherID)
		return appErrors.Clone(appErrors.ErrNotFound, "Class, subject or teacher not found")
	default:
		s.logger.Error(message, zap.Error(err))
		return appErrors.Internal(err, message)
	}
}

func (s *SyllabusService) buildFilter(req ListSyllabusRequest) (models.SyllabusFilter, error) {
	filter := models.SyllabusFilter{
		ClassID:   strings.TrimSpace(req.ClassID),
		SubjectID: strings.TrimSpace(req.SubjectID),
		TeacherID: strings.TrimSpace(req.TeacherID),
		Chapter:   strings.TrimSpace(req.Chapter),
		Page:      req.Page,
		PageSize:  req.Limit,
	}
	if strings.TrimSpace(req.Status) != "" {
		status, err := parseStatus(req.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}
	if strings.TrimSpace(req.StartDate) != "" {
		start, _, err := parseDate("start_date", req.StartDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}
	if strings.TrimSpace(req.EndDate) != "" {
		end, dateOnly, err := parseDate("end_date", req.EndDate)
		if err != nil {
			return filter, err
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, validationError("end_date must not be before start_date")
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = s.config.DefaultPageSize
	}
	if filter.PageSize > s.config.MaxPageSize {
		filter.PageSize = s.config.MaxPageSize
	}
	return filter, nil
}

// applyStatus sets an explicit status. Leaving completed clears the actual date and full progress.
func applyStatus(entry *models.SyllabusEntry, status models.SyllabusStatus) {
	if entry.Status == models.SyllabusStatusCompleted && status != models.SyllabusStatusCompleted {
		entry.ActualDate = nil
	}
	entry.Status = status
	switch status {
	case models.SyllabusStatusPending:
		entry.CompletionPercentage = 0
	case models.SyllabusStatusCompleted:
		entry.CompletionPercentage = 100
	default:
		if entry.CompletionPercentage >= 100 {
			entry.CompletionPercentage = 0
		}
	}
}

func parseStatus(raw string) (models.SyllabusStatus, error) {
	status, ok := models.ParseSyllabusStatus(raw)
	if !ok {
		return "", validationError(invalidStatusMessage())
	}
	return status, nil
}

func invalidStatusMessage() string {
	names := make([]string, len(models.SyllabusStatuses))
	for i, status := range models.SyllabusStatuses {
		names[i] = string(status)
	}
	return "Invalid status. Must be one of: " + strings.Join(names, ", ")
}

// parseDate accepts YYYY-MM-DD or RFC3339 and reports whether the value was date-only.
func parseDate(field, raw string) (time.Time, bool, error) {
	value := strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, validationError(fmt.Sprintf("%s must be a date (YYYY-MM-DD) or RFC3339 timestamp", field))
}

// parseOptionalDate returns nil for a nil or blank value.
func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, _, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, string, string, interface{}) {}

func validationError(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}
