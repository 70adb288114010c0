package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var (
	// ErrDuplicateEntry is returned when the (class, subject, topic) index rejects a write.
	ErrDuplicateEntry = errors.New("syllabus entry already exists")
	// ErrMissingReference is returned when a class, subject or teacher id does not exist.
	ErrMissingReference = errors.New("syllabus reference does not exist")
)

const syllabusDetailColumns = `s.id, s.class_id, s.subject_id, s.teacher_id, s.topic, s.chapter, s.unit, s.notes,
	s.planned_date, s.actual_date, s.estimated_hours, s.actual_hours, s.completion_percentage, s.status,
	s.created_at, s.updated_at,
	c.id AS "class.id", c.name AS "class.name", c.section AS "class.section",
	sub.id AS "subject.id", sub.name AS "subject.name", sub.code AS "subject.code",
	u.id AS "teacher.id", u.full_name AS "teacher.full_name", u.email AS "teacher.email"`

const syllabusDetailFrom = `FROM syllabus_entries s
	JOIN classes c ON c.id = s.class_id
	JOIN subjects sub ON sub.id = s.subject_id
	JOIN users u ON u.id = s.teacher_id`

// SyllabusRepository persists syllabus entries.
type SyllabusRepository struct {
	db *sqlx.DB
}

// NewSyllabusRepository constructs a SyllabusRepository.
func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// Create inserts a new entry.
func (r *SyllabusRepository) Create(ctx context.Context, entry *models.SyllabusEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}

	const query = `INSERT INTO syllabus_entries (id, class_id, subject_id, teacher_id, topic, chapter, unit, notes,
		planned_date, actual_date, estimated_hours, actual_hours, completion_percentage, status, created_at, updated_at)
		VALUES (:id, :class_id, :subject_id, :teacher_id, :topic, :chapter, :unit, :notes,
		:planned_date, :actual_date, :estimated_hours, :actual_hours, :completion_percentage, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create syllabus entry: %w", translateWriteError(err))
	}
	return nil
}

// Update overwrites the mutable columns of an entry. Returns sql.ErrNoRows when the id is unknown.
func (r *SyllabusRepository) Update(ctx context.Context, entry *models.SyllabusEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	const query = `UPDATE syllabus_entries SET class_id = :class_id, subject_id = :subject_id, teacher_id = :teacher_id,
		topic = :topic, chapter = :chapter, unit = :unit, notes = :notes, planned_date = :planned_date,
		actual_date = :actual_date, estimated_hours = :estimated_hours, actual_hours = :actual_hours,
		completion_percentage = :completion_percentage, status = :status, updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("update syllabus entry: %w", translateWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes an entry physically. Returns sql.ErrNoRows when the id is unknown.
func (r *SyllabusRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM syllabus_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete syllabus entry: %w", err)
	}
	return requireAffected(res)
}

// FindByID fetches an entry with its class, subject and teacher resolved.
func (r *SyllabusRepository) FindByID(ctx context.Context, id string) (*models.SyllabusEntryDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.id = $1", syllabusDetailColumns, syllabusDetailFrom)
	var entry models.SyllabusEntryDetail
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find syllabus entry: %w", err)
	}
	return &entry, nil
}

// ExistsByTopic reports whether another entry of the class and subject already uses topic.
func (r *SyllabusRepository) ExistsByTopic(ctx context.Context, classID, subjectID, topic, excludeID string) (bool, error) {
	query := "SELECT 1 FROM syllabus_entries WHERE class_id = $1 AND subject_id = $2 AND topic = $3"
	args := []interface{}{classID, subjectID, strings.TrimSpace(topic)}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check syllabus topic: %w", err)
	}
	return true, nil
}

// List returns one page of entries matching the filter ordered by planned date, plus the total match count.
func (r *SyllabusRepository) List(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntryDetail, int, error) {
	where, args := buildSyllabusWhere(filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s%s ORDER BY s.planned_date ASC, s.id ASC LIMIT %d OFFSET %d", syllabusDetailColumns, syllabusDetailFrom, where, size, offset)
	entries := make([]models.SyllabusEntryDetail, 0)
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list syllabus entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM syllabus_entries s%s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count syllabus entries: %w", err)
	}

	return entries, total, nil
}

// Search returns every entry matching the filter without pagination.
func (r *SyllabusRepository) Search(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntryDetail, error) {
	where, args := buildSyllabusWhere(filter)
	query := fmt.Sprintf("SELECT %s %s%s ORDER BY s.planned_date ASC, s.id ASC", syllabusDetailColumns, syllabusDetailFrom, where)
	entries := make([]models.SyllabusEntryDetail, 0)
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("search syllabus entries: %w", err)
	}
	return entries, nil
}

// ListByClassSubject returns every entry of a class and subject.
func (r *SyllabusRepository) ListByClassSubject(ctx context.Context, classID, subjectID string) ([]models.SyllabusEntryDetail, error) {
	return r.Search(ctx, models.SyllabusFilter{ClassID: classID, SubjectID: subjectID})
}

// ListByTeacher returns every entry assigned to a teacher in insertion order.
func (r *SyllabusRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.SyllabusEntryDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.teacher_id = $1 ORDER BY s.created_at ASC, s.id ASC", syllabusDetailColumns, syllabusDetailFrom)
	entries := make([]models.SyllabusEntryDetail, 0)
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher syllabus entries: %w", err)
	}
	return entries, nil
}

// ListAll returns every entry, used by the system-wide statistics.
func (r *SyllabusRepository) ListAll(ctx context.Context) ([]models.SyllabusEntryDetail, error) {
	return r.Search(ctx, models.SyllabusFilter{})
}

type statusCountRow struct {
	Status models.SyllabusStatus `db:"status"`
	Total  int                   `db:"total"`
}

// CountByStatus tallies stored entries per status.
func (r *SyllabusRepository) CountByStatus(ctx context.Context) (map[models.SyllabusStatus]int, error) {
	var rows []statusCountRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS total FROM syllabus_entries GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count syllabus statuses: %w", err)
	}
	counts := make(map[models.SyllabusStatus]int, len(models.SyllabusStatuses))
	for _, status := range models.SyllabusStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountDelayed counts open entries whose planned date is before now.
func (r *SyllabusRepository) CountDelayed(ctx context.Context, now time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM syllabus_entries WHERE status NOT IN ('completed', 'skipped') AND planned_date < $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, now); err != nil {
		return 0, fmt.Errorf("count delayed syllabus entries: %w", err)
	}
	return total, nil
}

func buildSyllabusWhere(filter models.SyllabusFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("s.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("s.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if chapter := strings.TrimSpace(filter.Chapter); chapter != "" {
		conditions = append(conditions, fmt.Sprintf("s.chapter ILIKE $%d", len(args)+1))
		args = append(args, "%"+escapeLike(chapter)+"%")
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("s.planned_date >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("s.planned_date <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func translateWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, pqErr.Constraint)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrMissingReference, pqErr.Constraint)
	default:
		return err
	}
}
