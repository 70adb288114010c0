package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var detailColumns = []string{
	"id", "class_id", "subject_id", "teacher_id", "topic", "chapter", "unit", "notes",
	"planned_date", "actual_date", "estimated_hours", "actual_hours", "completion_percentage", "status",
	"created_at", "updated_at",
	"class.id", "class.name", "class.section",
	"subject.id", "subject.name", "subject.code",
	"teacher.id", "teacher.full_name", "teacher.email",
}

func detailRow(rows *sqlmock.Rows, id, topic string, chapter interface{}, status models.SyllabusStatus, planned time.Time) *sqlmock.Rows {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "c1", "s1", "t1", topic, chapter, nil, nil,
		planned, nil, nil, nil, 0, string(status),
		now, now,
		"c1", "Grade 10", "A",
		"s1", "Mathematics", "MATH",
		"t1", "Teacher One", "t1@example.com",
	)
}

func TestSyllabusRepositoryFindByIDHydratesReferences(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	planned := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs("e1").
		WillReturnRows(detailRow(sqlmock.NewRows(detailColumns), "e1", "Algebra", "Chapter 1", models.SyllabusStatusPending, planned))

	entry, err := repo.FindByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", entry.Topic)
	require.NotNil(t, entry.Chapter)
	assert.Equal(t, "Chapter 1", *entry.Chapter)
	assert.Equal(t, "Grade 10", entry.Class.Name)
	assert.Equal(t, "A", entry.Class.Section)
	assert.Equal(t, "Mathematics", entry.Subject.Name)
	assert.Equal(t, "Teacher One", entry.Teacher.FullName)
	assert.Equal(t, planned, entry.PlannedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyllabusRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSyllabusRepositoryListAppliesFiltersAndPagination(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	filter := models.SyllabusFilter{
		ClassID:   "c1",
		SubjectID: "s1",
		TeacherID: "t1",
		Status:    models.SyllabusStatusPending,
		Chapter:   "alg",
		StartDate: &start,
		EndDate:   &end,
		Page:      2,
		PageSize:  10,
	}

	where := " WHERE s.class_id = $1 AND s.subject_id = $2 AND s.teacher_id = $3 AND s.status = $4 AND s.chapter ILIKE $5 AND s.planned_date >= $6 AND s.planned_date <= $7"
	rows := sqlmock.NewRows(detailColumns)
	for i := 0; i < 10; i++ {
		detailRow(rows, "e", "Topic", nil, models.SyllabusStatusPending, start)
	}
	mock.ExpectQuery(regexp.QuoteMeta(where+" ORDER BY s.planned_date ASC, s.id ASC LIMIT 10 OFFSET 10")).
		WithArgs("c1", "s1", "t1", models.SyllabusStatusPending, "%alg%", start, end).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM syllabus_entries s" + where)).
		WithArgs("c1", "s1", "t1", models.SyllabusStatusPending, "%alg%", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	list, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, list, 10)
	assert.Equal(t, 25, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyllabusRepositoryListEscapesChapterWildcards(t *testing.T) {
	_, args := buildSyllabusWhere(models.SyllabusFilter{Chapter: " 50%_off "})
	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_off%`, args[0])
}

func TestSyllabusRepositoryCreateTranslatesUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectExec("INSERT INTO syllabus_entries").
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "syllabus_entries_class_subject_topic_key"})

	entry := &models.SyllabusEntry{ClassID: "c1", SubjectID: "s1", TeacherID: "t1", Topic: "Algebra", Status: models.SyllabusStatusPending}
	err := repo.Create(context.Background(), entry)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyllabusRepositoryCreateTranslatesForeignKeyViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectExec("INSERT INTO syllabus_entries").
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := repo.Create(context.Background(), &models.SyllabusEntry{Topic: "Algebra"})
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestSyllabusRepositoryUpdateAndDeleteReportMissingRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectExec("UPDATE syllabus_entries SET").WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Update(context.Background(), &models.SyllabusEntry{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM syllabus_entries WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "e1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM syllabus_entries WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyllabusRepositoryExistsByTopic(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM syllabus_entries WHERE class_id = $1 AND subject_id = $2 AND topic = $3 LIMIT 1")).
		WithArgs("c1", "s1", "Algebra").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := repo.ExistsByTopic(context.Background(), "c1", "s1", "  Algebra ", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM syllabus_entries WHERE class_id = $1 AND subject_id = $2 AND topic = $3 AND id <> $4 LIMIT 1")).
		WithArgs("c1", "s1", "Algebra", "e1").
		WillReturnError(sql.ErrNoRows)
	exists, err = repo.ExistsByTopic(context.Background(), "c1", "s1", "Algebra", "e1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyllabusRepositoryCountByStatusFillsMissingStatuses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS total FROM syllabus_entries GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).AddRow("completed", 4).AddRow("pending", 2))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, counts[models.SyllabusStatusCompleted])
	assert.Equal(t, 2, counts[models.SyllabusStatusPending])
	assert.Equal(t, 0, counts[models.SyllabusStatusSkipped])
	assert.Len(t, counts, 4)
}

func TestSyllabusRepositoryCountDelayed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("status NOT IN ('completed', 'skipped') AND planned_date < $1")).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.CountDelayed(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestSyllabusRepositoryListByTeacherWrapsErrors(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.teacher_id = $1 ORDER BY s.created_at ASC")).
		WithArgs("t1").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListByTeacher(context.Background(), "t1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list teacher syllabus entries")
}
