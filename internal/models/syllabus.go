package models

import (
	"strings"
	"time"
)

// SyllabusStatus enumerates the stored progress states of a syllabus entry.
type SyllabusStatus string

const (
	SyllabusStatusPending    SyllabusStatus = "pending"
	SyllabusStatusInProgress SyllabusStatus = "in_progress"
	SyllabusStatusCompleted  SyllabusStatus = "completed"
	SyllabusStatusSkipped    SyllabusStatus = "skipped"
)

// syllabusStatusPlanned is accepted on input as a synonym for pending.
const syllabusStatusPlanned = "planned"

// UncategorizedChapter labels entries without a chapter in chapter breakdowns.
const UncategorizedChapter = "Uncategorized"

// SyllabusStatuses lists the canonical statuses in display order.
var SyllabusStatuses = []SyllabusStatus{
	SyllabusStatusPending,
	SyllabusStatusInProgress,
	SyllabusStatusCompleted,
	SyllabusStatusSkipped,
}

// ParseSyllabusStatus normalises raw input into a canonical status.
func ParseSyllabusStatus(raw string) (SyllabusStatus, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == syllabusStatusPlanned {
		return SyllabusStatusPending, true
	}
	for _, status := range SyllabusStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

// SyllabusEntry is one planned curriculum topic for a class, subject and teacher.
type SyllabusEntry struct {
	ID                   string         `db:"id" json:"id"`
	ClassID              string         `db:"class_id" json:"class_id"`
	SubjectID            string         `db:"subject_id" json:"subject_id"`
	TeacherID            string         `db:"teacher_id" json:"teacher_id"`
	Topic                string         `db:"topic" json:"topic"`
	Chapter              *string        `db:"chapter" json:"chapter,omitempty"`
	Unit                 *string        `db:"unit" json:"unit,omitempty"`
	Notes                *string        `db:"notes" json:"notes,omitempty"`
	PlannedDate          time.Time      `db:"planned_date" json:"planned_date"`
	ActualDate           *time.Time     `db:"actual_date" json:"actual_date,omitempty"`
	EstimatedHours       *float64       `db:"estimated_hours" json:"estimated_hours,omitempty"`
	ActualHours          *float64       `db:"actual_hours" json:"actual_hours,omitempty"`
	CompletionPercentage int            `db:"completion_percentage" json:"completion_percentage"`
	Status               SyllabusStatus `db:"status" json:"status"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// ApplyDerivedStatus reconciles status with completion percentage. It is idempotent.
func (e *SyllabusEntry) ApplyDerivedStatus() {
	if e.CompletionPercentage < 0 {
		e.CompletionPercentage = 0
	}
	if e.CompletionPercentage >= 100 {
		e.CompletionPercentage = 100
		e.Status = SyllabusStatusCompleted
		return
	}
	if e.Status == SyllabusStatusCompleted {
		e.CompletionPercentage = 100
		return
	}
	if e.CompletionPercentage > 0 && e.Status != SyllabusStatusSkipped {
		e.Status = SyllabusStatusInProgress
	}
	if e.Status == "" {
		e.Status = SyllabusStatusPending
	}
}

// IsDelayedAt reports whether the entry is overdue relative to now.
func (e *SyllabusEntry) IsDelayedAt(now time.Time) bool {
	if e.Status == SyllabusStatusCompleted || e.Status == SyllabusStatusSkipped {
		return false
	}
	return e.PlannedDate.Before(now)
}

// ChapterLabel returns the chapter or the uncategorized bucket name.
func (e *SyllabusEntry) ChapterLabel() string {
	if e.Chapter == nil || strings.TrimSpace(*e.Chapter) == "" {
		return UncategorizedChapter
	}
	return *e.Chapter
}

// SyllabusEntryDetail is an entry with its class, subject and teacher references resolved.
type SyllabusEntryDetail struct {
	SyllabusEntry
	Class     ClassSummary   `db:"class" json:"class"`
	Subject   SubjectSummary `db:"subject" json:"subject"`
	Teacher   TeacherSummary `db:"teacher" json:"teacher"`
	IsDelayed bool           `db:"-" json:"is_delayed"`
}

// SyllabusFilter captures list filters and pagination.
type SyllabusFilter struct {
	ClassID   string
	SubjectID string
	TeacherID string
	Status    SyllabusStatus
	Chapter   string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
