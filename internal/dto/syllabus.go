package dto

import "github.com/noah-isme/sma-syllabus-api/internal/models"

// StatusCounts tallies entries per canonical status.
type StatusCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
	Skipped    int `json:"skipped"`
}

// Add counts one entry with the given status.
func (c *StatusCounts) Add(status models.SyllabusStatus) {
	c.Total++
	switch status {
	case models.SyllabusStatusCompleted:
		c.Completed++
	case models.SyllabusStatusInProgress:
		c.InProgress++
	case models.SyllabusStatusPending:
		c.Pending++
	case models.SyllabusStatusSkipped:
		c.Skipped++
	}
}

// ProgressSummary is the headline progress block for a set of entries.
type ProgressSummary struct {
	StatusCounts
	Delayed    int     `json:"delayed"`
	Percentage float64 `json:"percentage"`
}

// ClassSubjectProgressResponse is returned by the class/subject progress endpoint.
type ClassSubjectProgressResponse struct {
	ClassID         string                       `json:"class_id"`
	SubjectID       string                       `json:"subject_id"`
	Entries         []models.SyllabusEntryDetail `json:"entries"`
	Progress        ProgressSummary              `json:"progress"`
	ChapterProgress map[string]StatusCounts      `json:"chapter_progress"`
}

// ClassSubjectProgress groups a teacher's entries for one class and subject.
type ClassSubjectProgress struct {
	Key         string `json:"key"`
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	Section     string `json:"section"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	StatusCounts
	Delayed    int     `json:"delayed"`
	Percentage float64 `json:"percentage"`
}

// TeacherProgressResponse is returned by the teacher progress endpoint.
type TeacherProgressResponse struct {
	TeacherID            string                       `json:"teacher_id"`
	OverallProgress      float64                      `json:"overall_progress"`
	TotalEntries         int                          `json:"total_entries"`
	CompletedEntries     int                          `json:"completed_entries"`
	DelayedEntries       int                          `json:"delayed_entries"`
	ClassSubjectProgress []ClassSubjectProgress       `json:"class_subject_progress"`
	RecentEntries        []models.SyllabusEntryDetail `json:"recent_entries"`
}

// TeacherPerformance ranks a teacher by completion.
type TeacherPerformance struct {
	TeacherID            string  `json:"teacher_id"`
	TeacherName          string  `json:"teacher_name"`
	TotalTopics          int     `json:"total_topics"`
	CompletedTopics      int     `json:"completed_topics"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ClassPerformance ranks a class by completion.
type ClassPerformance struct {
	ClassID              string  `json:"class_id"`
	ClassName            string  `json:"class_name"`
	Section              string  `json:"section"`
	TotalTopics          int     `json:"total_topics"`
	CompletedTopics      int     `json:"completed_topics"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// SyllabusOverview holds system-wide syllabus statistics.
type SyllabusOverview struct {
	TotalEntries       int                  `json:"total_entries"`
	StatusDistribution map[string]int       `json:"status_distribution"`
	DelayedEntries     int                  `json:"delayed_entries"`
	TeacherPerformance []TeacherPerformance `json:"teacher_performance"`
	ClassPerformance   []ClassPerformance   `json:"class_performance"`
}

// BulkUpdateFailure reports one item of a bulk update that was not applied.
type BulkUpdateFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkUpdateResult reports the outcome of a best-effort bulk status update.
type BulkUpdateResult struct {
	Count   int                          `json:"count"`
	Updated []models.SyllabusEntryDetail `json:"updated"`
	Failed  []BulkUpdateFailure          `json:"failed"`
}
