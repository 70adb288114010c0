package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

var aggregatorNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func strPtr(v string) *string { return &v }

func detail(id, classID, subjectID, teacherID string, status models.SyllabusStatus, planned time.Time) models.SyllabusEntryDetail {
	return models.SyllabusEntryDetail{
		SyllabusEntry: models.SyllabusEntry{
			ID:          id,
			ClassID:     classID,
			SubjectID:   subjectID,
			TeacherID:   teacherID,
			Topic:       "Topic " + id,
			PlannedDate: planned,
			Status:      status,
		},
		Class:   models.ClassSummary{ID: classID, Name: "Grade " + classID, Section: "A"},
		Subject: models.SubjectSummary{ID: subjectID, Name: "Subject " + subjectID},
		Teacher: models.TeacherSummary{ID: teacherID, FullName: "Teacher " + teacherID},
	}
}

func TestCompletionPercentage(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"empty set", 0, 0, 0},
		{"one third", 1, 3, 33.33},
		{"two thirds", 2, 3, 66.67},
		{"all", 4, 4, 100},
		{"none", 0, 7, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CompletionPercentage(tc.completed, tc.total))
		})
	}
}

func TestDelayPredicateIsEvaluatedAgainstNow(t *testing.T) {
	past := detail("1", "c1", "s1", "t1", models.SyllabusStatusPending, aggregatorNow.Add(-24*time.Hour))
	future := detail("2", "c1", "s1", "t1", models.SyllabusStatusPending, aggregatorNow.Add(24*time.Hour))
	donePast := detail("3", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow.Add(-24*time.Hour))
	skippedPast := detail("4", "c1", "s1", "t1", models.SyllabusStatusSkipped, aggregatorNow.Add(-24*time.Hour))

	assert.True(t, past.IsDelayedAt(aggregatorNow))
	assert.False(t, future.IsDelayedAt(aggregatorNow))
	assert.False(t, donePast.IsDelayedAt(aggregatorNow))
	assert.False(t, skippedPast.IsDelayedAt(aggregatorNow))

	// The same entry becomes delayed once time moves past its planned date.
	assert.True(t, future.IsDelayedAt(aggregatorNow.Add(48*time.Hour)))

	entries := []models.SyllabusEntryDetail{past, future, donePast, skippedPast}
	assert.Equal(t, 1, CountDelayed(entries, aggregatorNow))
	assert.Equal(t, 2, CountDelayed(entries, aggregatorNow.Add(48*time.Hour)))
}

func TestChapterBreakdownGroupsMissingChapters(t *testing.T) {
	entries := []models.SyllabusEntryDetail{
		detail("1", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow),
		detail("2", "c1", "s1", "t1", models.SyllabusStatusPending, aggregatorNow),
		detail("3", "c1", "s1", "t1", models.SyllabusStatusInProgress, aggregatorNow),
		detail("4", "c1", "s1", "t1", models.SyllabusStatusSkipped, aggregatorNow),
	}
	entries[0].Chapter = strPtr("Algebra")
	entries[1].Chapter = strPtr("Algebra")
	entries[2].Chapter = strPtr("  ")

	chapters := ChapterBreakdown(entries)
	require.Len(t, chapters, 2)
	assert.Equal(t, 2, chapters["Algebra"].Total)
	assert.Equal(t, 1, chapters["Algebra"].Completed)
	assert.Equal(t, 1, chapters["Algebra"].Pending)
	assert.Equal(t, 2, chapters[models.UncategorizedChapter].Total)
	assert.Equal(t, 1, chapters[models.UncategorizedChapter].InProgress)
	assert.Equal(t, 1, chapters[models.UncategorizedChapter].Skipped)

	sum := 0
	for _, counts := range chapters {
		sum += counts.Total
	}
	assert.Equal(t, len(entries), sum)
}

func TestBuildClassSubjectProgress(t *testing.T) {
	entries := []models.SyllabusEntryDetail{
		detail("1", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow.Add(-72*time.Hour)),
		detail("2", "c1", "s1", "t1", models.SyllabusStatusPending, aggregatorNow.Add(-24*time.Hour)),
		detail("3", "c1", "s1", "t1", models.SyllabusStatusInProgress, aggregatorNow.Add(24*time.Hour)),
	}

	progress := BuildClassSubjectProgress("c1", "s1", entries, aggregatorNow)
	assert.Equal(t, 3, progress.Progress.Total)
	assert.Equal(t, 1, progress.Progress.Completed)
	assert.Equal(t, 1, progress.Progress.InProgress)
	assert.Equal(t, 1, progress.Progress.Pending)
	assert.Equal(t, 1, progress.Progress.Delayed)
	assert.Equal(t, 33.33, progress.Progress.Percentage)
	assert.True(t, progress.Entries[1].IsDelayed)
	assert.False(t, progress.Entries[2].IsDelayed)
	assert.Equal(t, 3, progress.ChapterProgress[models.UncategorizedChapter].Total)
}

func TestBuildClassSubjectProgressEmpty(t *testing.T) {
	progress := BuildClassSubjectProgress("c1", "s1", nil, aggregatorNow)
	assert.NotNil(t, progress.Entries)
	assert.Empty(t, progress.Entries)
	assert.Equal(t, 0.0, progress.Progress.Percentage)
	assert.Empty(t, progress.ChapterProgress)
}

func TestBuildTeacherProgressGroupsByClassSubject(t *testing.T) {
	entries := []models.SyllabusEntryDetail{
		detail("1", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow.Add(-24*time.Hour)),
		detail("2", "c1", "s1", "t1", models.SyllabusStatusInProgress, aggregatorNow.Add(-24*time.Hour)),
		detail("3", "c2", "s2", "t1", models.SyllabusStatusPending, aggregatorNow.Add(24*time.Hour)),
	}

	progress := BuildTeacherProgress("t1", entries, aggregatorNow, DefaultRecentEntriesLimit)
	assert.Equal(t, 33.33, progress.OverallProgress)
	assert.Equal(t, 3, progress.TotalEntries)
	assert.Equal(t, 1, progress.CompletedEntries)
	assert.Equal(t, 1, progress.DelayedEntries)

	require.Len(t, progress.ClassSubjectProgress, 2)
	first := progress.ClassSubjectProgress[0]
	assert.Equal(t, "Grade c1 A - Subject s1", first.Key)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 1, first.Completed)
	assert.Equal(t, 1, first.InProgress)
	assert.Equal(t, 1, first.Delayed)
	assert.Equal(t, 50.0, first.Percentage)

	sum := 0
	for _, group := range progress.ClassSubjectProgress {
		sum += group.Total
	}
	assert.Equal(t, 3, sum)
}

func TestRecentEntriesNewestFirstAndLimited(t *testing.T) {
	entries := make([]models.SyllabusEntryDetail, 0, 12)
	for i := 0; i < 12; i++ {
		entry := detail(string(rune('a'+i)), "c1", "s1", "t1", models.SyllabusStatusPending, aggregatorNow)
		entry.CreatedAt = aggregatorNow.Add(time.Duration(i) * time.Minute)
		entries = append(entries, entry)
	}

	recent := RecentEntries(entries, 10)
	require.Len(t, recent, 10)
	assert.Equal(t, "l", recent[0].ID)
	assert.Equal(t, "c", recent[9].ID)
	// Input order is untouched.
	assert.Equal(t, "a", entries[0].ID)
}

func TestStatusDistributionReportsEveryStatus(t *testing.T) {
	entries := []models.SyllabusEntryDetail{
		detail("1", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow),
		detail("2", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow),
	}
	dist := StatusDistribution(entries)
	assert.Equal(t, map[string]int{"pending": 0, "in_progress": 0, "completed": 2, "skipped": 0}, dist)
}

func TestRankTeachersAndClasses(t *testing.T) {
	entries := []models.SyllabusEntryDetail{
		detail("1", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow),
		detail("2", "c1", "s1", "t1", models.SyllabusStatusPending, aggregatorNow),
		detail("3", "c2", "s1", "t2", models.SyllabusStatusCompleted, aggregatorNow),
		detail("4", "c3", "s1", "t3", models.SyllabusStatusPending, aggregatorNow),
	}

	teachers := RankTeachers(entries)
	require.Len(t, teachers, 3)
	assert.Equal(t, "t2", teachers[0].TeacherID)
	assert.Equal(t, 100.0, teachers[0].CompletionPercentage)
	assert.Equal(t, "t1", teachers[1].TeacherID)
	assert.Equal(t, 2, teachers[1].TotalTopics)
	assert.Equal(t, 50.0, teachers[1].CompletionPercentage)
	assert.Equal(t, "t3", teachers[2].TeacherID)

	classes := RankClasses(entries)
	require.Len(t, classes, 3)
	assert.Equal(t, "c2", classes[0].ClassID)
	assert.Equal(t, "A", classes[0].Section)
	assert.Equal(t, "c1", classes[1].ClassID)
	assert.Equal(t, "c3", classes[2].ClassID)
}

func TestBuildOverview(t *testing.T) {
	entries := []models.SyllabusEntryDetail{
		detail("1", "c1", "s1", "t1", models.SyllabusStatusCompleted, aggregatorNow.Add(-time.Hour)),
		detail("2", "c1", "s1", "t1", models.SyllabusStatusPending, aggregatorNow.Add(-time.Hour)),
	}
	overview := BuildOverview(entries, aggregatorNow)
	assert.Equal(t, 2, overview.TotalEntries)
	assert.Equal(t, 1, overview.DelayedEntries)
	assert.Equal(t, 1, overview.StatusDistribution["completed"])
	assert.Len(t, overview.TeacherPerformance, 1)
	assert.Len(t, overview.ClassPerformance, 1)

	empty := BuildOverview(nil, aggregatorNow)
	assert.Equal(t, 0, empty.TotalEntries)
	assert.NotNil(t, empty.TeacherPerformance)
	assert.Len(t, empty.StatusDistribution, 4)
}

func TestApplyDerivedStatusIsIdempotent(t *testing.T) {
	entry := models.SyllabusEntry{Status: models.SyllabusStatusPending, CompletionPercentage: 100}
	entry.ApplyDerivedStatus()
	assert.Equal(t, models.SyllabusStatusCompleted, entry.Status)
	entry.ApplyDerivedStatus()
	assert.Equal(t, models.SyllabusStatusCompleted, entry.Status)
	assert.Equal(t, 100, entry.CompletionPercentage)

	partial := models.SyllabusEntry{Status: models.SyllabusStatusPending, CompletionPercentage: 40}
	partial.ApplyDerivedStatus()
	assert.Equal(t, models.SyllabusStatusInProgress, partial.Status)

	skipped := models.SyllabusEntry{Status: models.SyllabusStatusSkipped, CompletionPercentage: 40}
	skipped.ApplyDerivedStatus()
	assert.Equal(t, models.SyllabusStatusSkipped, skipped.Status)

	blank := models.SyllabusEntry{}
	blank.ApplyDerivedStatus()
	assert.Equal(t, models.SyllabusStatusPending, blank.Status)
}
