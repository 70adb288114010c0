package service

import (
	"math"
	"sort"
	"time"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

// DefaultRecentEntriesLimit is the size of the teacher recent activity list.
const DefaultRecentEntriesLimit = 10

// CompletionPercentage returns completed/total*100 rounded to two decimals, or 0 for an empty set.
func CompletionPercentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

// CountStatuses tallies entries per canonical status.
func CountStatuses(entries []models.SyllabusEntryDetail) dto.StatusCounts {
	var counts dto.StatusCounts
	for i := range entries {
		counts.Add(entries[i].Status)
	}
	return counts
}

// CountDelayed counts entries overdue relative to now.
func CountDelayed(entries []models.SyllabusEntryDetail, now time.Time) int {
	delayed := 0
	for i := range entries {
		if entries[i].IsDelayedAt(now) {
			delayed++
		}
	}
	return delayed
}

// MarkDelayed stamps the derived delay flag on each entry in place.
func MarkDelayed(entries []models.SyllabusEntryDetail, now time.Time) {
	for i := range entries {
		entries[i].IsDelayed = entries[i].IsDelayedAt(now)
	}
}

// SummarizeProgress builds the headline progress block.
func SummarizeProgress(entries []models.SyllabusEntryDetail, now time.Time) dto.ProgressSummary {
	counts := CountStatuses(entries)
	return dto.ProgressSummary{
		StatusCounts: counts,
		Delayed:      CountDelayed(entries, now),
		Percentage:   CompletionPercentage(counts.Completed, counts.Total),
	}
}

// ChapterBreakdown groups entries by chapter label.
func ChapterBreakdown(entries []models.SyllabusEntryDetail) map[string]dto.StatusCounts {
	chapters := make(map[string]dto.StatusCounts)
	for i := range entries {
		label := entries[i].ChapterLabel()
		counts := chapters[label]
		counts.Add(entries[i].Status)
		chapters[label] = counts
	}
	return chapters
}

// GroupByClassSubject groups entries per (class, subject) pair, ordered by key.
func GroupByClassSubject(entries []models.SyllabusEntryDetail, now time.Time) []dto.ClassSubjectProgress {
	type pair struct{ classID, subjectID string }
	groups := make(map[pair]*dto.ClassSubjectProgress)
	for i := range entries {
		entry := &entries[i]
		k := pair{classID: entry.ClassID, subjectID: entry.SubjectID}
		group, ok := groups[k]
		if !ok {
			group = &dto.ClassSubjectProgress{
				Key:         entry.Class.Label() + " - " + entry.Subject.Name,
				ClassID:     entry.ClassID,
				ClassName:   entry.Class.Name,
				Section:     entry.Class.Section,
				SubjectID:   entry.SubjectID,
				SubjectName: entry.Subject.Name,
			}
			groups[k] = group
		}
		group.Add(entry.Status)
		if entry.IsDelayedAt(now) {
			group.Delayed++
		}
	}

	result := make([]dto.ClassSubjectProgress, 0, len(groups))
	for _, group := range groups {
		group.Percentage = CompletionPercentage(group.Completed, group.Total)
		result = append(result, *group)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].ClassID+result[i].SubjectID < result[j].ClassID+result[j].SubjectID
	})
	return result
}

// RecentEntries returns up to limit entries, most recently inserted first.
func RecentEntries(entries []models.SyllabusEntryDetail, limit int) []models.SyllabusEntryDetail {
	if limit <= 0 {
		limit = DefaultRecentEntriesLimit
	}
	sorted := make([]models.SyllabusEntryDetail, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// StatusDistribution counts entries per status, always reporting every canonical status.
func StatusDistribution(entries []models.SyllabusEntryDetail) map[string]int {
	distribution := make(map[string]int, len(models.SyllabusStatuses))
	for _, status := range models.SyllabusStatuses {
		distribution[string(status)] = 0
	}
	for i := range entries {
		distribution[string(entries[i].Status)]++
	}
	return distribution
}

// RankTeachers orders teachers by completion percentage, highest first.
func RankTeachers(entries []models.SyllabusEntryDetail) []dto.TeacherPerformance {
	index := make(map[string]int)
	ranking := make([]dto.TeacherPerformance, 0)
	for i := range entries {
		entry := &entries[i]
		pos, ok := index[entry.TeacherID]
		if !ok {
			pos = len(ranking)
			index[entry.TeacherID] = pos
			ranking = append(ranking, dto.TeacherPerformance{TeacherID: entry.TeacherID, TeacherName: entry.Teacher.FullName})
		}
		ranking[pos].TotalTopics++
		if entry.Status == models.SyllabusStatusCompleted {
			ranking[pos].CompletedTopics++
		}
	}
	for i := range ranking {
		ranking[i].CompletionPercentage = CompletionPercentage(ranking[i].CompletedTopics, ranking[i].TotalTopics)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].CompletionPercentage != ranking[j].CompletionPercentage {
			return ranking[i].CompletionPercentage > ranking[j].CompletionPercentage
		}
		return ranking[i].TeacherName < ranking[j].TeacherName
	})
	return ranking
}

// RankClasses orders classes by completion percentage, highest first.
func RankClasses(entries []models.SyllabusEntryDetail) []dto.ClassPerformance {
	index := make(map[string]int)
	ranking := make([]dto.ClassPerformance, 0)
	for i := range entries {
		entry := &entries[i]
		pos, ok := index[entry.ClassID]
		if !ok {
			pos = len(ranking)
			index[entry.ClassID] = pos
			ranking = append(ranking, dto.ClassPerformance{
				ClassID:   entry.ClassID,
				ClassName: entry.Class.Name,
				Section:   entry.Class.Section,
			})
		}
		ranking[pos].TotalTopics++
		if entry.Status == models.SyllabusStatusCompleted {
			ranking[pos].CompletedTopics++
		}
	}
	for i := range ranking {
		ranking[i].CompletionPercentage = CompletionPercentage(ranking[i].CompletedTopics, ranking[i].TotalTopics)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].CompletionPercentage != ranking[j].CompletionPercentage {
			return ranking[i].CompletionPercentage > ranking[j].CompletionPercentage
		}
		li, lj := ranking[i].ClassName+" "+ranking[i].Section, ranking[j].ClassName+" "+ranking[j].Section
		return li < lj
	})
	return ranking
}

// BuildClassSubjectProgress composes the class/subject progress payload.
func BuildClassSubjectProgress(classID, subjectID string, entries []models.SyllabusEntryDetail, now time.Time) *dto.ClassSubjectProgressResponse {
	MarkDelayed(entries, now)
	if entries == nil {
		entries = []models.SyllabusEntryDetail{}
	}
	return &dto.ClassSubjectProgressResponse{
		ClassID:         classID,
		SubjectID:       subjectID,
		Entries:         entries,
		Progress:        SummarizeProgress(entries, now),
		ChapterProgress: ChapterBreakdown(entries),
	}
}

// BuildTeacherProgress composes the teacher progress payload.
func BuildTeacherProgress(teacherID string, entries []models.SyllabusEntryDetail, now time.Time, recentLimit int) *dto.TeacherProgressResponse {
	MarkDelayed(entries, now)
	counts := CountStatuses(entries)
	return &dto.TeacherProgressResponse{
		TeacherID:            teacherID,
		OverallProgress:      CompletionPercentage(counts.Completed, counts.Total),
		TotalEntries:         counts.Total,
		CompletedEntries:     counts.Completed,
		DelayedEntries:       CountDelayed(entries, now),
		ClassSubjectProgress: GroupByClassSubject(entries, now),
		RecentEntries:        RecentEntries(entries, recentLimit),
	}
}

// BuildOverview composes system-wide statistics.
func BuildOverview(entries []models.SyllabusEntryDetail, now time.Time) *dto.SyllabusOverview {
	return &dto.SyllabusOverview{
		TotalEntries:       len(entries),
		StatusDistribution: StatusDistribution(entries),
		DelayedEntries:     CountDelayed(entries, now),
		TeacherPerformance: RankTeachers(entries),
		ClassPerformance:   RankClasses(entries),
	}
}
