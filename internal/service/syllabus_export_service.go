package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/export"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type syllabusSearcher interface {
	Search(ctx context.Context, req ListSyllabusRequest) ([]models.SyllabusEntryDetail, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
	ContentType() string
	Extension() string
}

var syllabusExportColumns = []export.Column{
	{Key: "topic", Title: "Topic", Width: 3},
	{Key: "chapter", Title: "Chapter", Width: 2},
	{Key: "class", Title: "Class", Width: 1.5},
	{Key: "subject", Title: "Subject", Width: 2},
	{Key: "teacher", Title: "Teacher", Width: 2},
	{Key: "planned_date", Title: "Planned", Width: 1.3},
	{Key: "actual_date", Title: "Actual", Width: 1.3},
	{Key: "status", Title: "Status", Width: 1.2},
	{Key: "completion", Title: "Progress %", Width: 1},
	{Key: "delayed", Title: "Delayed", Width: 0.9},
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SyllabusExportService renders filtered syllabus entries as CSV or PDF.
type SyllabusExportService struct {
	entries   syllabusSearcher
	renderers map[string]tableRenderer
	now       func() time.Time
}

// NewSyllabusExportService constructs a SyllabusExportService.
func NewSyllabusExportService(entries syllabusSearcher) *SyllabusExportService {
	return &SyllabusExportService{
		entries: entries,
		renderers: map[string]tableRenderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Export renders every entry matching req in the requested format.
func (s *SyllabusExportService) Export(ctx context.Context, format string, req ListSyllabusRequest) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of: csv, pdf")
	}

	entries, err := s.entries.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	content, err := renderer.Render(BuildSyllabusTable(entries))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render syllabus export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("syllabus-%s.%s", s.now().Format("20060102-150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// BuildSyllabusTable flattens entries into export rows.
func BuildSyllabusTable(entries []models.SyllabusEntryDetail) export.Table {
	rows := make([]map[string]string, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		actual := ""
		if entry.ActualDate != nil {
			actual = entry.ActualDate.Format(dateLayout)
		}
		rows = append(rows, map[string]string{
			"topic":        entry.Topic,
			"chapter":      entry.ChapterLabel(),
			"class":        entry.Class.Label(),
			"subject":      entry.Subject.Name,
			"teacher":      entry.Teacher.FullName,
			"planned_date": entry.PlannedDate.Format(dateLayout),
			"actual_date":  actual,
			"status":       string(entry.Status),
			"completion":   strconv.Itoa(entry.CompletionPercentage),
			"delayed":      yesNo(entry.IsDelayed),
		})
	}
	return export.Table{Title: "Syllabus Progress", Columns: syllabusExportColumns, Rows: rows}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
