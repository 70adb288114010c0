package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title: "Syllabus",
		Columns: []Column{
			{Key: "topic", Title: "Topic", Width: 3},
			{Key: "status", Title: "Status"},
			{Key: "chapter"},
		},
		Rows: []map[string]string{
			{"topic": "Algebra, linear", "status": "completed"},
			{"topic": "Geometry", "status": "pending", "chapter": "2"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Topic,Status,chapter", lines[0])
	assert.Equal(t, `"Algebra, linear",completed,`, lines[1])
	assert.Equal(t, "Geometry,pending,2", lines[2])
}

func TestExportersRequireColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Table{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	table := sampleTable()
	for i := 0; i < 60; i++ {
		table.Rows = append(table.Rows, map[string]string{"topic": strings.Repeat("long topic ", 20), "status": "pending"})
	}

	out, err := NewPDFExporter().Render(table)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(sampleTable().Columns)
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	assert.InDelta(t, pdfPageWidth, sum, 0.001)
	assert.InDelta(t, widths[1]*3, widths[0], 0.001)
}
