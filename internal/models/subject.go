package models

// SubjectSummary is the hydrated subject reference embedded in syllabus responses.
type SubjectSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}
