package models

// TeacherSummary is the hydrated teacher reference embedded in syllabus responses.
type TeacherSummary struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}
