package models

// ClassSummary is the hydrated class reference embedded in syllabus responses.
type ClassSummary struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Section string `db:"section" json:"section"`
}

// Label renders the class as "<name> <section>".
func (c ClassSummary) Label() string {
	if c.Section == "" {
		return c.Name
	}
	return c.Name + " " + c.Section
}
