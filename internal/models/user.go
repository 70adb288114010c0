package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
)

// Pagination contains pagination metadata returned in list responses.
// Current is the requested page, Total the number of pages and Count the number of matching rows.
type Pagination struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Count   int `json:"count"`
}

// NewPagination derives page totals from a row count and page size.
func NewPagination(page, size, count int) *Pagination {
	if page < 1 {
		page = 1
	}
	total := 0
	if size > 0 {
		total = (count + size - 1) / size
	}
	return &Pagination{Current: page, Total: total, Count: count}
}
