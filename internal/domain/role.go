package domain

// Well-known role names seeded by the initial migration.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Role is immutable reference data assigned to employees.
type Role struct {
	ID   int64
	Name string
}
