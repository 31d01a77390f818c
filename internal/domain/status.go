package domain

// DefaultStatusID is the well-known status assigned to newly registered issues.
const DefaultStatusID int64 = 1

// Status is a lifecycle stage for issues, drawn from a small seeded set.
type Status struct {
	ID   int64
	Name string
}
