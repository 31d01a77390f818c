package domain

import "time"

// Issue is an incident report tied to one department.
// StatusID is the only field that may change after creation.
type Issue struct {
	ID           int64
	DepartmentID int64
	StatusID     int64
	Description  string
	CreatedAt    time.Time
}

// IssueView enriches an issue with its department, the department's
// responsible employee and the current status for admin listings.
type IssueView struct {
	Issue
	Department Department
	Status     Status
}
