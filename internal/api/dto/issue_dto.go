package dto

import (
	"encoding/json"
	"time"
)

// CreateIssueRequest payload for public issue registration.
type CreateIssueRequest struct {
	DepartmentID json.Number `json:"department_id"`
	Description  string      `json:"description"`
}

// IssueCreatedResponse echoes the persisted issue identity and whether a
// notification attempt succeeded.
type IssueCreatedResponse struct {
	ID               int64  `json:"id"`
	NotificationSent bool   `json:"notification_sent"`
	Message          string `json:"message"`
}

// TransitionStatusRequest payload for admin status transitions.
type TransitionStatusRequest struct {
	NewStatusID json.Number `json:"new_status_id"`
}

// TransitionStatusResponse confirms a transition.
type TransitionStatusResponse struct {
	IssueID     int64  `json:"issue_id"`
	NewStatusID int64  `json:"new_status_id"`
	Message     string `json:"message"`
}

// StatusResponse reference entry.
type StatusResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EmployeeBrief is the public shape of a responsible employee.
type EmployeeBrief struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// DepartmentResponse embeds the responsible employee when known.
type DepartmentResponse struct {
	ID                  int64          `json:"id"`
	Name                string         `json:"name"`
	Floor               int            `json:"floor"`
	ResponsibleEmployee *EmployeeBrief `json:"responsible_employee,omitempty"`
}

// IssueViewResponse is the enriched admin listing entry.
type IssueViewResponse struct {
	ID          int64              `json:"id"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	Status      StatusResponse     `json:"status"`
	Department  DepartmentResponse `json:"department"`
}
