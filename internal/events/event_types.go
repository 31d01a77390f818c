package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueRegistered    EventType = "issue_registered"
	EventIssueStatusChanged EventType = "issue_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   int64       `json:"issue_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueRegisteredPayload payload.
type IssueRegisteredPayload struct {
	DepartmentID     int64  `json:"department_id"`
	DepartmentName   string `json:"department_name"`
	Floor            int    `json:"floor"`
	Description      string `json:"description"`
	NotificationSent bool   `json:"notification_sent"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatusID     int64  `json:"old_status_id"`
	NewStatusID     int64  `json:"new_status_id"`
	NewStatusName   string `json:"new_status_name"`
	ActorEmployeeID int64  `json:"actor_employee_id"`
	RecipientChatID string `json:"-"`
}
