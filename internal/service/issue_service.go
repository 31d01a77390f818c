package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-service/internal/domain"
	"github.com/spec-kit/incident-service/internal/events"
	"github.com/spec-kit/incident-service/internal/notifier"
	"github.com/spec-kit/incident-service/internal/repository"
	apperrors "github.com/spec-kit/incident-service/pkg/util/errorutil"
)

// MaxDescriptionLength bounds issue descriptions, matching the column width.
const MaxDescriptionLength = 100

// IssueService coordinates the issue lifecycle: registration with best-effort
// notification of the responsible employee, status transitions and listings.
type IssueService struct {
	issues      repository.IssueRepository
	departments repository.DepartmentRepository
	statuses    repository.StatusRepository
	sink        notifier.Sink
	dispatcher  events.Dispatcher
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo      repository.IssueRepository
	DepartmentRepo repository.DepartmentRepository
	StatusRepo     repository.StatusRepository
	Sink           notifier.Sink
	Dispatcher     events.Dispatcher
}

// RegisterIssueResult echoes the persisted issue and the notification outcome.
type RegisterIssueResult struct {
	Issue            *domain.Issue
	NotificationSent bool
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:      deps.IssueRepo,
		departments: deps.DepartmentRepo,
		statuses:    deps.StatusRepo,
		sink:        deps.Sink,
		dispatcher:  deps.Dispatcher,
	}
}

// RegisterIssue validates input, persists a new issue in the default status
// and fires at most one notification attempt at the department's responsible
// employee. The notification outcome never fails the registration: the issue
// row is committed first and stays committed whatever the sink does.
//
// Field errors are accumulated: required-field checks run as one batch,
// format and reference checks as a second, and the caller gets every
// violation in a single response.
func (s *IssueService) RegisterIssue(ctx context.Context, departmentID, description string) (*RegisterIssueResult, error) {
	departmentID = strings.TrimSpace(departmentID)
	description = strings.TrimSpace(description)

	fields := map[string]any{}
	if departmentID == "" {
		fields["department_id"] = "required"
	}
	if description == "" {
		fields["description"] = "required"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	var dept *domain.Department
	deptID, err := parsePositiveID(departmentID)
	if err != nil {
		fields["department_id"] = "must be a positive integer"
	} else {
		dept, err = s.departments.GetByID(ctx, deptID)
		if err == pgx.ErrNoRows {
			fields["department_id"] = "department does not exist"
		} else if err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		fields["description"] = fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	issue := &domain.Issue{
		DepartmentID: dept.ID,
		StatusID:     domain.DefaultStatusID,
		Description:  description,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	// The row is durable at this point; everything below is best effort.
	sent := s.notifyResponsible(ctx, dept, issue)

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueRegistered,
		IssueID: issue.ID,
		Payload: events.IssueRegisteredPayload{
			DepartmentID:     dept.ID,
			DepartmentName:   dept.Name,
			Floor:            dept.Floor,
			Description:      issue.Description,
			NotificationSent: sent,
		},
	})

	return &RegisterIssueResult{Issue: issue, NotificationSent: sent}, nil
}

// TransitionStatus moves an issue to another status. Only administrators may
// transition; the target status must exist. department_id and created_at are
// never touched.
func (s *IssueService) TransitionStatus(ctx context.Context, actor *domain.Employee, issueID int64, newStatusID string) (*domain.Issue, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	statusID, err := parsePositiveID(strings.TrimSpace(newStatusID))
	if err != nil {
		return nil, apperrors.NewValidationError(map[string]any{
			"new_status_id": "must be a positive integer",
		})
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("issue")
		}
		return nil, apperrors.MapError(err)
	}

	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError(map[string]any{
				"new_status_id": "status does not exist",
			})
		}
		return nil, apperrors.MapError(err)
	}

	if !canTransition(issue.StatusID, status.ID) {
		return nil, apperrors.NewConflict("status transition not allowed", map[string]any{
			"current_status_id": issue.StatusID,
			"new_status_id":     status.ID,
		})
	}

	oldStatusID := issue.StatusID
	if err := s.issues.UpdateStatus(ctx, issue.ID, status.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	issue.StatusID = status.ID

	payload := events.IssueStatusChangedPayload{
		OldStatusID:     oldStatusID,
		NewStatusID:     status.ID,
		NewStatusName:   status.Name,
		ActorEmployeeID: actor.ID,
	}
	if dept, err := s.departments.GetByID(ctx, issue.DepartmentID); err == nil {
		if chatID := responsibleChatID(dept); chatID != "" {
			payload.RecipientChatID = chatID
		}
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issue.ID,
		Payload: payload,
	})

	return issue, nil
}

// ListIssues returns admin-facing issue views, most recent first.
func (s *IssueService) ListIssues(ctx context.Context, actor *domain.Employee) ([]domain.IssueView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	views, err := s.issues.ListDetailed(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return views, nil
}

// notifyResponsible dispatches at most one alert for a fresh issue. A missing
// responsible employee or messaging handle just means no attempt is made.
func (s *IssueService) notifyResponsible(ctx context.Context, dept *domain.Department, issue *domain.Issue) bool {
	chatID := responsibleChatID(dept)
	if chatID == "" {
		return false
	}
	message := fmt.Sprintf("New issue ID: %d\nDepartment: %s (Floor %d)\nDescription: %s",
		issue.ID, dept.Name, dept.Floor, issue.Description)
	return s.sink.Send(ctx, chatID, message)
}

func responsibleChatID(dept *domain.Department) string {
	if dept == nil || dept.Responsible == nil || dept.Responsible.TelegramID == nil {
		return ""
	}
	return strings.TrimSpace(*dept.Responsible.TelegramID)
}

// canTransition is the single choke point for transition policy. Every status
// is currently reachable from every status; tightening the lifecycle means
// changing only this function.
func canTransition(currentStatusID, newStatusID int64) bool {
	return true
}

func requireAdmin(actor *domain.Employee) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func parsePositiveID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
