package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/incident-service/internal/events"
	"github.com/spec-kit/incident-service/internal/notifier"
)

// NotificationService reacts to domain events: it keeps an audit trail in the
// logs and relays status changes to the responsible employee. Everything here
// is best effort; handler failures never reach the request path.
type NotificationService struct {
	dispatcher events.Dispatcher
	sink       notifier.Sink
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sink notifier.Sink, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sink:       sink,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIssueRegistered, n.handleIssueRegistered)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleIssueStatusChanged)
}

func (n *NotificationService) handleIssueRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueRegisteredPayload)
	if !ok {
		return nil
	}
	n.logger.Info("IssueRegistered",
		zap.Int64("issue_id", event.IssueID),
		zap.Int64("department_id", payload.DepartmentID),
		zap.Bool("notification_sent", payload.NotificationSent))
	return nil
}

func (n *NotificationService) handleIssueStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueStatusChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("IssueStatusChanged",
		zap.Int64("issue_id", event.IssueID),
		zap.Int64("old_status_id", payload.OldStatusID),
		zap.Int64("new_status_id", payload.NewStatusID))

	if payload.RecipientChatID == "" {
		return nil
	}
	message := fmt.Sprintf("Issue ID %d status changed to: %s", event.IssueID, payload.NewStatusName)
	sent := n.sink.Send(ctx, payload.RecipientChatID, message)
	if !sent {
		n.logger.Warn("status change notification not delivered", zap.Int64("issue_id", event.IssueID))
	}
	return nil
}
