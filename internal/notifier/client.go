package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/incident-service/internal/config"
	"github.com/spec-kit/incident-service/internal/observability"
)

// Sink delivers a text alert to a messaging account. Delivery failure is a
// return value, never an error: callers log the outcome and move on.
type Sink interface {
	Send(ctx context.Context, chatID, message string) bool
}

// Client posts notifications to the messaging-bot relay.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

type notifyRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

// NewClient builds a sink client with a bounded per-attempt timeout.
func NewClient(cfg config.NotifierConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
		metrics: metrics,
	}
}

// Send posts {chat_id, message} to the relay. Any transport fault, non-200
// response or timeout is converted into a logged false; Send never blocks
// longer than the configured timeout.
func (c *Client) Send(ctx context.Context, chatID, message string) (sent bool) {
	defer func() { c.metrics.RecordNotification(sent) }()

	if c.baseURL == "" {
		c.logger.Warn("notifier base url not configured; dropping notification",
			zap.String("chat_id", chatID))
		return false
	}

	body, err := json.Marshal(notifyRequest{ChatID: chatID, Message: message})
	if err != nil {
		c.logger.Error("marshal notification", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notify", bytes.NewReader(body))
	if err != nil {
		c.logger.Error("build notification request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("notification delivery failed",
			zap.String("chat_id", chatID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("notification rejected by relay",
			zap.String("chat_id", chatID),
			zap.Int("status", resp.StatusCode))
		return false
	}

	c.logger.Info("notification delivered",
		zap.String("chat_id", chatID),
		zap.Duration("elapsed", time.Since(start)))
	return true
}
