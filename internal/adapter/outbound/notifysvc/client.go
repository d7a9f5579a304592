package notifysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/etaskify/server/internal/port/outbound"
)

// Config holds notification service client configuration.
type Config struct {
	// BaseURL is the notification service base URL.
	BaseURL string

	// Timeout bounds each request to the notification service.
	Timeout time.Duration
}

// Client talks to the external notification store. Delivery is best-effort;
// callers are expected to log and discard errors.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a new notification service client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: timeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

type recordRequest struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
	Type    string `json:"type"`
	IsRead  bool   `json:"is_read"`
}

// Record stores a notification for the target user.
func (c *Client) Record(ctx context.Context, targetUserID int64, message, category string) error {
	body, err := json.Marshal(recordRequest{
		UserID:  targetUserID,
		Message: message,
		Type:    category,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("notification service request failed", zap.Error(err))
		return outbound.ErrCollaboratorUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("notification service returned unexpected status",
			zap.Int("status", resp.StatusCode),
		)
		return outbound.ErrCollaboratorUnavailable
	}

	return nil
}

var _ outbound.NotificationPort = (*Client)(nil)
