// Package push implements the push delivery channel via an FCM-style
// HTTP endpoint.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
)

// Config holds the push service settings.
type Config struct {
	Endpoint  string
	ServerKey string
}

// Sender implements channel.Sender for push notifications.
type Sender struct {
	cfg        Config
	httpClient *http.Client
}

// NewSender creates a push sender configured from PUSH_* env variables.
func NewSender() *Sender {
	return NewSenderWithConfig(Config{
		Endpoint:  getEnvOrDefault("PUSH_ENDPOINT", ""),
		ServerKey: getEnvOrDefault("PUSH_SERVER_KEY", ""),
	})
}

// NewSenderWithConfig creates a push sender with explicit configuration.
func NewSenderWithConfig(cfg Config) *Sender {
	return &Sender{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Channel returns the channel this sender handles.
func (s *Sender) Channel() channel.Channel {
	return channel.Push
}

type pushMessage struct {
	Token        string `json:"token"`
	Notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"notification"`
}

// Send delivers the message to the recipient's registered device.
func (s *Sender) Send(ctx context.Context, msg channel.Message, rcpt channel.Recipient) error {
	if rcpt.DeviceToken == "" {
		return fmt.Errorf("device token is required")
	}
	if s.cfg.Endpoint == "" {
		return fmt.Errorf("push service not configured (set PUSH_ENDPOINT)")
	}

	var pm pushMessage
	pm.Token = rcpt.DeviceToken
	pm.Notification.Title = msg.Subject
	pm.Notification.Body = msg.Body

	body, err := json.Marshal(struct {
		Message pushMessage `json:"message"`
	}{Message: pm})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.ServerKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.ServerKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		// Stale device token, do not retry.
		return fmt.Errorf("device token unregistered (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push service returned %d: %s", resp.StatusCode, string(respBody))
	}

	slog.Info("Successfully sent push notification",
		"user_id", rcpt.UserID,
	)
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
