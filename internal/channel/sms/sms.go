// Package sms implements the SMS delivery channel via an HTTP JSON
// gateway (eSMS-compatible API).
package sms

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

// Config holds the SMS gateway settings.
type Config struct {
	GatewayURL string
	APIKey     string
	From       string
}

// Sender implements channel.Sender for SMS.
type Sender struct {
	cfg        Config
	httpClient *http.Client
}

// NewSender creates an SMS sender configured from SMS_* env variables.
func NewSender() *Sender {
	return NewSenderWithConfig(Config{
		GatewayURL: getEnvOrDefault("SMS_GATEWAY_URL", ""),
		APIKey:     getEnvOrDefault("SMS_API_KEY", ""),
		From:       getEnvOrDefault("SMS_FROM", "EVSHARE"),
	})
}

// NewSenderWithConfig creates an SMS sender with explicit configuration.
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
	return channel.SMS
}

// gatewayRequest is the JSON body posted to the SMS gateway.
type gatewayRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Content string `json:"content"`
}

// Send delivers the message body to the recipient's phone number. SMS
// has no subject; only the body is sent.
func (s *Sender) Send(ctx context.Context, msg channel.Message, rcpt channel.Recipient) error {
	if rcpt.Phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if s.cfg.GatewayURL == "" {
		return fmt.Errorf("SMS gateway not configured (set SMS_GATEWAY_URL)")
	}

	body, err := json.Marshal(gatewayRequest{
		To:      rcpt.Phone,
		From:    s.cfg.From,
		Content: msg.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("SMS gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	slog.Info("Successfully sent SMS notification",
		"to", maskPhone(rcpt.Phone),
		"user_id", rcpt.UserID,
	)
	return nil
}

// maskPhone hides all but the last three digits for logging.
func maskPhone(phone string) string {
	if len(phone) <= 3 {
		return "***"
	}
	return "***" + phone[len(phone)-3:]
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
