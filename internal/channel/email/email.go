// Package email implements the email delivery channel on top of a
// provider registry with fallback.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel/email/provider"
)

// Sender implements channel.Sender for email.
type Sender struct {
	providers *provider.Registry
	from      string
}

// NewSender creates an email sender with the default provider setup:
// Resend primary, SES fallback, SMTP for local development.
func NewSender() *Sender {
	registry := provider.NewRegistry()
	registry.Register(provider.NewResendProvider())
	registry.Register(provider.NewSESProvider())
	registry.Register(provider.NewSMTPProvider())

	// Best-effort: ignore errors so an unconfigured provider set still
	// lets GetPrimary pick whatever is available.
	_ = registry.SetPrimary("resend")
	_ = registry.SetFallback("ses", "smtp")

	return NewSenderWithRegistry(registry, provider.GetEnvOrDefault("EMAIL_FROM", "no-reply@ev-coownership.vn"))
}

// NewSenderWithRegistry creates an email sender with a custom provider
// registry. Useful for testing.
func NewSenderWithRegistry(registry *provider.Registry, from string) *Sender {
	return &Sender{providers: registry, from: from}
}

// Providers exposes the underlying registry so callers can attach a
// provider status callback.
func (s *Sender) Providers() *provider.Registry {
	return s.providers
}

// Channel returns the channel this sender handles.
func (s *Sender) Channel() channel.Channel {
	return channel.Email
}

// Send delivers the message to the recipient's email address.
func (s *Sender) Send(ctx context.Context, msg channel.Message, rcpt channel.Recipient) error {
	if rcpt.Email == "" {
		return fmt.Errorf("email address is required")
	}
	if !strings.Contains(rcpt.Email, "@") {
		return fmt.Errorf("invalid email address format: %q", rcpt.Email)
	}

	req := &provider.EmailRequest{
		From:    s.from,
		To:      []string{rcpt.Email},
		Subject: msg.Subject,
		Body:    msg.Body,
	}

	if err := s.providers.Send(ctx, req); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
