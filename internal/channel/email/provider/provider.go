// Package provider defines the email provider interface and registry.
// Multiple backends (Resend, SES, SMTP) are registered and the registry
// falls back in order when the primary fails.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// EmailRequest represents an email to be sent. Bodies are plain text;
// the templates render text, not markup.
type EmailRequest struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Provider is the interface that all email providers must implement.
type Provider interface {
	// Name returns the provider name (e.g., "ses", "resend").
	Name() string

	// Send sends an email using this provider.
	Send(ctx context.Context, req *EmailRequest) error

	// IsConfigured returns true if the provider is properly configured.
	IsConfigured() bool
}

// StatusFunc is invoked with a provider name and "up"/"down" when a
// send reveals the provider's health, so failovers can be observed on
// the bus.
type StatusFunc func(provider, status string)

// Registry manages email providers with fallback support.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	primary   string
	fallback  []string
	onStatus  StatusFunc
}

// NewRegistry creates a new email provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		fallback:  make([]string, 0),
	}
}

// OnStatus sets the callback invoked when a provider's health changes
// during a send. May be nil.
func (r *Registry) OnStatus(fn StatusFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onStatus = fn
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
	slog.Info("Registered email provider", "name", p.Name(), "configured", p.IsConfigured())
}

// SetPrimary sets the primary provider by name.
func (r *Registry) SetPrimary(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("provider %q not registered", name)
	}
	r.primary = name
	slog.Info("Set primary email provider", "name", name)
	return nil
}

// SetFallback sets the fallback providers in order.
func (r *Registry) SetFallback(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if _, ok := r.providers[name]; !ok {
			return fmt.Errorf("provider %q not registered", name)
		}
	}
	r.fallback = names
	slog.Info("Set fallback email providers", "order", names)
	return nil
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// GetPrimary returns the primary provider, or the first configured
// provider when no primary was set.
func (r *Registry) GetPrimary() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.primary != "" {
		if p, ok := r.providers[r.primary]; ok && p.IsConfigured() {
			return p, nil
		}
	}

	for _, p := range r.providers {
		if p.IsConfigured() {
			return p, nil
		}
	}

	return nil, fmt.Errorf("no configured email provider available")
}

// Send sends an email using the best available provider, falling back
// in order when the primary fails.
func (r *Registry) Send(ctx context.Context, req *EmailRequest) error {
	p, err := r.GetPrimary()
	if err != nil {
		return err
	}

	err = p.Send(ctx, req)
	if err == nil {
		return nil
	}
	r.reportStatus(p.Name(), "down")

	r.mu.RLock()
	fallbacks := r.fallback
	r.mu.RUnlock()

	for _, name := range fallbacks {
		fb, ok := r.Get(name)
		if !ok || !fb.IsConfigured() || fb.Name() == p.Name() {
			continue
		}

		slog.Warn("Primary email provider failed, trying fallback",
			"primary", p.Name(),
			"fallback", name,
			"error", err,
		)

		if fallbackErr := fb.Send(ctx, req); fallbackErr == nil {
			r.reportStatus(fb.Name(), "up")
			return nil
		}
		r.reportStatus(fb.Name(), "down")
	}

	return err // Original error
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

func (r *Registry) reportStatus(name, status string) {
	r.mu.RLock()
	fn := r.onStatus
	r.mu.RUnlock()
	if fn != nil {
		fn(name, status)
	}
}

// GetEnvOrDefault returns env var value or default.
func GetEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
