package handler

import (
	"context"
	"errors"
)

// ErrNoRecipients is returned by a RecipientResolver that cannot
// resolve the requested audience.
var ErrNoRecipients = errors.New("no recipients for audience")

// RecipientResolver resolves an audience (e.g. "admins") to concrete
// user ids. Dispute events want to notify the operations team in
// addition to the disputing user; that lookup lives in another service,
// so this is an extension point rather than a local implementation.
type RecipientResolver interface {
	ResolveAudience(ctx context.Context, audience string) ([]string, error)
}

// UnsupportedRecipientResolver is the default resolver: every audience
// lookup reports ErrNoRecipients. Handlers treat that as a known gap
// and log an informational note instead of failing.
type UnsupportedRecipientResolver struct{}

func (UnsupportedRecipientResolver) ResolveAudience(ctx context.Context, audience string) ([]string, error) {
	return nil, ErrNoRecipients
}
