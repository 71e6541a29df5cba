package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
)

// GetRecipient returns the contact details for a user. A user that
// cannot be found is an error: with no contact details there is nobody
// to notify.
func (db *DB) GetRecipient(ctx context.Context, userID string) (*channel.Recipient, error) {
	query := `
		SELECT u.email, COALESCE(u.phone, ''), COALESCE(d.device_token, ''), COALESCE(u.locale, '')
		FROM users u
		LEFT JOIN user_devices d ON d.user_id = u.id AND d.active
		WHERE u.id = $1
		ORDER BY d.updated_at DESC NULLS LAST
		LIMIT 1
	`
	rcpt := channel.Recipient{UserID: userID}
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(
		&rcpt.Email,
		&rcpt.Phone,
		&rcpt.DeviceToken,
		&rcpt.Locale,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recipient not found: %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recipient %s: %w", userID, err)
	}

	return &rcpt, nil
}
