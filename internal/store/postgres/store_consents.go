package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// --- Consent Methods ---

const insertConsent = `-- name: InsertConsent :one
INSERT INTO consents (user_id, consent_type, granted, consent_text, ip_address)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, consent_type, granted, consent_text, ip_address, created_at, revoked_at;
`

// InsertConsent appends a new consent row. Prior rows are never mutated;
// the full history is the compliance trail.
func (s *PostgresStore) InsertConsent(ctx context.Context, arg store.InsertConsentParams) (*models.Consent, error) {
	row := s.db.QueryRow(ctx, insertConsent,
		arg.UserID,
		arg.ConsentType,
		arg.Granted,
		arg.ConsentText,
		arg.IPAddress,
	)

	var c models.Consent
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ConsentType,
		&c.Granted,
		&c.ConsentText,
		&c.IPAddress,
		&c.CreatedAt,
		&c.RevokedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning consent: %w", err)
	}

	return &c, nil
}

const getLatestConsent = `-- name: GetLatestConsent :one
SELECT id, user_id, consent_type, granted, consent_text, ip_address, created_at, revoked_at
FROM consents
WHERE user_id = $1 AND consent_type = $2
ORDER BY created_at DESC, id DESC
LIMIT 1;
`

// GetLatestConsent returns the most recently created row for (user, type),
// granted or not. Current-state interpretation is the service's job.
func (s *PostgresStore) GetLatestConsent(ctx context.Context, userID int64, consentType string) (*models.Consent, error) {
	row := s.db.QueryRow(ctx, getLatestConsent, userID, consentType)

	var c models.Consent
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ConsentType,
		&c.Granted,
		&c.ConsentText,
		&c.IPAddress,
		&c.CreatedAt,
		&c.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning consent: %w", err)
	}

	return &c, nil
}

const revokeConsent = `-- name: RevokeConsent :exec
UPDATE consents
SET granted = FALSE, revoked_at = NOW()
WHERE user_id = $1 AND consent_type = $2 AND granted = TRUE;
`

// RevokeConsent stamps every still-granted row for (user, type) as revoked.
// History rows stay in place.
func (s *PostgresStore) RevokeConsent(ctx context.Context, userID int64, consentType string) error {
	tag, err := s.db.Exec(ctx, revokeConsent, userID, consentType)
	if err != nil {
		return fmt.Errorf("error executing revoke consent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
