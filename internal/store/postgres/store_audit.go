package postgres

import (
	"context"
	"fmt"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// --- Audit Methods ---
//
// Audit rows are append-only; there are no update or delete queries for
// this table anywhere in the codebase.

const insertAuditEntry = `-- name: InsertAuditEntry :one
INSERT INTO audit_logs (user_id, conversation_id, message_id, event_type, event_data, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, conversation_id, message_id, event_type, event_data, ip_address, user_agent, created_at;
`

func (s *PostgresStore) InsertAuditEntry(ctx context.Context, arg store.InsertAuditEntryParams) (*models.AuditEntry, error) {
	row := s.db.QueryRow(ctx, insertAuditEntry,
		arg.UserID,
		arg.ConversationID,
		arg.MessageID,
		arg.EventType,
		arg.EventData,
		arg.IPAddress,
		arg.UserAgent,
	)

	var entry models.AuditEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ConversationID,
		&entry.MessageID,
		&entry.EventType,
		&entry.EventData,
		&entry.IPAddress,
		&entry.UserAgent,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning audit entry: %w", err)
	}

	return &entry, nil
}

const listAuditEntriesByConversation = `-- name: ListAuditEntriesByConversation :many
SELECT id, user_id, conversation_id, message_id, event_type, event_data, ip_address, user_agent, created_at
FROM audit_logs
WHERE conversation_id = $1
ORDER BY created_at, id;
`

// ListAuditEntriesByConversation returns a conversation's audit trail in
// creation order, for regulatory review.
func (s *PostgresStore) ListAuditEntriesByConversation(ctx context.Context, conversationID int64) ([]models.AuditEntry, error) {
	rows, err := s.db.Query(ctx, listAuditEntriesByConversation, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying audit entries: %w", err)
	}
	defer rows.Close()

	var items []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.ConversationID,
			&entry.MessageID,
			&entry.EventType,
			&entry.EventData,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning audit entry row: %w", err)
		}
		items = append(items, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entry rows: %w", err)
	}

	return items, nil
}
