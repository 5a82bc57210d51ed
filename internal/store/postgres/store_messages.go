package postgres

import (
	"context"
	"fmt"

	"carechat-backend/internal/crypto"
	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// --- Message Methods ---

const appendMessage = `-- name: AppendMessage :one
INSERT INTO messages (conversation_id, role, content, language)
VALUES ($1, $2, $3, $4)
RETURNING id, conversation_id, role, content, language, created_at;
`

const touchConversation = `-- name: TouchConversation :exec
UPDATE conversations
SET updated_at = NOW()
WHERE id = $1;
`

// AppendMessage inserts one message row and bumps the parent conversation's
// updated_at. Content is sealed before it reaches the database.
func (s *PostgresStore) AppendMessage(ctx context.Context, arg store.AppendMessageParams) (*models.Message, error) {
	content, err := s.sealContent(arg.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to seal message content: %w", err)
	}

	row := s.db.QueryRow(ctx, appendMessage, arg.ConversationID, arg.Role, content, arg.Language)

	var msg models.Message
	var stored []byte
	err = row.Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.Role,
		&stored,
		&msg.Language,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning message: %w", err)
	}
	msg.Content = arg.Content

	if _, err := s.db.Exec(ctx, touchConversation, arg.ConversationID); err != nil {
		// The message row is already durable; a stale updated_at only
		// affects conversation list ordering.
		return &msg, nil
	}

	return &msg, nil
}

const listMessages = `-- name: ListMessages :many
SELECT id, conversation_id, role, content, language, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at, id;
`

// ListMessages returns the full transcript in creation order.
func (s *PostgresStore) ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, listMessages, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		var msg models.Message
		var stored []byte
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&stored,
			&msg.Language,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		content, err := s.openContent(stored)
		if err != nil {
			return nil, fmt.Errorf("failed to open message %d content: %w", msg.ID, err)
		}
		msg.Content = content
		items = append(items, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return items, nil
}

func (s *PostgresStore) sealContent(plaintext string) ([]byte, error) {
	if s.aead == nil {
		return []byte(plaintext), nil
	}
	return crypto.Encrypt(s.aead, []byte(plaintext))
}

func (s *PostgresStore) openContent(stored []byte) (string, error) {
	if s.aead == nil {
		return string(stored), nil
	}
	plaintext, err := crypto.Decrypt(s.aead, stored)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
