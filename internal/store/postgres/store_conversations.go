package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// --- Conversation Methods ---

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (user_id, language, consent_given)
VALUES ($1, $2, $3)
RETURNING id, user_id, language, consent_given, created_at, updated_at;
`

func (s *PostgresStore) CreateConversation(ctx context.Context, arg store.CreateConversationParams) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, createConversation, arg.UserID, arg.Language, arg.ConsentGiven)

	var conv models.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Language,
		&conv.ConsentGiven,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}

	return &conv, nil
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT id, user_id, language, consent_given, created_at, updated_at
FROM conversations
WHERE id = $1;
`

func (s *PostgresStore) GetConversationByID(ctx context.Context, id int64) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, getConversationByID, id)

	var conv models.Conversation
	err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Language,
		&conv.ConsentGiven,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}

	return &conv, nil
}

const listConversationsByUser = `-- name: ListConversationsByUser :many
SELECT id, user_id, language, consent_given, created_at, updated_at
FROM conversations
WHERE user_id = $1
ORDER BY updated_at DESC;
`

// ListConversationsByUser returns the user's conversations, most recently
// updated first.
func (s *PostgresStore) ListConversationsByUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	rows, err := s.db.Query(ctx, listConversationsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var items []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.Language,
			&conv.ConsentGiven,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		items = append(items, conv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return items, nil
}
