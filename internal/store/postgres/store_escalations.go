package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// --- Escalation Methods ---

const insertEscalation = `-- name: InsertEscalation :one
INSERT INTO escalations (user_id, conversation_id, message_id, reason, status)
VALUES ($1, $2, $3, $4, 'pending')
RETURNING id, user_id, conversation_id, message_id, reason, status, assigned_to, resolution, created_at, resolved_at;
`

func (s *PostgresStore) InsertEscalation(ctx context.Context, arg store.InsertEscalationParams) (*models.Escalation, error) {
	row := s.db.QueryRow(ctx, insertEscalation,
		arg.UserID,
		arg.ConversationID,
		arg.MessageID, // pgx handles *int64 to NULL automatically
		arg.Reason,
	)

	var esc models.Escalation
	err := row.Scan(
		&esc.ID,
		&esc.UserID,
		&esc.ConversationID,
		&esc.MessageID,
		&esc.Reason,
		&esc.Status,
		&esc.AssignedTo,
		&esc.Resolution,
		&esc.CreatedAt,
		&esc.ResolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning escalation: %w", err)
	}

	return &esc, nil
}

// UpdateEscalationStatus builds the query dynamically based on which fields
// are provided. Setting status to "resolved" additionally stamps resolved_at.
func (s *PostgresStore) UpdateEscalationStatus(ctx context.Context, arg store.UpdateEscalationStatusParams) (*models.Escalation, error) {
	setClauses := []string{"status = $1"}
	args := []interface{}{arg.Status}
	argID := 2

	if arg.AssignedTo != nil {
		setClauses = append(setClauses, fmt.Sprintf("assigned_to = $%d", argID))
		args = append(args, *arg.AssignedTo)
		argID++
	}
	if arg.Resolution != nil {
		setClauses = append(setClauses, fmt.Sprintf("resolution = $%d", argID))
		args = append(args, *arg.Resolution)
		argID++
	}
	if arg.Status == models.EscalationResolved {
		setClauses = append(setClauses, fmt.Sprintf("resolved_at = $%d", argID))
		args = append(args, time.Now())
		argID++
	}

	args = append(args, arg.ID)

	query := fmt.Sprintf(`-- name: UpdateEscalationStatus :one
		UPDATE escalations
		SET %s
		WHERE id = $%d
		RETURNING id, user_id, conversation_id, message_id, reason, status, assigned_to, resolution, created_at, resolved_at;`,
		strings.Join(setClauses, ", "),
		argID,
	)

	row := s.db.QueryRow(ctx, query, args...)
	var esc models.Escalation
	err := row.Scan(
		&esc.ID,
		&esc.UserID,
		&esc.ConversationID,
		&esc.MessageID,
		&esc.Reason,
		&esc.Status,
		&esc.AssignedTo,
		&esc.Resolution,
		&esc.CreatedAt,
		&esc.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning updated escalation: %w", err)
	}

	return &esc, nil
}

const listPendingEscalations = `-- name: ListPendingEscalations :many
SELECT id, user_id, conversation_id, message_id, reason, status, assigned_to, resolution, created_at, resolved_at
FROM escalations
WHERE status = 'pending'
ORDER BY created_at;
`

// ListPendingEscalations returns the reviewer queue, oldest first.
func (s *PostgresStore) ListPendingEscalations(ctx context.Context) ([]models.Escalation, error) {
	rows, err := s.db.Query(ctx, listPendingEscalations)
	if err != nil {
		return nil, fmt.Errorf("error querying escalations: %w", err)
	}
	defer rows.Close()

	var items []models.Escalation
	for rows.Next() {
		var esc models.Escalation
		if err := rows.Scan(
			&esc.ID,
			&esc.UserID,
			&esc.ConversationID,
			&esc.MessageID,
			&esc.Reason,
			&esc.Status,
			&esc.AssignedTo,
			&esc.Resolution,
			&esc.CreatedAt,
			&esc.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning escalation row: %w", err)
		}
		items = append(items, esc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating escalation rows: %w", err)
	}

	return items, nil
}
