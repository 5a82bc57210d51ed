package store

import (
	"context"
	"encoding/json"
	"errors"

	"carechat-backend/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrUnavailable is returned when the backing store cannot be reached.
// Write paths propagate it to the caller; the audit writer downgrades it
// to a warning so an audit outage never blocks chat.
var ErrUnavailable = errors.New("storage unavailable")

// CreateConversationParams contains parameters for creating a conversation.
type CreateConversationParams struct {
	UserID       int64
	Language     string
	ConsentGiven bool
}

// AppendMessageParams contains parameters for appending one message to a
// conversation's transcript.
type AppendMessageParams struct {
	ConversationID int64
	Role           string
	Content        string
	Language       string
}

// InsertConsentParams contains parameters for recording a consent grant.
// Rows are append-only; grants never mutate prior history.
type InsertConsentParams struct {
	UserID      int64
	ConsentType string
	Granted     bool
	ConsentText string
	IPAddress   string
}

// InsertEscalationParams contains parameters for creating an escalation
// request. Status is always "pending" on insert.
type InsertEscalationParams struct {
	UserID         int64
	ConversationID int64
	MessageID      *int64
	Reason         string
}

// UpdateEscalationStatusParams contains parameters for the staff status
// update. Nil pointer fields are left unchanged.
type UpdateEscalationStatusParams struct {
	ID         int64
	Status     string
	AssignedTo *int64
	Resolution *string
}

// InsertAuditEntryParams contains parameters for one append-only audit row.
type InsertAuditEntryParams struct {
	UserID         *int64
	ConversationID *int64
	MessageID      *int64
	EventType      string
	EventData      json.RawMessage
	IPAddress      string
	UserAgent      string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, email, hashedPassword, role string) (*models.User, error)

	// Conversation operations
	CreateConversation(ctx context.Context, arg CreateConversationParams) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id int64) (*models.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID int64) ([]models.Conversation, error)

	// Message operations. ListMessages returns the full transcript in
	// creation order; that order is canonical.
	AppendMessage(ctx context.Context, arg AppendMessageParams) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error)

	// Consent operations. GetLatestConsent returns the most recently
	// created row for (user, type) regardless of its granted flag.
	InsertConsent(ctx context.Context, arg InsertConsentParams) (*models.Consent, error)
	GetLatestConsent(ctx context.Context, userID int64, consentType string) (*models.Consent, error)
	RevokeConsent(ctx context.Context, userID int64, consentType string) error

	// Escalation operations
	InsertEscalation(ctx context.Context, arg InsertEscalationParams) (*models.Escalation, error)
	UpdateEscalationStatus(ctx context.Context, arg UpdateEscalationStatusParams) (*models.Escalation, error)
	ListPendingEscalations(ctx context.Context) ([]models.Escalation, error)

	// Audit operations. Append-only; entries are never updated or deleted.
	InsertAuditEntry(ctx context.Context, arg InsertAuditEntryParams) (*models.AuditEntry, error)
	ListAuditEntriesByConversation(ctx context.Context, conversationID int64) ([]models.AuditEntry, error)
}
