package models

import (
	"encoding/json"
	"time"
)

// Message roles. System-role rows may exist historically but are never
// replayed to the LLM; only the freshly built system preamble is sent.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Account roles.
const (
	AccountRoleUser  = "user"
	AccountRoleAdmin = "admin"
)

// Escalation lifecycle statuses. The service validates membership but does
// not enforce transition order; care-team tooling is trusted.
const (
	EscalationPending  = "pending"
	EscalationAssigned = "assigned"
	EscalationResolved = "resolved"
)

// User represents an authenticated patient or staff account.
type User struct {
	ID             int64     `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Role           string    `db:"role"` // "user" or "admin"
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Conversation is one bounded chat session between a user and the assistant.
// Immutable after creation except for UpdatedAt, which the store bumps on
// every message append.
type Conversation struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Language     string    `db:"language"` // "en" or "da"
	ConsentGiven bool      `db:"consent_given"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Message is a single turn within a conversation. Rows are append-only;
// creation order is the canonical transcript order.
type Message struct {
	ID             int64     `db:"id"`
	ConversationID int64     `db:"conversation_id"`
	Role           string    `db:"role"`
	Content        string    `db:"content"`
	Language       string    `db:"language"`
	CreatedAt      time.Time `db:"created_at"`
}

// Consent is one entry in the append-only consent history for a
// (user, consent type) pair. The most recently created row determines the
// current state; revocation stamps RevokedAt rather than deleting rows.
type Consent struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	ConsentType string     `db:"consent_type"`
	Granted     bool       `db:"granted"`
	ConsentText string     `db:"consent_text"`
	IPAddress   string     `db:"ip_address"`
	CreatedAt   time.Time  `db:"created_at"`
	RevokedAt   *time.Time `db:"revoked_at"`
}

// Escalation is a user-initiated request for human staff review of a
// conversation, optionally pinned to a specific message.
type Escalation struct {
	ID             int64      `db:"id"`
	UserID         int64      `db:"user_id"`
	ConversationID int64      `db:"conversation_id"`
	MessageID      *int64     `db:"message_id"`
	Reason         string     `db:"reason"`
	Status         string     `db:"status"`
	AssignedTo     *int64     `db:"assigned_to"`
	Resolution     *string    `db:"resolution"`
	CreatedAt      time.Time  `db:"created_at"`
	ResolvedAt     *time.Time `db:"resolved_at"`
}

// AuditEntry is an immutable compliance record. The user/conversation/message
// references are weak: plain ids with no FK, so an entry outlives anything it
// points at.
type AuditEntry struct {
	ID             int64           `db:"id"`
	UserID         *int64          `db:"user_id"`
	ConversationID *int64          `db:"conversation_id"`
	MessageID      *int64          `db:"message_id"`
	EventType      string          `db:"event_type"`
	EventData      json.RawMessage `db:"event_data"`
	IPAddress      string          `db:"ip_address"`
	UserAgent      string          `db:"user_agent"`
	CreatedAt      time.Time       `db:"created_at"`
}
