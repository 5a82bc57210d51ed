package models

import (
	"time"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendMessageRequest defines the body for sending a chat message.
// ConversationID is nil when the client wants a fresh conversation.
type SendMessageRequest struct {
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
	Language       string `json:"language,omitempty"` // "en" (default) or "da"
}

// GrantConsentRequest defines the body for granting consent. ConsentText is
// the exact text shown to the user at grant time and is persisted verbatim.
type GrantConsentRequest struct {
	ConsentType string `json:"consent_type"`
	ConsentText string `json:"consent_text"`
}

// RequestEscalationRequest defines the body for requesting human review.
type RequestEscalationRequest struct {
	ConversationID int64  `json:"conversation_id"`
	MessageID      *int64 `json:"message_id,omitempty"`
	Reason         string `json:"reason"`
}

// UpdateEscalationRequest defines the body for the staff status update
// endpoint. Omitted fields are left unchanged.
type UpdateEscalationRequest struct {
	Status     string  `json:"status"`
	AssignedTo *int64  `json:"assigned_to,omitempty"`
	Resolution *string `json:"resolution,omitempty"`
}

// RequestMeta carries the requester attributes recorded on audit entries.
// Extracted from the request at the handler boundary, never client-supplied.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendMessageResponse is the assistant's reply to one sent message.
type SendMessageResponse struct {
	ConversationID int64  `json:"conversation_id"`
	MessageID      int64  `json:"message_id"`
	Message        string `json:"message"`
	Role           string `json:"role"` // always "assistant"
}

// ConversationResponse defines the data returned when listing conversations.
type ConversationResponse struct {
	ID        int64     `json:"id"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse defines one transcript entry.
type MessageResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// ConsentStatusResponse is the result of a consent check.
type ConsentStatusResponse struct {
	HasConsent bool `json:"hasConsent"`
}

// GrantConsentResponse confirms a recorded consent grant.
type GrantConsentResponse struct {
	Success   bool  `json:"success"`
	ConsentID int64 `json:"consent_id"`
}

// RequestEscalationResponse confirms a recorded escalation request.
type RequestEscalationResponse struct {
	Success      bool  `json:"success"`
	EscalationID int64 `json:"escalation_id"`
}

// EscalationResponse defines the data returned for the staff review queue.
type EscalationResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	ConversationID int64      `json:"conversation_id"`
	MessageID      *int64     `json:"message_id,omitempty"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	AssignedTo     *int64     `json:"assigned_to,omitempty"`
	Resolution     *string    `json:"resolution,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}
