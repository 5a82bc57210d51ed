package services

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// Audit event types. Every state-changing operation records at least one.
const (
	EventConversationStarted = "conversation_started"
	EventUserMessage         = "user_message"
	EventAIResponse          = "ai_response"
	EventAIError             = "ai_error"
	EventConsentGranted      = "consent_granted"
	EventConsentRevoked      = "consent_revoked"
	EventEscalationRequested = "escalation_requested"
)

// AuditEvent describes one entry to record. Referenced ids are weak
// pointers; nil means the event is not tied to that entity.
type AuditEvent struct {
	UserID         *int64
	ConversationID *int64
	MessageID      *int64
	EventType      string
	EventData      map[string]interface{}
}

// AuditService is the append-only event recorder. It is strictly
// best-effort relative to the user-facing flow: a failed write is logged and
// swallowed so an audit outage never blocks chat. Callers must not depend on
// it for control flow.
type AuditService struct {
	store store.Store
	log   *logrus.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(s store.Store, log *logrus.Logger) *AuditService {
	return &AuditService{store: s, log: log}
}

// Record persists one audit entry. Errors never propagate.
func (s *AuditService) Record(ctx context.Context, event AuditEvent, meta models.RequestMeta) {
	var data json.RawMessage
	if event.EventData != nil {
		encoded, err := json.Marshal(event.EventData)
		if err != nil {
			s.log.WithError(err).WithField("event_type", event.EventType).
				Warn("[Audit] Failed to encode event data, recording without payload")
		} else {
			data = encoded
		}
	}

	_, err := s.store.InsertAuditEntry(ctx, store.InsertAuditEntryParams{
		UserID:         event.UserID,
		ConversationID: event.ConversationID,
		MessageID:      event.MessageID,
		EventType:      event.EventType,
		EventData:      data,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})
	if err != nil {
		s.log.WithError(err).WithField("event_type", event.EventType).
			Warn("[Audit] Failed to write audit entry")
	}
}
