package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// EscalationNotifier pushes a new escalation request to the care team's
// attention (e.g. a Slack channel). Notification is best-effort: failures
// are logged, never surfaced to the patient.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, esc *models.Escalation) error
}

// EscalationService lets a user flag a conversation for human follow-up and
// lets staff work the resulting queue.
type EscalationService struct {
	store    store.Store
	audit    *AuditService
	notifier EscalationNotifier // may be nil
	log      *logrus.Logger
}

// NewEscalationService creates a new EscalationService. notifier may be nil
// when no notification target is configured.
func NewEscalationService(s store.Store, audit *AuditService, notifier EscalationNotifier, log *logrus.Logger) *EscalationService {
	return &EscalationService{store: s, audit: audit, notifier: notifier, log: log}
}

// Request files an escalation for the given conversation. The conversation
// must exist and belong to the caller, and the reason must be non-empty;
// both are checked before anything is persisted.
func (s *EscalationService) Request(ctx context.Context, userID int64, conversationID int64, messageID *int64, reason string, meta models.RequestMeta) (*models.Escalation, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: escalation reason is required", ErrValidation)
	}

	conv, err := s.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv.UserID != userID {
		return nil, ErrUnauthorized
	}

	esc, err := s.store.InsertEscalation(ctx, store.InsertEscalationParams{
		UserID:         userID,
		ConversationID: conversationID,
		MessageID:      messageID,
		Reason:         reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create escalation: %w", err)
	}

	s.audit.Record(ctx, AuditEvent{
		UserID:         &userID,
		ConversationID: &conversationID,
		EventType:      EventEscalationRequested,
		EventData: map[string]interface{}{
			"escalationId": esc.ID,
			"reason":       reason,
		},
	}, meta)

	if s.notifier != nil {
		if err := s.notifier.NotifyEscalation(ctx, esc); err != nil {
			s.log.WithError(err).WithField("escalation_id", esc.ID).
				Warn("[Escalation] Failed to notify care team")
		}
	}

	s.log.WithFields(logrus.Fields{"escalation_id": esc.ID, "conversation_id": conversationID}).
		Info("[Escalation] Human review requested")
	return esc, nil
}

// UpdateStatus sets the provided fields on an escalation. Statuses outside
// pending/assigned/resolved are rejected, but transitions are not: moving
// backward or resolving without an assignee is accepted, matching how the
// review tooling actually uses this.
func (s *EscalationService) UpdateStatus(ctx context.Context, escalationID int64, status string, assignedTo *int64, resolution *string) (*models.Escalation, error) {
	switch status {
	case models.EscalationPending, models.EscalationAssigned, models.EscalationResolved:
	default:
		return nil, fmt.Errorf("%w: unknown escalation status %q", ErrValidation, status)
	}

	esc, err := s.store.UpdateEscalationStatus(ctx, store.UpdateEscalationStatusParams{
		ID:         escalationID,
		Status:     status,
		AssignedTo: assignedTo,
		Resolution: resolution,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update escalation: %w", err)
	}

	return esc, nil
}

// ListPending returns the reviewer queue, oldest first.
func (s *EscalationService) ListPending(ctx context.Context) ([]models.Escalation, error) {
	items, err := s.store.ListPendingEscalations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalations: %w", err)
	}
	return items, nil
}
