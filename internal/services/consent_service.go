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

// ConsentTypeDataProcessing is the consent gate for chatting with the
// assistant at all.
const ConsentTypeDataProcessing = "data_processing"

// ConsentService is the authoritative yes/no on whether a user may use the
// assistant, plus the append-only record of consent changes.
type ConsentService struct {
	store store.Store
	audit *AuditService
	log   *logrus.Logger
}

// NewConsentService creates a new ConsentService.
func NewConsentService(s store.Store, audit *AuditService, log *logrus.Logger) *ConsentService {
	return &ConsentService{store: s, audit: audit, log: log}
}

// Grant records a new consent grant. Always inserts a fresh row; prior
// history is never mutated, so the full trail of consent changes survives
// for compliance review.
func (s *ConsentService) Grant(ctx context.Context, userID int64, consentType, consentText string, meta models.RequestMeta) (*models.Consent, error) {
	consentType = strings.TrimSpace(consentType)
	if consentType == "" || strings.TrimSpace(consentText) == "" {
		return nil, fmt.Errorf("%w: consent type and text are required", ErrValidation)
	}

	consent, err := s.store.InsertConsent(ctx, store.InsertConsentParams{
		UserID:      userID,
		ConsentType: consentType,
		Granted:     true,
		ConsentText: consentText,
		IPAddress:   meta.IPAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record consent: %w", err)
	}

	s.audit.Record(ctx, AuditEvent{
		UserID:    &userID,
		EventType: EventConsentGranted,
		EventData: map[string]interface{}{
			"consentType": consentType,
			"consentId":   consent.ID,
		},
	}, meta)

	s.log.WithFields(logrus.Fields{"user_id": userID, "consent_type": consentType}).
		Info("[Consent] Consent granted")
	return consent, nil
}

// Check reports whether the user currently holds consent of the given type.
// The most recently created row wins: a user who revoked and re-granted has
// consent, a user whose latest grant was revoked does not.
func (s *ConsentService) Check(ctx context.Context, userID int64, consentType string) (bool, error) {
	consent, err := s.store.GetLatestConsent(ctx, userID, consentType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check consent: %w", err)
	}
	return consent.Granted && consent.RevokedAt == nil, nil
}

// Revoke withdraws the user's consent of the given type. Granted rows are
// stamped with a revocation timestamp, not deleted. Revoking a consent that
// was never granted is a no-op.
func (s *ConsentService) Revoke(ctx context.Context, userID int64, consentType string, meta models.RequestMeta) error {
	err := s.store.RevokeConsent(ctx, userID, consentType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to revoke consent: %w", err)
	}

	s.audit.Record(ctx, AuditEvent{
		UserID:    &userID,
		EventType: EventConsentRevoked,
		EventData: map[string]interface{}{"consentType": consentType},
	}, meta)

	s.log.WithFields(logrus.Fields{"user_id": userID, "consent_type": consentType}).
		Info("[Consent] Consent revoked")
	return nil
}
