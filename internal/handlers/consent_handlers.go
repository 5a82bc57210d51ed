package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"carechat-backend/internal/auth"
	"carechat-backend/internal/models"
	"carechat-backend/internal/services"
	"carechat-backend/pkg/httputil"
)

// ConsentHandlers handles HTTP requests for consent management.
type ConsentHandlers struct {
	consentService *services.ConsentService
	log            *logrus.Logger
}

// NewConsentHandlers creates a new ConsentHandlers instance.
func NewConsentHandlers(consentSvc *services.ConsentService, log *logrus.Logger) *ConsentHandlers {
	return &ConsentHandlers{
		consentService: consentSvc,
		log:            log,
	}
}

// HandleGrantConsent handles POST /v1/consents.
func (h *ConsentHandlers) HandleGrantConsent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.GrantConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	consent, err := h.consentService.Grant(r.Context(), userID, req.ConsentType, req.ConsentText, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.WithError(err).WithField("user_id", userID).Error("Failed to grant consent")
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to record consent")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.GrantConsentResponse{
		Success:   true,
		ConsentID: consent.ID,
	})
}

// HandleCheckConsent handles GET /v1/consents/{consentType}.
func (h *ConsentHandlers) HandleCheckConsent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	consentType := urlParam(r, "consentType")
	if consentType == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Consent type is required")
		return
	}

	hasConsent, err := h.consentService.Check(r.Context(), userID, consentType)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("Failed to check consent")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to check consent")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ConsentStatusResponse{HasConsent: hasConsent})
}

// HandleRevokeConsent handles DELETE /v1/consents/{consentType}.
func (h *ConsentHandlers) HandleRevokeConsent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	consentType := urlParam(r, "consentType")
	if consentType == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Consent type is required")
		return
	}

	if err := h.consentService.Revoke(r.Context(), userID, consentType, requestMeta(r)); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("Failed to revoke consent")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to revoke consent")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
