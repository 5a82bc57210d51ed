package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"carechat-backend/internal/auth"
	"carechat-backend/internal/models"
	"carechat-backend/internal/services"
	"carechat-backend/internal/store"
	"carechat-backend/pkg/httputil"
)

// EscalationHandlers handles HTTP requests for human-support escalations.
type EscalationHandlers struct {
	escalationService *services.EscalationService
	log               *logrus.Logger
}

// NewEscalationHandlers creates a new EscalationHandlers instance.
func NewEscalationHandlers(escSvc *services.EscalationService, log *logrus.Logger) *EscalationHandlers {
	return &EscalationHandlers{
		escalationService: escSvc,
		log:               log,
	}
}

// HandleRequestEscalation handles POST /v1/escalations.
func (h *EscalationHandlers) HandleRequestEscalation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.RequestEscalationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	esc, err := h.escalationService.Request(r.Context(), userID, req.ConversationID, req.MessageID, req.Reason, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUnauthorized):
			httputil.RespondError(w, http.StatusForbidden, "Access to this conversation is not allowed")
		default:
			h.log.WithError(err).WithField("user_id", userID).Error("Failed to request escalation")
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to request escalation")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.RequestEscalationResponse{
		Success:      true,
		EscalationID: esc.ID,
	})
}

// HandleListPending handles GET /v1/escalations/pending. Admin only.
func (h *EscalationHandlers) HandleListPending(w http.ResponseWriter, r *http.Request) {
	escalations, err := h.escalationService.ListPending(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list pending escalations")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list pending escalations")
		return
	}

	resp := make([]models.EscalationResponse, 0, len(escalations))
	for _, e := range escalations {
		resp = append(resp, toEscalationResponse(e))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleUpdateEscalation handles PATCH /v1/escalations/{escalationID}. Admin only.
func (h *EscalationHandlers) HandleUpdateEscalation(w http.ResponseWriter, r *http.Request) {
	escalationID, err := idParam(r, "escalationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid escalation ID")
		return
	}

	var req models.UpdateEscalationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	esc, err := h.escalationService.UpdateStatus(r.Context(), escalationID, req.Status, req.AssignedTo, req.Resolution)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Escalation not found")
		default:
			h.log.WithError(err).WithField("escalation_id", escalationID).Error("Failed to update escalation")
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to update escalation")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, toEscalationResponse(*esc))
}

func toEscalationResponse(e models.Escalation) models.EscalationResponse {
	return models.EscalationResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		ConversationID: e.ConversationID,
		MessageID:      e.MessageID,
		Reason:         e.Reason,
		Status:         e.Status,
		AssignedTo:     e.AssignedTo,
		Resolution:     e.Resolution,
		CreatedAt:      e.CreatedAt,
		ResolvedAt:     e.ResolvedAt,
	}
}
