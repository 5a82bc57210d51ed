package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"carechat-backend/internal/auth"
	"carechat-backend/internal/i18n"
	"carechat-backend/internal/llm"
	"carechat-backend/internal/models"
	"carechat-backend/internal/services"
	"carechat-backend/internal/store"
	"carechat-backend/pkg/httputil"
)

// ChatHandlers handles HTTP requests for the patient chat surface.
type ChatHandlers struct {
	chatService    *services.ChatService
	consentService *services.ConsentService
	log            *logrus.Logger
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatSvc *services.ChatService, consentSvc *services.ConsentService, log *logrus.Logger) *ChatHandlers {
	return &ChatHandlers{
		chatService:    chatSvc,
		consentService: consentSvc,
		log:            log,
	}
}

// HandleSendMessage handles POST /v1/chat/messages.
//
// Consent is verified here, before any chat state is touched. A user
// without an active data-processing consent gets a localized refusal and
// nothing is persisted.
func (h *ChatHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	hasConsent, err := h.consentService.Check(r.Context(), userID, services.ConsentTypeDataProcessing)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("Consent check failed")
		httputil.RespondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}
	if !hasConsent {
		tr := i18n.ForLanguage(req.Language)
		httputil.RespondError(w, http.StatusForbidden, tr.ConsentRequired)
		return
	}

	resp, err := h.chatService.SendMessage(r.Context(), userID, req, requestMeta(r))
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Warn("SendMessage failed")
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUnauthorized):
			httputil.RespondError(w, http.StatusForbidden, "Access to this conversation is not allowed")
		case errors.Is(err, llm.ErrGenerationFailed):
			httputil.RespondError(w, http.StatusBadGateway, "The assistant is currently unavailable. Please try again.")
		case errors.Is(err, store.ErrUnavailable):
			httputil.RespondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to process message")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListConversations handles GET /v1/conversations.
func (h *ChatHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conversations, err := h.chatService.ListConversations(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("Failed to list conversations")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	resp := make([]models.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		resp = append(resp, models.ConversationResponse{
			ID:        c.ID,
			Language:  c.Language,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListMessages handles GET /v1/conversations/{conversationID}/messages.
func (h *ChatHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conversationID, err := idParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	messages, err := h.chatService.GetConversationMessages(r.Context(), userID, conversationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			httputil.RespondError(w, http.StatusForbidden, "Access to this conversation is not allowed")
		default:
			h.log.WithError(err).WithField("conversation_id", conversationID).Error("Failed to list messages")
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		}
		return
	}

	resp := make([]models.MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, models.MessageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			Language:  m.Language,
			CreatedAt: m.CreatedAt,
		})
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListAuditEntries handles GET /v1/audit/conversations/{conversationID}.
// Admin only; the router enforces the role.
func (h *ChatHandlers) HandleListAuditEntries(w http.ResponseWriter, r *http.Request) {
	conversationID, err := idParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	entries, err := h.chatService.GetConversationAudit(r.Context(), conversationID)
	if err != nil {
		h.log.WithError(err).WithField("conversation_id", conversationID).Error("Failed to list audit entries")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list audit entries")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}
