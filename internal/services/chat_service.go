package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"carechat-backend/internal/i18n"
	"carechat-backend/internal/llm"
	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// ChatService orchestrates one inbound user message into a persisted,
// compliant assistant reply: resolve the conversation, persist the user
// turn, assemble the bounded prompt, invoke the gateway, persist the reply,
// and record audit entries at each milestone.
//
// The caller is responsible for verifying consent before invoking
// SendMessage; conversation creation here is unguarded by design.
type ChatService struct {
	store   store.Store
	gateway llm.Gateway
	audit   *AuditService
	log     *logrus.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store, gateway llm.Gateway, audit *AuditService, log *logrus.Logger) *ChatService {
	return &ChatService{store: s, gateway: gateway, audit: audit, log: log}
}

// SendMessage handles one user turn. Not idempotent: every successful call
// appends two messages (one on gateway failure), so caller retries produce
// duplicate turns. Expected for a live chat.
//
// On gateway failure the error propagates, but the conversation and the
// user's own message are already durable: the user never loses what they
// typed just because the assistant could not answer.
func (s *ChatService) SendMessage(ctx context.Context, userID int64, req models.SendMessageRequest, meta models.RequestMeta) (*models.SendMessageResponse, error) {
	message := req.Message
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}

	language := req.Language
	if language == "" {
		language = i18n.DefaultLanguage
	}
	if !i18n.IsSupported(language) {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrValidation, language)
	}

	// 1. Conversation resolution. Ownership is checked before anything is
	// appended so a guessed or replayed id cannot hijack another user's
	// conversation.
	var conversationID int64
	if req.ConversationID == nil {
		conv, err := s.store.CreateConversation(ctx, store.CreateConversationParams{
			UserID:       userID,
			Language:     language,
			ConsentGiven: true, // consent was verified one layer up
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = conv.ID

		s.audit.Record(ctx, AuditEvent{
			UserID:         &userID,
			ConversationID: &conversationID,
			EventType:      EventConversationStarted,
			EventData:      map[string]interface{}{"language": language},
		}, meta)
	} else {
		conversationID = *req.ConversationID
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
		// The conversation's language is fixed at creation; both turns
		// and the prompt follow it.
		language = conv.Language
	}

	// 2. Persist the inbound turn. The audit payload carries the length
	// only, never the content, to bound sensitive-data exposure in the
	// audit log.
	userMsg, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        message,
		Language:       language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	s.audit.Record(ctx, AuditEvent{
		UserID:         &userID,
		ConversationID: &conversationID,
		MessageID:      &userMsg.ID,
		EventType:      EventUserMessage,
		EventData:      map[string]interface{}{"messageLength": len(message)},
	}, meta)

	// 3. Context assembly.
	history, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	prompt := BuildPrompt(language, history, message)

	// 4. Generation. The user's message is already durable at this point,
	// so a gateway failure is survivable partial success.
	result, err := s.gateway.Generate(ctx, prompt)
	if err != nil {
		s.audit.Record(ctx, AuditEvent{
			UserID:         &userID,
			ConversationID: &conversationID,
			EventType:      EventAIError,
			EventData:      map[string]interface{}{"error": err.Error()},
		}, meta)
		return nil, err
	}

	reply := result.Text
	if reply == "" {
		// A degraded reply beats silence.
		reply = i18n.FallbackReply
	}

	// 5. Persist the outbound turn.
	assistantMsg, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        reply,
		Language:       language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	s.audit.Record(ctx, AuditEvent{
		UserID:         &userID,
		ConversationID: &conversationID,
		MessageID:      &assistantMsg.ID,
		EventType:      EventAIResponse,
		EventData: map[string]interface{}{
			"responseLength": len(reply),
			"model":          result.Model,
		},
	}, meta)

	return &models.SendMessageResponse{
		ConversationID: conversationID,
		MessageID:      assistantMsg.ID,
		Message:        reply,
		Role:           models.RoleAssistant,
	}, nil
}

// GetConversationMessages returns a conversation's transcript in creation
// order. The conversation must belong to the caller.
func (s *ChatService) GetConversationMessages(ctx context.Context, userID, conversationID int64) ([]models.Message, error) {
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

	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// ListConversations returns the caller's conversations, most recently
// updated first.
func (s *ChatService) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	items, err := s.store.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return items, nil
}

// GetConversationAudit returns the audit trail for one conversation, for
// regulatory review.
func (s *ChatService) GetConversationAudit(ctx context.Context, conversationID int64) ([]models.AuditEntry, error) {
	entries, err := s.store.ListAuditEntriesByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
