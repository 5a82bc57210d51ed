// Package memory provides an in-memory store.Store used by tests and by
// local development runs that have no database at hand. Semantics mirror the
// postgres store: append-only messages/consents/audit rows, monotonically
// assigned ids, creation-order listings.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// Compile-time check to ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.Mutex

	nextID        int64
	users         []models.User
	conversations []models.Conversation
	messages      []models.Message
	consents      []models.Consent
	escalations   []models.Escalation
	auditEntries  []models.AuditEntry

	// FailWrites makes every mutating call return store.ErrUnavailable,
	// simulating an unreachable backing store.
	FailWrites bool
	// FailAudit fails only audit inserts, for exercising the best-effort
	// audit path in isolation.
	FailAudit bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// --- User operations ---

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, email, hashedPassword, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, store.ErrUnavailable
	}
	now := time.Now()
	u := models.User{
		ID:             s.allocID(),
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users = append(s.users, u)
	return &u, nil
}

// --- Conversation operations ---

func (s *Store) CreateConversation(_ context.Context, arg store.CreateConversationParams) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, store.ErrUnavailable
	}
	now := time.Now()
	conv := models.Conversation{
		ID:           s.allocID(),
		UserID:       arg.UserID,
		Language:     arg.Language,
		ConsentGiven: arg.ConsentGiven,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.conversations = append(s.conversations, conv)
	return &conv, nil
}

func (s *Store) GetConversationByID(_ context.Context, id int64) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			conv := s.conversations[i]
			return &conv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListConversationsByUser(_ context.Context, userID int64) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Conversation
	for i := range s.conversations {
		if s.conversations[i].UserID == userID {
			items = append(items, s.conversations[i])
		}
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].UpdatedAt.After(items[b].UpdatedAt)
	})
	return items, nil
}

// --- Message operations ---

func (s *Store) AppendMessage(_ context.Context, arg store.AppendMessageParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, store.ErrUnavailable
	}
	now := time.Now()
	msg := models.Message{
		ID:             s.allocID(),
		ConversationID: arg.ConversationID,
		Role:           arg.Role,
		Content:        arg.Content,
		Language:       arg.Language,
		CreatedAt:      now,
	}
	s.messages = append(s.messages, msg)
	for i := range s.conversations {
		if s.conversations[i].ID == arg.ConversationID {
			s.conversations[i].UpdatedAt = now
		}
	}
	return &msg, nil
}

func (s *Store) ListMessages(_ context.Context, conversationID int64) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Message
	for i := range s.messages {
		if s.messages[i].ConversationID == conversationID {
			items = append(items, s.messages[i])
		}
	}
	// Insertion order is creation order; kept stable by id as a tiebreaker.
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].CreatedAt.Equal(items[b].CreatedAt) {
			return items[a].ID < items[b].ID
		}
		return items[a].CreatedAt.Before(items[b].CreatedAt)
	})
	return items, nil
}

// --- Consent operations ---

func (s *Store) InsertConsent(_ context.Context, arg store.InsertConsentParams) (*models.Consent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, store.ErrUnavailable
	}
	c := models.Consent{
		ID:          s.allocID(),
		UserID:      arg.UserID,
		ConsentType: arg.ConsentType,
		Granted:     arg.Granted,
		ConsentText: arg.ConsentText,
		IPAddress:   arg.IPAddress,
		CreatedAt:   time.Now(),
	}
	s.consents = append(s.consents, c)
	return &c, nil
}

func (s *Store) GetLatestConsent(_ context.Context, userID int64, consentType string) (*models.Consent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.consents) - 1; i >= 0; i-- {
		if s.consents[i].UserID == userID && s.consents[i].ConsentType == consentType {
			c := s.consents[i]
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) RevokeConsent(_ context.Context, userID int64, consentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return store.ErrUnavailable
	}
	now := time.Now()
	revoked := false
	for i := range s.consents {
		if s.consents[i].UserID == userID && s.consents[i].ConsentType == consentType && s.consents[i].Granted {
			s.consents[i].Granted = false
			s.consents[i].RevokedAt = &now
			revoked = true
		}
	}
	if !revoked {
		return store.ErrNotFound
	}
	return nil
}

// --- Escalation operations ---

func (s *Store) InsertEscalation(_ context.Context, arg store.InsertEscalationParams) (*models.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, store.ErrUnavailable
	}
	esc := models.Escalation{
		ID:             s.allocID(),
		UserID:         arg.UserID,
		ConversationID: arg.ConversationID,
		MessageID:      arg.MessageID,
		Reason:         arg.Reason,
		Status:         models.EscalationPending,
		CreatedAt:      time.Now(),
	}
	s.escalations = append(s.escalations, esc)
	return &esc, nil
}

func (s *Store) UpdateEscalationStatus(_ context.Context, arg store.UpdateEscalationStatusParams) (*models.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return nil, store.ErrUnavailable
	}
	for i := range s.escalations {
		if s.escalations[i].ID == arg.ID {
			s.escalations[i].Status = arg.Status
			if arg.AssignedTo != nil {
				s.escalations[i].AssignedTo = arg.AssignedTo
			}
			if arg.Resolution != nil {
				s.escalations[i].Resolution = arg.Resolution
			}
			if arg.Status == models.EscalationResolved {
				now := time.Now()
				s.escalations[i].ResolvedAt = &now
			}
			esc := s.escalations[i]
			return &esc, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListPendingEscalations(_ context.Context) ([]models.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Escalation
	for i := range s.escalations {
		if s.escalations[i].Status == models.EscalationPending {
			items = append(items, s.escalations[i])
		}
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.Before(items[b].CreatedAt)
	})
	return items, nil
}

// --- Audit operations ---

func (s *Store) InsertAuditEntry(_ context.Context, arg store.InsertAuditEntryParams) (*models.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites || s.FailAudit {
		return nil, store.ErrUnavailable
	}
	entry := models.AuditEntry{
		ID:             s.allocID(),
		UserID:         arg.UserID,
		ConversationID: arg.ConversationID,
		MessageID:      arg.MessageID,
		EventType:      arg.EventType,
		EventData:      arg.EventData,
		IPAddress:      arg.IPAddress,
		UserAgent:      arg.UserAgent,
		CreatedAt:      time.Now(),
	}
	s.auditEntries = append(s.auditEntries, entry)
	return &entry, nil
}

// AuditEntries returns every recorded audit entry in insertion order.
func (s *Store) AuditEntries() []models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.AuditEntry, len(s.auditEntries))
	copy(items, s.auditEntries)
	return items
}

func (s *Store) ListAuditEntriesByConversation(_ context.Context, conversationID int64) ([]models.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.AuditEntry
	for i := range s.auditEntries {
		if s.auditEntries[i].ConversationID != nil && *s.auditEntries[i].ConversationID == conversationID {
			items = append(items, s.auditEntries[i])
		}
	}
	return items, nil
}
