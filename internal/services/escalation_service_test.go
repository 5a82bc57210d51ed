package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
	"carechat-backend/internal/store/memory"
)

type recordingNotifier struct {
	notified []int64
	err      error
}

func (n *recordingNotifier) NotifyEscalation(_ context.Context, esc *models.Escalation) error {
	n.notified = append(n.notified, esc.ID)
	return n.err
}

func newEscalationFixture(t *testing.T, notifier EscalationNotifier) (*EscalationService, *memory.Store) {
	t.Helper()
	st := memory.New()
	log := testLogger()
	return NewEscalationService(st, NewAuditService(st, log), notifier, log), st
}

func seedConversation(t *testing.T, st *memory.Store, userID int64) int64 {
	t.Helper()
	conv, err := st.CreateConversation(context.Background(), store.CreateConversationParams{
		UserID:       userID,
		Language:     "en",
		ConsentGiven: true,
	})
	require.NoError(t, err)
	return conv.ID
}

func TestEscalation_Request(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, st := newEscalationFixture(t, notifier)
	userID := seedUser(t, st, "patient@example.com")
	convID := seedConversation(t, st, userID)

	esc, err := svc.Request(context.Background(), userID, convID, nil, "I want to speak to a nurse", models.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, models.EscalationPending, esc.Status)
	assert.Equal(t, convID, esc.ConversationID)
	assert.Equal(t, []int64{esc.ID}, notifier.notified)

	entries := st.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, EventEscalationRequested, entries[0].EventType)
}

func TestEscalation_EmptyReasonRejectedBeforePersistence(t *testing.T) {
	svc, st := newEscalationFixture(t, nil)
	userID := seedUser(t, st, "patient@example.com")
	convID := seedConversation(t, st, userID)

	_, err := svc.Request(context.Background(), userID, convID, nil, "   ", models.RequestMeta{})
	require.ErrorIs(t, err, ErrValidation)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, st.AuditEntries())
}

func TestEscalation_ForeignConversationRejected(t *testing.T) {
	svc, st := newEscalationFixture(t, nil)
	owner := seedUser(t, st, "owner@example.com")
	intruder := seedUser(t, st, "intruder@example.com")
	convID := seedConversation(t, st, owner)

	_, err := svc.Request(context.Background(), intruder, convID, nil, "escalate this", models.RequestMeta{})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Request(context.Background(), owner, 9999, nil, "escalate this", models.RequestMeta{})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestEscalation_NotifierFailureDoesNotFailRequest(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("slack is down")}
	svc, st := newEscalationFixture(t, notifier)
	userID := seedUser(t, st, "patient@example.com")
	convID := seedConversation(t, st, userID)

	esc, err := svc.Request(context.Background(), userID, convID, nil, "please call me", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.EscalationPending, esc.Status)
}

func TestEscalation_PendingQueueOldestFirst(t *testing.T) {
	svc, st := newEscalationFixture(t, nil)
	userID := seedUser(t, st, "patient@example.com")
	convID := seedConversation(t, st, userID)

	first, err := svc.Request(context.Background(), userID, convID, nil, "first", models.RequestMeta{})
	require.NoError(t, err)
	second, err := svc.Request(context.Background(), userID, convID, nil, "second", models.RequestMeta{})
	require.NoError(t, err)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestEscalation_UpdateStatus(t *testing.T) {
	svc, st := newEscalationFixture(t, nil)
	userID := seedUser(t, st, "patient@example.com")
	staffID := seedUser(t, st, "nurse@example.com")
	convID := seedConversation(t, st, userID)

	esc, err := svc.Request(context.Background(), userID, convID, nil, "help", models.RequestMeta{})
	require.NoError(t, err)

	assigned, err := svc.UpdateStatus(context.Background(), esc.ID, models.EscalationAssigned, &staffID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.EscalationAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, staffID, *assigned.AssignedTo)
	assert.Nil(t, assigned.ResolvedAt)

	resolution := "called the patient back"
	resolved, err := svc.UpdateStatus(context.Background(), esc.ID, models.EscalationResolved, nil, &resolution)
	require.NoError(t, err)
	assert.Equal(t, models.EscalationResolved, resolved.Status)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, resolution, *resolved.Resolution)
	assert.NotNil(t, resolved.ResolvedAt)

	// Resolved escalations leave the pending queue.
	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEscalation_UpdateStatusValidation(t *testing.T) {
	svc, st := newEscalationFixture(t, nil)
	userID := seedUser(t, st, "patient@example.com")
	convID := seedConversation(t, st, userID)

	esc, err := svc.Request(context.Background(), userID, convID, nil, "help", models.RequestMeta{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), esc.ID, "closed", nil, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(context.Background(), 9999, models.EscalationAssigned, nil, nil)
	require.ErrorIs(t, err, store.ErrNotFound)
}
