package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carechat-backend/internal/auth"
	"carechat-backend/internal/config"
	"carechat-backend/internal/handlers"
	"carechat-backend/internal/llm"
	"carechat-backend/internal/models"
	"carechat-backend/internal/services"
	"carechat-backend/internal/store/memory"
)

type fakeGateway struct {
	reply string
}

func (g *fakeGateway) Generate(_ context.Context, _ []llm.ChatMessage) (*llm.Result, error) {
	return &llm.Result{Text: g.reply, Model: "fake-model"}, nil
}

type testEnv struct {
	server *httptest.Server
	store  *memory.Store
	cfg    *config.Config
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		TokenExpiration: time.Hour,
	}

	st := memory.New()
	log := logrus.New()
	log.SetOutput(io.Discard)

	audit := services.NewAuditService(st, log)
	authSvc := services.NewAuthService(st, cfg, log)
	consentSvc := services.NewConsentService(st, audit, log)
	chatSvc := services.NewChatService(st, &fakeGateway{reply: "I hear you."}, audit, log)
	escSvc := services.NewEscalationService(st, audit, nil, log)

	router := NewRouter(RouterDependencies{
		AuthHandler:       handlers.NewAuthHandler(authSvc, log),
		ChatHandler:       handlers.NewChatHandlers(chatSvc, consentSvc, log),
		ConsentHandler:    handlers.NewConsentHandlers(consentSvc, log),
		EscalationHandler: handlers.NewEscalationHandlers(escSvc, log),
		Config:            cfg,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, store: st, cfg: cfg}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) signupAndLogin(t *testing.T, email string) string {
	t.Helper()
	resp, _ := e.request(t, http.MethodPost, "/v1/auth/signup", "", models.SignupRequest{
		Email: email, Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.request(t, http.MethodPost, "/v1/auth/login", "", models.LoginRequest{
		Email: email, Password: "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var authResp models.AuthResponse
	require.NoError(t, json.Unmarshal(body, &authResp))
	require.NotEmpty(t, authResp.AccessToken)
	return authResp.AccessToken
}

func (e *testEnv) grantConsent(t *testing.T, token string) {
	t.Helper()
	resp, _ := e.request(t, http.MethodPost, "/v1/consents", token, models.GrantConsentRequest{
		ConsentType: services.ConsentTypeDataProcessing,
		ConsentText: "I agree to data processing",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestServer(t)
	resp, body := env.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestChatRequiresAuthentication(t *testing.T) {
	env := setupTestServer(t)
	resp, _ := env.request(t, http.MethodPost, "/v1/chat/messages", "", models.SendMessageRequest{Message: "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChatRequiresConsent(t *testing.T) {
	env := setupTestServer(t)
	token := env.signupAndLogin(t, "patient@example.com")

	resp, body := env.request(t, http.MethodPost, "/v1/chat/messages", token, models.SendMessageRequest{Message: "hi"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Contains(t, errResp.Error, "Consent is required")

	// Nothing was persisted for the refused request.
	conversations, err := env.store.ListConversationsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestChatFlow(t *testing.T) {
	env := setupTestServer(t)
	token := env.signupAndLogin(t, "patient@example.com")
	env.grantConsent(t, token)

	resp, body := env.request(t, http.MethodPost, "/v1/chat/messages", token, models.SendMessageRequest{
		Message: "I am worried about side effects",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sendResp models.SendMessageResponse
	require.NoError(t, json.Unmarshal(body, &sendResp))
	assert.Equal(t, "I hear you.", sendResp.Message)
	assert.Equal(t, models.RoleAssistant, sendResp.Role)

	resp, body = env.request(t, http.MethodGet, "/v1/conversations", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conversations []models.ConversationResponse
	require.NoError(t, json.Unmarshal(body, &conversations))
	require.Len(t, conversations, 1)
	assert.Equal(t, sendResp.ConversationID, conversations[0].ID)

	resp, body = env.request(t, http.MethodGet, fmt.Sprintf("/v1/conversations/%d/messages", sendResp.ConversationID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var messages []models.MessageResponse
	require.NoError(t, json.Unmarshal(body, &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, models.RoleAssistant, messages[1].Role)
}

func TestConversationIsolationOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	ownerToken := env.signupAndLogin(t, "owner@example.com")
	env.grantConsent(t, ownerToken)

	resp, body := env.request(t, http.MethodPost, "/v1/chat/messages", ownerToken, models.SendMessageRequest{Message: "private"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sendResp models.SendMessageResponse
	require.NoError(t, json.Unmarshal(body, &sendResp))

	otherToken := env.signupAndLogin(t, "other@example.com")
	resp, _ = env.request(t, http.MethodGet, fmt.Sprintf("/v1/conversations/%d/messages", sendResp.ConversationID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConsentRevocationBlocksChat(t *testing.T) {
	env := setupTestServer(t)
	token := env.signupAndLogin(t, "patient@example.com")
	env.grantConsent(t, token)

	resp, _ := env.request(t, http.MethodPost, "/v1/chat/messages", token, models.SendMessageRequest{Message: "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/v1/consents/"+services.ConsentTypeDataProcessing, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, "/v1/chat/messages", token, models.SendMessageRequest{Message: "hi again"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEscalationEndpoints(t *testing.T) {
	env := setupTestServer(t)
	token := env.signupAndLogin(t, "patient@example.com")
	env.grantConsent(t, token)

	resp, body := env.request(t, http.MethodPost, "/v1/chat/messages", token, models.SendMessageRequest{Message: "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sendResp models.SendMessageResponse
	require.NoError(t, json.Unmarshal(body, &sendResp))

	resp, body = env.request(t, http.MethodPost, "/v1/escalations", token, models.RequestEscalationRequest{
		ConversationID: sendResp.ConversationID,
		Reason:         "I want to talk to a nurse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var escResp models.RequestEscalationResponse
	require.NoError(t, json.Unmarshal(body, &escResp))
	assert.True(t, escResp.Success)

	// Patients cannot see the review queue.
	resp, _ = env.request(t, http.MethodGet, "/v1/escalations/pending", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// An admin token can.
	adminToken, err := auth.NewAccessToken(99, models.AccountRoleAdmin, env.cfg.JWTSecret, time.Hour)
	require.NoError(t, err)

	resp, body = env.request(t, http.MethodGet, "/v1/escalations/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []models.EscalationResponse
	require.NoError(t, json.Unmarshal(body, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, models.EscalationPending, pending[0].Status)

	resolution := "spoke with the patient"
	resp, body = env.request(t, http.MethodPatch, fmt.Sprintf("/v1/escalations/%d", escResp.EscalationID), adminToken, models.UpdateEscalationRequest{
		Status:     models.EscalationResolved,
		Resolution: &resolution,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.EscalationResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, models.EscalationResolved, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)
}

func TestAuditEndpointAdminOnly(t *testing.T) {
	env := setupTestServer(t)
	token := env.signupAndLogin(t, "patient@example.com")
	env.grantConsent(t, token)

	resp, body := env.request(t, http.MethodPost, "/v1/chat/messages", token, models.SendMessageRequest{Message: "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sendResp models.SendMessageResponse
	require.NoError(t, json.Unmarshal(body, &sendResp))
	auditPath := fmt.Sprintf("/v1/audit/conversations/%d", sendResp.ConversationID)

	resp, _ = env.request(t, http.MethodGet, auditPath, token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken, err := auth.NewAccessToken(99, models.AccountRoleAdmin, env.cfg.JWTSecret, time.Hour)
	require.NoError(t, err)

	resp, body = env.request(t, http.MethodGet, auditPath, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []models.AuditEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	assert.NotEmpty(t, entries)
}

func TestSignupValidation(t *testing.T) {
	env := setupTestServer(t)

	resp, _ := env.request(t, http.MethodPost, "/v1/auth/signup", "", models.SignupRequest{Email: "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.signupAndLogin(t, "dup@example.com")
	resp, _ = env.request(t, http.MethodPost, "/v1/auth/signup", "", models.SignupRequest{
		Email: "dup@example.com", Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, "/v1/auth/login", "", models.LoginRequest{
		Email: "dup@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
