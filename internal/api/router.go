package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"carechat-backend/internal/config"
	"carechat-backend/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler       *handlers.AuthHandler
	ChatHandler       *handlers.ChatHandlers
	ConsentHandler    *handlers.ConsentHandlers
	EscalationHandler *handlers.EscalationHandlers
	Config            *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		r.Post("/chat/messages", deps.ChatHandler.HandleSendMessage)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", deps.ChatHandler.HandleListConversations)
			r.Get("/{conversationID}/messages", deps.ChatHandler.HandleListMessages)
		})

		r.Route("/consents", func(r chi.Router) {
			r.Post("/", deps.ConsentHandler.HandleGrantConsent)
			r.Get("/{consentType}", deps.ConsentHandler.HandleCheckConsent)
			r.Delete("/{consentType}", deps.ConsentHandler.HandleRevokeConsent)
		})

		r.Route("/escalations", func(r chi.Router) {
			r.Post("/", deps.EscalationHandler.HandleRequestEscalation)

			// Care-team endpoints.
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/pending", deps.EscalationHandler.HandleListPending)
				r.Patch("/{escalationID}", deps.EscalationHandler.HandleUpdateEscalation)
			})
		})

		r.Route("/audit", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/conversations/{conversationID}", deps.ChatHandler.HandleListAuditEntries)
		})
	})

	return r
}
