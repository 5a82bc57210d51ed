package main

import (
	"context"
	"crypto/cipher"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"carechat-backend/internal/api"
	"carechat-backend/internal/config"
	"carechat-backend/internal/crypto"
	"carechat-backend/internal/handlers"
	"carechat-backend/internal/integrations/slack"
	"carechat-backend/internal/llm"
	"carechat-backend/internal/logger"
	"carechat-backend/internal/services"
	"carechat-backend/internal/store/postgres"
)

func main() {
	log := logger.New()
	log.Info("Starting CareChat Backend...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Unable to create database connection pool")
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.WithError(err).Fatal("Unable to ping database")
	}
	log.Info("Database connection pool established")

	// Message content is encrypted at rest. An empty key leaves content in
	// plaintext, acceptable only for local development.
	var aead cipher.AEAD
	if len(cfg.EncryptionKey) > 0 {
		aead, err = crypto.NewAESGCM(cfg.EncryptionKey)
		if err != nil {
			log.WithError(err).Fatal("Failed to create AES-GCM cipher")
		}
	} else {
		log.Warn("ENCRYPTION_KEY not set; message content will be stored in plaintext")
	}

	pgStore := postgres.NewPostgresStore(dbpool, aead)

	gateway, err := llm.NewLangchainGateway(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize LLM gateway")
	}
	log.WithField("provider", cfg.LLMProvider).Info("LLM gateway initialized")

	var notifier services.EscalationNotifier
	if n := slack.NewNotifier(cfg.SlackToken, cfg.SlackChannel); n != nil {
		notifier = n
		log.WithField("channel", cfg.SlackChannel).Info("Slack escalation notifier enabled")
	}

	auditService := services.NewAuditService(pgStore, log)
	authService := services.NewAuthService(pgStore, cfg, log)
	consentService := services.NewConsentService(pgStore, auditService, log)
	chatService := services.NewChatService(pgStore, gateway, auditService, log)
	escalationService := services.NewEscalationService(pgStore, auditService, notifier, log)

	routerDeps := api.RouterDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService, log),
		ChatHandler:       handlers.NewChatHandlers(chatService, consentService, log),
		ConsentHandler:    handlers.NewConsentHandlers(consentService, log),
		EscalationHandler: handlers.NewEscalationHandlers(escalationService, log),
		Config:            cfg,
	}
	router := api.NewRouter(routerDeps)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout: 5 * time.Second,
		// Generation can take most of the LLM timeout, so the write
		// deadline must outlast it.
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-stopChan
	log.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Graceful shutdown failed")
	}
	log.Info("Server shutdown complete")
}
