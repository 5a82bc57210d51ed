package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LLM provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration
	EncryptionKey   []byte // Raw key bytes (32 for AES-256), used for message content at rest

	LLMProvider     string
	LLMModel        string
	LLMTimeout      time.Duration
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// Optional Slack notification target for escalation requests. Empty
	// token disables notifications.
	SlackToken   string
	SlackChannel string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.")
		// Don't fail if .env is not present, might be in production
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	llmTimeoutStr := getEnv("LLM_TIMEOUT_SECONDS", "60")
	llmTimeoutSecs, err := strconv.Atoi(llmTimeoutStr)
	if err != nil {
		log.Printf("Warning: Invalid LLM_TIMEOUT_SECONDS '%s', using default 60s. Error: %v", llmTimeoutStr, err)
		llmTimeoutSecs = 60
	}

	// Load and decode the Encryption Key (64 hex characters for 32 bytes).
	// An unset key is allowed for local development; message content is
	// then stored in plaintext.
	var encryptionKeyBytes []byte
	if encryptionKeyHex := getEnv("ENCRYPTION_KEY", ""); encryptionKeyHex != "" {
		encryptionKeyBytes, err = hex.DecodeString(encryptionKeyHex)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ENCRYPTION_KEY from hex: %w", err)
		}
		if len(encryptionKeyBytes) != 32 {
			return nil, fmt.Errorf("ENCRYPTION_KEY must be 32 bytes (64 hex characters) long, got %d bytes", len(encryptionKeyBytes))
		}
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "default-super-secret-key"), // CHANGE THIS IN PRODUCTION!
		DatabaseURL:     dbURL,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),
		EncryptionKey:   encryptionKeyBytes,
		LLMProvider:     getEnv("LLM_PROVIDER", ProviderOpenAI),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:      time.Second * time.Duration(llmTimeoutSecs),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		SlackToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackChannel:    getEnv("SLACK_ESCALATION_CHANNEL", ""),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, LLM=%s/%s", cfg.HTTPPort, cfg.TokenExpiration, cfg.LLMProvider, cfg.LLMModel)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
