package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"carechat-backend/internal/config"
)

// Compile-time check to ensure LangchainGateway implements Gateway.
var _ Gateway = (*LangchainGateway)(nil)

// LangchainGateway wraps a langchaingo chat model behind the Gateway
// boundary.
type LangchainGateway struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
}

// NewLangchainGateway creates a gateway backed by the provider named in the
// configuration.
func NewLangchainGateway(cfg *config.Config) (*LangchainGateway, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &LangchainGateway{
		llm:       model,
		modelName: cfg.LLMModel,
		timeout:   cfg.LLMTimeout,
	}, nil
}

// Generate sends the ordered message sequence to the model and returns the
// first choice's text. Any upstream failure, including the gateway's own
// timeout, comes back wrapped in ErrGenerationFailed.
func (g *LangchainGateway) Generate(ctx context.Context, messages []ChatMessage) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(toChatMessageType(m.Role), m.Content))
	}

	response, err := g.llm.GenerateContent(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices", ErrGenerationFailed)
	}

	return &Result{
		Text:  strings.TrimSpace(response.Choices[0].Content),
		Model: g.modelName,
	}, nil
}

func toChatMessageType(role string) schema.ChatMessageType {
	switch role {
	case "system":
		return schema.ChatMessageTypeSystem
	case "assistant":
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
