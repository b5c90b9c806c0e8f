// pkg/ai/factory.go

package ai

import (
	"context"
	"fmt"

	"plantdoctor/config"
)

// New picks the backend named by cfg.LLMBackend. Callers should only invoke it
// when cfg.HasCredential() is true.
func New(ctx context.Context, cfg config.AppConfig) (Client, error) {
	switch cfg.LLMBackend {
	case "gemini", "":
		return NewGemini(ctx, cfg.APIKey, cfg.LLMEndpoint, cfg.LLMModel)
	case "openai":
		return NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
	case "ollama":
		return NewOllama(cfg.LLMEndpoint, cfg.LLMModel)
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown LLM_BACKEND %q", cfg.LLMBackend)
	}
}
