package models

import (
	"fmt"

	"github.com/mapagent/mapagent/pkg/config"
)

// NewProvider maps configuration onto a provider. The kill switch wins
// over every backend except Ollama, which runs locally. Only the default
// OpenAI path can fail here: a missing key there is a configuration bug,
// while Gemini and Ollama validate lazily and degrade at call time.
func NewProvider(cfg config.Config) (Provider, error) {
	if cfg.DisableOpenAI && cfg.Provider != "ollama" {
		return NewOfflineProvider(), nil
	}

	switch cfg.Provider {
	case "ollama":
		p, err := NewOllamaProvider(cfg.OllamaHost, cfg.OllamaModel, cfg.OllamaNumCtx)
		if err != nil {
			return nil, fmt.Errorf("ollama provider: %w", err)
		}
		return p, nil
	case "gemini":
		return NewGeminiProvider(cfg.GeminiKey, cfg.GeminiModel), nil
	default:
		p, err := NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("openai provider: %w", err)
		}
		return p, nil
	}
}
