package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tieubaoca/doc2cal/config"
	"github.com/tieubaoca/doc2cal/types"
)

var ErrEmptyResponse = errors.New("no response generated")

// AIService answers a chat given the full ordered history, system message included.
type AIService interface {
	Chat(ctx context.Context, messages []types.Message) (string, error)
}

// NewAIService builds the client selected by llm.provider.
func NewAIService(ctx context.Context, cfg config.LLMConfig) (AIService, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		return NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model), nil
	case "gemini":
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
