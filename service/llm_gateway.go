package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// LLMGateway asks a conversation for a reply and collapses every failure
// into "no reply".
type LLMGateway struct {
	logger *zap.Logger
}

func NewLLMGateway(logger *zap.Logger) *LLMGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMGateway{logger: logger.With(zap.String("module", "llm"))}
}

func (g *LLMGateway) Ask(ctx context.Context, conv *Conversation, prompt string, persist bool) (string, bool) {
	g.logger.Info("Sending prompt", zap.Int("length", len(prompt)), zap.Bool("persist", persist))
	response, err := conv.AppendAndQuery(ctx, prompt, persist)
	if err != nil {
		g.logger.Error("Error during LLM call", zap.Error(err))
		return "", false
	}
	response = strings.TrimSpace(response)
	if response == "" {
		g.logger.Warn("LLM returned an empty response")
		return "", false
	}
	return response, true
}
