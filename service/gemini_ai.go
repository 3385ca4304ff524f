package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tieubaoca/doc2cal/types"
)

const defaultGeminiModel = "gemini-1.5-flash"

type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiService(ctx context.Context, apiKey, modelName string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Chat sends the last message with everything before it as history. System
// messages become the model's system instruction.
func (s *GeminiService) Chat(ctx context.Context, messages []types.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}
	var system []genai.Part
	history := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages[:len(messages)-1] {
		if msg.Role == types.RoleSystem {
			system = append(system, genai.Text(msg.Content))
			continue
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Content)},
			Role:  geminiRole(msg.Role),
		})
	}

	// Each call configures its own copy so concurrent sessions don't share a system instruction.
	model := *s.model
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}
	chat := model.StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, genai.Text(messages[len(messages)-1].Content))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var content strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content.WriteString(string(text))
				}
			}
		}
	}
	return content.String(), nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

func geminiRole(role string) string {
	if role == types.RoleAssistant {
		return "model"
	}
	return "user"
}
