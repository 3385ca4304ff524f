package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/doc2cal/config"
	"github.com/tieubaoca/doc2cal/types"
)

func TestOpenAIServiceChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) && assert.Len(t, body.Messages, 4) {
			assert.Equal(t, "gpt-4o", body.Model)
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, "user", body.Messages[1].Role)
			assert.Equal(t, "assistant", body.Messages[2].Role)
			assert.Equal(t, "again", body.Messages[3].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hi there"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	svc := NewOpenAIService(srv.URL+"/v1", "test-key", "")
	reply, err := svc.Chat(context.Background(), []types.Message{
		{Role: types.RoleSystem, Content: SystemPrompt},
		{Role: types.RoleUser, Content: "hello"},
		{Role: types.RoleAssistant, Content: "hey"},
		{Role: types.RoleUser, Content: "again"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestOpenAIServiceNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIService(srv.URL+"/v1", "k", "gpt-4o").Chat(context.Background(), []types.Message{{Role: types.RoleUser, Content: "x"}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewAIServiceSelection(t *testing.T) {
	_, err := NewAIService(context.Background(), llmConfig("openai", "", ""))
	assert.Error(t, err, "missing key")

	ai, err := NewAIService(context.Background(), llmConfig("", "k", ""))
	require.NoError(t, err)
	assert.IsType(t, &OpenAIService{}, ai)

	_, err = NewAIService(context.Background(), llmConfig("gemini", "", ""))
	assert.Error(t, err, "missing gemini key")

	_, err = NewAIService(context.Background(), llmConfig("claude", "k", "k"))
	assert.Error(t, err)
}

func llmConfig(provider, openaiKey, geminiKey string) config.LLMConfig {
	return config.LLMConfig{
		Provider:     provider,
		OpenAIAPIKey: openaiKey,
		GeminiAPIKey: geminiKey,
	}
}
