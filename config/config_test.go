package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.True(t, cfg.RequireCredential)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIAPIKey)
	assert.Equal(t, "client-id", cfg.OAuth.ClientID)
	assert.Equal(t, "token.json", cfg.OAuth.TokenFile)
	assert.True(t, cfg.OAuth.PersistToken)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "python3", cfg.Executor.Interpreter)
	assert.Equal(t, []string{"-"}, cfg.Executor.Args)
	assert.Equal(t, 5*time.Minute, cfg.Executor.Timeout)
	assert.Equal(t, "python", cfg.Executor.CodeLang)
	assert.Equal(t, "file", cfg.ExchangeStore.Backend)
	assert.Equal(t, []string{"context_primary.json", "context_mini.json", "context_turbo.json"}, cfg.ExchangeStore.Names)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
require_credential: false
llm:
  provider: gemini
  model: gemini-1.5-pro
executor:
  timeout: 30s
  interpreter: /usr/bin/python3
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.RequireCredential)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.Executor.Timeout)
	assert.Equal(t, "/usr/bin/python3", cfg.Executor.Interpreter)
	assert.Equal(t, "token.json", cfg.OAuth.TokenFile, "unset keys keep their defaults")
}

func TestLoadConfigEnvOverridesPort(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
