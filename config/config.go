package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string              `mapstructure:"port"`
	UploadDir         string              `mapstructure:"upload_dir"`
	MaxUploadMB       int64               `mapstructure:"max_upload_mb"`
	RequireCredential bool                `mapstructure:"require_credential"`
	SessionSecret     string              `mapstructure:"SESSION_SECRET"`
	SessionTTL        time.Duration       `mapstructure:"session_ttl"`
	LLM               LLMConfig           `mapstructure:"llm"`
	OAuth             OAuthConfig         `mapstructure:"oauth"`
	OCR               OCRConfig           `mapstructure:"ocr"`
	Executor          ExecutorConfig      `mapstructure:"executor"`
	ExchangeStore     ExchangeStoreConfig `mapstructure:"exchange_store"`
	Prompt            PromptConfig        `mapstructure:"prompt"`
	Log               LogConfig           `mapstructure:"log"`
}

type LLMConfig struct {
	Provider     string `mapstructure:"provider"` // "openai" or "gemini"
	AIEndpoint   string `mapstructure:"ai_endpoint"`
	Model        string `mapstructure:"model"`
	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
}

type OAuthConfig struct {
	ClientID     string   `mapstructure:"GOOGLE_CLIENT_ID"`
	ClientSecret string   `mapstructure:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
	TokenFile    string   `mapstructure:"token_file"`
	PersistToken bool     `mapstructure:"persist_token"`
}

type OCRConfig struct {
	DPI      int    `mapstructure:"dpi"`
	Language string `mapstructure:"language"`
	TempDir  string `mapstructure:"temp_dir"`
}

type ExecutorConfig struct {
	Interpreter string        `mapstructure:"interpreter"`
	Args        []string      `mapstructure:"args"`
	WorkDir     string        `mapstructure:"workdir"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CodeLang    string        `mapstructure:"code_lang"`
}

type ExchangeStoreConfig struct {
	Backend  string   `mapstructure:"backend"` // "file" or "mongo"
	Dir      string   `mapstructure:"dir"`
	Names    []string `mapstructure:"names"`
	MongoURI string   `mapstructure:"MONGODB_URI"`
	MongoDB  string   `mapstructure:"mongo_database"`
}

type PromptConfig struct {
	AllowedDependencies []string `mapstructure:"allowed_dependencies"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("require_credential", true)
	v.SetDefault("SESSION_SECRET", "dev_secret_key")
	v.SetDefault("session_ttl", 24*time.Hour)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.ai_endpoint", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o")

	v.SetDefault("oauth.redirect_url", "http://localhost:5000/oauth2callback")
	v.SetDefault("oauth.scopes", []string{"https://www.googleapis.com/auth/calendar"})
	v.SetDefault("oauth.token_file", "token.json")
	v.SetDefault("oauth.persist_token", true)

	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.temp_dir", "temp")

	v.SetDefault("executor.interpreter", "python3")
	v.SetDefault("executor.args", []string{"-"})
	v.SetDefault("executor.workdir", ".")
	v.SetDefault("executor.timeout", 5*time.Minute)
	v.SetDefault("executor.code_lang", "python")

	v.SetDefault("exchange_store.backend", "file")
	v.SetDefault("exchange_store.dir", ".")
	v.SetDefault("exchange_store.names", []string{"context_primary.json", "context_mini.json", "context_turbo.json"})
	v.SetDefault("exchange_store.mongo_database", "doc2cal")

	v.SetDefault("log.file", "logs/doc2cal.log")
	v.SetDefault("log.level", "info")
}

// LoadConfig reads the YAML file at configPath (optional) and overlays the environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Secrets only come from the environment
	v.BindEnv("SESSION_SECRET")
	v.BindEnv("llm.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("oauth.GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID")
	v.BindEnv("oauth.GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET")
	v.BindEnv("exchange_store.MONGODB_URI", "MONGODB_URI")
	v.BindEnv("port", "PORT")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
