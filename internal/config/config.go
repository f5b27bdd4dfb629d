package config

import (
	"os"
	"strings"
	"time"

	"paperkit/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported chat providers
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
)

// Config represents the complete application configuration
type Config struct {
	Provider string `envconfig:"AI_PROVIDER" default:"deepseek" validate:"oneof=deepseek openai"`
	Model    string `envconfig:"MODEL"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO" validate:"oneof=ERROR WARN INFO DEBUG TRACE error warn info debug trace"`

	DeepSeekAPIKey    string `envconfig:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL   string `envconfig:"DEEPSEEK_BASE_URL"`
	DeepSeekModel     string `envconfig:"DEEPSEEK_MODEL"`
	DeepSeekTimeoutMS int    `envconfig:"DEEPSEEK_TIMEOUT_MS" default:"60000"`

	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel     string `envconfig:"OPENAI_MODEL"`
	OpenAITimeoutMS int    `envconfig:"OPENAI_TIMEOUT_MS" default:"60000"`

	// Per-provider views of the variables above, filled by Load
	DeepSeek ProviderConfig `ignored:"true"`
	OpenAI   ProviderConfig `ignored:"true"`
}

// ProviderConfig holds the settings of one OpenAI-compatible endpoint
type ProviderConfig struct {
	APIKey    string
	BaseURL   string `validate:"omitempty,url"`
	Model     string
	TimeoutMS int `validate:"gt=0"`
}

// AIConfig is the resolved configuration of the selected provider
type AIConfig struct {
	Provider string        `validate:"required"`
	APIKey   string        `validate:"required"`
	BaseURL  string        `validate:"required,url"`
	Model    string        `validate:"required"`
	Timeout  time.Duration `validate:"gt=0"`
}

var providerDefaults = map[string]ProviderConfig{
	ProviderDeepSeek: {BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
	ProviderOpenAI:   {BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
}

var validate = validator.New()

// LoadDotEnv loads variables from the given .env files (default ".env").
// A missing file is not an error and already-set variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "failed to load %s", f)
		}
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.DeepSeek = ProviderConfig{
		APIKey:    cfg.DeepSeekAPIKey,
		BaseURL:   cfg.DeepSeekBaseURL,
		Model:     cfg.DeepSeekModel,
		TimeoutMS: cfg.DeepSeekTimeoutMS,
	}
	cfg.OpenAI = ProviderConfig{
		APIKey:    cfg.OpenAIAPIKey,
		BaseURL:   cfg.OpenAIBaseURL,
		Model:     cfg.OpenAIModel,
		TimeoutMS: cfg.OpenAITimeoutMS,
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "configuration validation failed")
	}
	return &cfg, nil
}

// Selected returns the settings of the configured provider
func (c *Config) Selected() ProviderConfig {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI
	}
	return c.DeepSeek
}

// ResolveAI builds the AIConfig for provider (empty means the configured one),
// applying base URL / model defaults and the MODEL override.
func (c *Config) ResolveAI(provider string) (*AIConfig, error) {
	if provider == "" {
		provider = c.Provider
	}
	provider = strings.ToLower(provider)

	var pc ProviderConfig
	switch provider {
	case ProviderDeepSeek:
		pc = c.DeepSeek
	case ProviderOpenAI:
		pc = c.OpenAI
	default:
		return nil, errors.ConfigInvalid("unknown AI provider: " + provider)
	}

	if strings.TrimSpace(pc.APIKey) == "" {
		return nil, errors.ConfigMissing(strings.ToUpper(provider) + "_API_KEY")
	}

	defaults := providerDefaults[provider]
	ai := &AIConfig{
		Provider: provider,
		APIKey:   strings.TrimSpace(pc.APIKey),
		BaseURL:  firstNonEmpty(pc.BaseURL, defaults.BaseURL),
		Model:    firstNonEmpty(c.Model, pc.Model, defaults.Model),
		Timeout:  time.Duration(pc.TimeoutMS) * time.Millisecond,
	}
	if ai.Timeout <= 0 {
		ai.Timeout = 60 * time.Second
	}

	if err := validate.Struct(ai); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "AI configuration validation failed")
	}
	return ai, nil
}

// LoadAI loads .env, the environment and resolves the configured provider
func LoadAI() (*AIConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return cfg.ResolveAI("")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
