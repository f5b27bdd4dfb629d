package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"paperkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearAIEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearAIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AI_PROVIDER", "MODEL", "LOG_LEVEL",
		"DEEPSEEK_API_KEY", "DEEPSEEK_BASE_URL", "DEEPSEEK_MODEL", "DEEPSEEK_TIMEOUT_MS",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_TIMEOUT_MS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestResolveAI_MissingKeyIsConfigMissing(t *testing.T) {
	clearAIEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.ResolveAI("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigMissing))
	assert.Equal(t, "DEEPSEEK_API_KEY is required", err.Error())

	_, err = cfg.ResolveAI("openai")
	assert.EqualError(t, err, "OPENAI_API_KEY is required")
}

func TestResolveAI_DefaultsPerProvider(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("DEEPSEEK_API_KEY", "ds-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderDeepSeek, cfg.Provider)

	ds, err := cfg.ResolveAI("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.deepseek.com/v1", ds.BaseURL)
	assert.Equal(t, "deepseek-chat", ds.Model)
	assert.Equal(t, 60*time.Second, ds.Timeout)

	oa, err := cfg.ResolveAI("OpenAI")
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1", oa.BaseURL)
	assert.Equal(t, "gpt-4o-mini", oa.Model)
	assert.Equal(t, "oa-key", oa.APIKey)
}

func TestResolveAI_ModelOverrideWins(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_TIMEOUT_MS", "1500")
	t.Setenv("MODEL", "o3-mini")

	cfg, err := Load()
	require.NoError(t, err)

	ai, err := cfg.ResolveAI("")
	require.NoError(t, err)
	assert.Equal(t, "o3-mini", ai.Model)
	assert.Equal(t, 1500*time.Millisecond, ai.Timeout)
	assert.Equal(t, cfg.OpenAI, cfg.Selected())
}

func TestLoad_UnprefixedNamesDoNotFillProviders(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("API_KEY", "stray")
	t.Setenv("BASE_URL", "https://example.invalid")
	t.Setenv("TIMEOUT_MS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DeepSeek.APIKey)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Empty(t, cfg.DeepSeek.BaseURL)
	assert.Equal(t, 60000, cfg.OpenAI.TimeoutMS)

	_, err = cfg.ResolveAI("")
	assert.True(t, errors.Is(err, errors.CodeConfigMissing))
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("AI_PROVIDER", "anthropic")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigInvalid))
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	clearAIEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEEPSEEK_API_KEY=from-file\nDEEPSEEK_MODEL=from-file\n"), 0o600))
	t.Setenv("DEEPSEEK_MODEL", "from-env")

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { os.Unsetenv("DEEPSEEK_API_KEY") })

	assert.Equal(t, "from-file", os.Getenv("DEEPSEEK_API_KEY"))
	assert.Equal(t, "from-env", os.Getenv("DEEPSEEK_MODEL"))
}
