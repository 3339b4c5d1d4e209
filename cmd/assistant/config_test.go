// In file: cmd/assistant/config_test.go
package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gsk_test", cfg.GroqAPIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.PrimaryModel)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GeneralModel)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.RouterConfig.Model)
	assert.Equal(t, 20, cfg.RouterConfig.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-6)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.EqualValues(t, 5, cfg.SearchResultCount)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
}

func TestLoadConfig_RequiresGroqKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("GROQ_API_KEY", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "GROQ_API_KEY")
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	yaml := `
models:
  primary: "gemini-1.5-pro"
router:
  model: "llama-3.1-8b-instant"
  max_tokens: 10
log_dir: "custom-logs"
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", cfg.PrimaryModel)
	assert.Equal(t, 10, cfg.RouterConfig.MaxTokens)
	assert.Equal(t, "custom-logs", cfg.LogDir)
	// Untouched sections keep their defaults.
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GeneralModel)
	assert.Equal(t, 4096, cfg.MaxTokens)
}

func TestBuildVersion(t *testing.T) {
	assert.Equal(t, "dev (unknown)", buildVersion())
}

func TestIsExitPhrase(t *testing.T) {
	assert.True(t, isExitPhrase("exit"))
	assert.True(t, isExitPhrase("Quit"))
	assert.True(t, isExitPhrase("BYE"))
	assert.False(t, isExitPhrase("exit now"))
	assert.False(t, isExitPhrase("hello"))
}
