package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openrouter", c.SummaryProvider)
	assert.False(t, c.SummaryEnabled)
	assert.True(t, c.ChartsEnabled)
	assert.Equal(t, 60, c.HTTPTimeoutSec)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), DirName, "history"), c.HistoryFile)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(&Global{SummaryModel: "from-file", ChartsDir: "out", RetryMaxAttempts: 5}, path))
	t.Setenv("AUTOEDA_SUMMARY_MODEL", "from-env")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.SummaryModel)
	assert.Equal(t, "out", c.ChartsDir)
	assert.Equal(t, 5, c.RetryMaxAttempts)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("OPENROUTER_API_KEY", "")
	c := &Global{}
	assert.Equal(t, "sk-openai", c.ResolveAPIKey("openai"))
	assert.Equal(t, "", c.ResolveAPIKey("openrouter"))
	assert.Equal(t, "", c.ResolveAPIKey("ollama"))

	c.APIKey = "configured"
	assert.Equal(t, "configured", c.ResolveAPIKey("openai"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AUTOEDA_TEST_DOTENV=hello\n"), 0o644))
	t.Setenv("AUTOEDA_TEST_DOTENV", "")
	os.Unsetenv("AUTOEDA_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("AUTOEDA_TEST_DOTENV"))
	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
