package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: ":9090"
db:
  host: "dbhost"
  port: 5433
  user: "u"
  password: "p"
  name: "n"
jwt:
  secret: "s3cret"
llm:
  endpoint: "https://example.test/v1/chat/completions"
  api_key: "key"
  model: "test-model"
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "dbhost", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "test-model", cfg.LLM.Model)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 500, cfg.LLM.RetryDelayMS)
	assert.Equal(t, 5, cfg.SignupLimit.Max)
	assert.Equal(t, 3600, cfg.SignupLimit.WindowSeconds)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LLM_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "envhost", cfg.DB.Host)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
