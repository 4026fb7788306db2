package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "data/satire.db", cfg.Database.Path)
	assert.NotEmpty(t, cfg.Encryption.Key)
	assert.NotEmpty(t, cfg.News.Feeds)
	assert.Equal(t, 5, cfg.News.MaxArticles)
	assert.Equal(t, "https://api.twitter.com", cfg.Twitter.ApiBaseURL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "8080"
  mode: release
database:
  path: /tmp/test.db
encryption:
  key: my-secret-key
news:
  feeds:
    - https://example.com/rss
  max_articles: 3
llm:
  api_url: https://llm.example.com/v1
  model: test-model
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "my-secret-key", cfg.Encryption.Key)
	assert.Equal(t, []string{"https://example.com/rss"}, cfg.News.Feeds)
	assert.Equal(t, 3, cfg.News.MaxArticles)
	assert.Equal(t, "test-model", cfg.LLM.Model)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENCRYPTION_KEY", "env-key")
	t.Setenv("LLM_API_KEY", "env-llm-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Encryption.Key)
	assert.Equal(t, "env-llm-key", cfg.LLM.ApiKey)
}

func TestGetServerAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: "8080"}}
	assert.Equal(t, ":8080", cfg.GetServerAddress())

	cfg.Server.Port = "0.0.0.0:8080"
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
}
