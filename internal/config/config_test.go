package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "PORT", "BIOMIXER_DB", "BIOMIXER_SERVER"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /tmp/x.db
server:
  addr: ":9000"
upstream:
  default_model: claude-opus-4-6
  max_tokens: 4000
  timeout: 30s
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "dist", cfg.Server.StaticDir, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)

	gw := cfg.Gateway()
	assert.Equal(t, "claude-opus-4-6", gw.DefaultModel)
	assert.Equal(t, 4000, gw.MaxTokens)
	assert.Equal(t, 12000, gw.ThinkingBudget)
	assert.Equal(t, 30*time.Second, gw.Timeout)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")
	t.Setenv("ANTHROPIC_BASE_URL", "http://localhost:1234")
	t.Setenv("PORT", "8081")
	t.Setenv("BIOMIXER_DB", "/data/b.db")
	t.Setenv("BIOMIXER_SERVER", "http://mixer.local")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "ant-key", cfg.Gateway().APIKey)
	assert.Equal(t, "http://localhost:1234", cfg.Upstream.BaseURL)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, "/data/b.db", cfg.DBPath)
	assert.Equal(t, "http://mixer.local", cfg.Client.ServerURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	for name, body := range map[string]string{
		"bad yaml":    "server: [",
		"bad timeout": "upstream:\n  timeout: soon\n",
		"bad model":   "upstream:\n  default_model: gpt-nothing\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveOmitsAPIKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Upstream.APIKey = "secret"
	cfg.Server.Addr = ":7000"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", loaded.Server.Addr)
	assert.Equal(t, "secret", cfg.Upstream.APIKey, "Save leaves the receiver intact")
}
