package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "gemini", cfg.Gemini.Backend)
	assert.Equal(t, 3, cfg.Blog.Limit)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Strict)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("BLOG_FEED_URL", "https://example.com/rss.xml")
	t.Setenv("BLOG_FEED_LIMIT", "5")
	t.Setenv("KAIWA_STRICT", "true")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.Gemini.APIKey)
	assert.Equal(t, "https://example.com/rss.xml", cfg.Blog.FeedURL)
	assert.Equal(t, 5, cfg.Blog.Limit)
	assert.True(t, cfg.Strict)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REPLY_URL=http://from-file/api/chat\nGEMINI_MODEL=from-file\n"), 0o600))
	t.Setenv("GEMINI_MODEL", "from-env")
	t.Cleanup(func() { os.Unsetenv("REPLY_URL") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file/api/chat", cfg.ReplyURL)
	assert.Equal(t, "from-env", cfg.Gemini.Model)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT-A-KEY=1\nQUOTED=\"unterminated\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to load")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"backend", "GEMINI_BACKEND", "openai"},
		{"limit", "BLOG_FEED_LIMIT", "-1"},
		{"limit not a number", "BLOG_FEED_LIMIT", "many"},
		{"format", "LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestLogConfig_Handler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(LogConfig{Level: "warn", Format: "json"}.Handler(&buf))

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "chatty"}.SlogLevel())
}
