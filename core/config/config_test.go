package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRequiresToken(t *testing.T) {
	err := Normalize(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: " abc ", RunMode: "polling"},
		Metrics:   MetricsConfig{Listen: ":9090"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback "}},
	}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, "abc", cfg.Telegram.Token)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, []string{UpdateCallback}, cfg.RateLimit.ExcludeUpdates)
}

func TestNormalizeWebhookNeedsListener(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "abc", RunMode: RunModeWebhook}, Webhook: WebhookConfig{URL: "https://example.org"}}
	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.listen")
}

func TestNormalizeRejectsUnknownExclusion(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "abc"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline"}}}
	require.Error(t, Normalize(cfg))
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telegram:\n  token: from-file\n  admin_id: 7\nlogging:\n  level: debug\n"), 0o600))
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.EqualValues(t, 7, cfg.Telegram.AdminID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-only")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.Telegram.Token)
}
