package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv unsets the keys for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BOT_TOKEN", "TELEGRAM_BOT_TOKEN", "ADMIN_CHAT_ID", "TELEGRAM_ADMIN_ID",
		"REQUIRED_CHANNEL", "CHANNEL_URL", "COUNTRY_PREFIX", "STORE_DRIVER", "GOOGLE_APPLICATION_CREDENTIALS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "-1001")

	cfg, err := LoadConfig(writeConfig(t, "bot:\n  required_channel: itcenter\n"))
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(-1001), cfg.Bot.OperatorChatID)
	assert.Equal(t, int64(-1001), cfg.Telegram.AdminID)
	assert.Equal(t, "998", cfg.Bot.CountryPrefix)
	assert.Equal(t, "@itcenter", cfg.Bot.RequiredChannel)
	assert.Equal(t, "https://t.me/itcenter", cfg.Bot.ChannelURL)
	assert.Equal(t, DriverFirestore, cfg.Store.Driver)
	assert.Equal(t, "service-account.json", cfg.Store.Firestore.CredentialsFile)
	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadConfigYAMLValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram:
  token: "1:yaml"
  admin_id: 42
bot:
  operator_chat_id: 500
  country_prefix: "+7"
store:
  driver: Postgres
  postgres:
    host: localhost
    name: courses
    user: bot
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, "7", cfg.Bot.CountryPrefix)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Empty(t, cfg.Bot.RequiredChannel)
	assert.Empty(t, cfg.Bot.ChannelURL)
}

func TestNormalizeRejects(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"missing token":    "bot:\n  operator_chat_id: 1\n",
		"missing operator": "telegram:\n  token: x\n",
		"bad driver":       "telegram:\n  token: x\nbot:\n  operator_chat_id: 1\nstore:\n  driver: mongo\n",
		"postgres no host": "telegram:\n  token: x\nbot:\n  operator_chat_id: 1\nstore:\n  driver: postgres\n",
		"bad prefix":       "telegram:\n  token: x\nbot:\n  operator_chat_id: 1\n  country_prefix: uz\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestNormalizeChannel(t *testing.T) {
	assert.Equal(t, "", normalizeChannel("  "))
	assert.Equal(t, "@itcenter", normalizeChannel("itcenter"))
	assert.Equal(t, "@itcenter", normalizeChannel("@itcenter"))
	assert.Equal(t, "@itcenter", normalizeChannel("https://t.me/itcenter"))
	assert.Equal(t, "-1001234", normalizeChannel("-1001234"))
}
