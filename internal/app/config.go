package app

import (
	"fmt"
	"strconv"
	"strings"

	coreconfig "github.com/itcenter/coursebot/core/config"
	"github.com/itcenter/coursebot/core/database"
	"github.com/itcenter/coursebot/internal/store/firestore"
	"github.com/itcenter/coursebot/internal/validation"
)

const (
	// DriverFirestore keeps records in Cloud Firestore.
	DriverFirestore = "firestore"
	// DriverPostgres keeps records in PostgreSQL.
	DriverPostgres = "postgres"

	defaultCredentialsFile = "service-account.json"
)

// BotConfig holds the identities the bot talks to.
type BotConfig struct {
	// OperatorChatID receives a message for every finished registration.
	OperatorChatID int64 `yaml:"operator_chat_id" envconfig:"ADMIN_CHAT_ID"`
	// RequiredChannel enables the subscription gate when set.
	RequiredChannel string `yaml:"required_channel" envconfig:"REQUIRED_CHANNEL"`
	ChannelURL      string `yaml:"channel_url" envconfig:"CHANNEL_URL"`
	CountryPrefix   string `yaml:"country_prefix" envconfig:"COUNTRY_PREFIX"`
	// BroadcastProgressEvery is the number of deliveries between progress edits.
	BroadcastProgressEvery int `yaml:"broadcast_progress_every" envconfig:"BROADCAST_PROGRESS_EVERY"`
}

// StoreConfig selects and configures the storage driver.
type StoreConfig struct {
	Driver    string           `yaml:"driver" envconfig:"STORE_DRIVER"`
	Firestore firestore.Config `yaml:"firestore"`
	Postgres  database.Config  `yaml:"postgres"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Bot   BotConfig   `yaml:"bot"`
	Store StoreConfig `yaml:"store"`
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// LoadConfig reads path (optional), .env and the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills defaults.
func Normalize(cfg *Config) error {
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	b := &cfg.Bot
	if b.OperatorChatID == 0 {
		return fmt.Errorf("bot.operator_chat_id (ADMIN_CHAT_ID) is required")
	}
	if cfg.Telegram.AdminID == 0 {
		cfg.Telegram.AdminID = b.OperatorChatID
	}
	b.CountryPrefix = strings.TrimPrefix(strings.TrimSpace(b.CountryPrefix), "+")
	if b.CountryPrefix == "" {
		b.CountryPrefix = validation.DefaultCountryPrefix
	}
	if _, err := strconv.ParseUint(b.CountryPrefix, 10, 32); err != nil {
		return fmt.Errorf("invalid bot.country_prefix %q", b.CountryPrefix)
	}
	if b.BroadcastProgressEvery < 0 {
		return fmt.Errorf("bot.broadcast_progress_every must be >= 0")
	}

	b.RequiredChannel = normalizeChannel(b.RequiredChannel)
	if b.RequiredChannel != "" && strings.TrimSpace(b.ChannelURL) == "" && strings.HasPrefix(b.RequiredChannel, "@") {
		b.ChannelURL = "https://t.me/" + strings.TrimPrefix(b.RequiredChannel, "@")
	}

	s := &cfg.Store
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.Driver == "" {
		s.Driver = DriverFirestore
	}
	switch s.Driver {
	case DriverFirestore:
		if s.Firestore.CredentialsFile == "" {
			s.Firestore.CredentialsFile = defaultCredentialsFile
		}
	case DriverPostgres:
		if err := s.Postgres.Validate(); err != nil {
			return fmt.Errorf("store.postgres: %w", err)
		}
	default:
		return fmt.Errorf("invalid store.driver %q; allowed: firestore, postgres", s.Driver)
	}
	return nil
}

// normalizeChannel accepts "name", "@name" or a numeric chat id.
func normalizeChannel(raw string) string {
	ch := strings.TrimSpace(raw)
	ch = strings.TrimPrefix(ch, "https://t.me/")
	if ch == "" || strings.HasPrefix(ch, "@") {
		return ch
	}
	if _, err := strconv.ParseInt(ch, 10, 64); err == nil {
		return ch
	}
	return "@" + ch
}
