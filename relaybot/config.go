package relaybot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/mintcall/relaybot/internal/domain/reminders"
	"github.com/mintcall/relaybot/relaybot/config"
	"github.com/mintcall/relaybot/relaybot/database"
)

// LoadConfig reads the TOML config at path and applies environment
// overrides on top. A missing file is fine as long as the environment
// carries everything required.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("Config file not found, using environment only", slog.String("path", path))
	default:
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log       LogConfig         `toml:"log"`
	Bot       BotConfig         `toml:"bot"`
	DB        database.DBConfig `toml:"db"`
	Reminders RemindersConfig   `toml:"reminders"`
}

type BotConfig struct {
	DevGuilds           []snowflake.ID `toml:"dev_guilds"`
	Token               string         `toml:"token"`
	OriginChannel       snowflake.ID   `toml:"origin_channel"`
	DestinationChannels []snowflake.ID `toml:"destination_channels"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
	NoColor   bool       `toml:"no_color"`
}

type RemindersConfig struct {
	CheckInterval     Duration `toml:"check_interval"`
	DueWindow         Duration `toml:"due_window"`
	CleanupInterval   Duration `toml:"cleanup_interval"`
	LeadTime          Duration `toml:"lead_time"`
	FragmentCacheSize int      `toml:"fragment_cache_size"`
}

// Scheduler converts the file settings into the reminder domain config;
// unset values fall back to the defaults.
func (c RemindersConfig) Scheduler() reminders.Config {
	return reminders.Config{
		CheckInterval:   time.Duration(c.CheckInterval),
		DueWindow:       time.Duration(c.DueWindow),
		CleanupInterval: time.Duration(c.CleanupInterval),
		LeadTime:        time.Duration(c.LeadTime),
	}
}

func (c RemindersConfig) CacheSize() int {
	if c.FragmentCacheSize <= 0 {
		return config.FragmentCacheSize
	}
	return c.FragmentCacheSize
}

// Duration is a time.Duration written as "90s" or "30m" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Validate reports settings the bot cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("bot.token is required"))
	}
	if c.Bot.OriginChannel == 0 {
		errs = append(errs, errors.New("bot.origin_channel is required"))
	}
	if len(c.Bot.DestinationChannels) == 0 {
		errs = append(errs, errors.New("bot.destination_channels needs at least one channel"))
	}
	if c.DB.URL == "" && c.DB.Host == "" {
		errs = append(errs, errors.New("db.url or db.host is required"))
	}
	return errors.Join(errs...)
}

// applyEnv lets the deployment environment (or a .env file) override the
// file config. Destination channels come from ID_CANAL_DESTINO1..N.
func (c *Config) applyEnv() error {
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		c.Bot.Token = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DB.URL = v
	}
	if v := os.Getenv("ID_CANAL_ORIGEN"); v != "" {
		id, err := snowflake.Parse(v)
		if err != nil {
			return fmt.Errorf("invalid ID_CANAL_ORIGEN: %w", err)
		}
		c.Bot.OriginChannel = id
	}

	var keys []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "ID_CANAL_DESTINO") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	destinations := make([]snowflake.ID, 0, len(keys))
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		id, err := snowflake.Parse(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		destinations = append(destinations, id)
	}
	c.Bot.DestinationChannels = destinations
	return nil
}
