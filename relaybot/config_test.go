package relaybot

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintcall/relaybot/relaybot/config"
)

const sampleConfig = `
[log]
level = "DEBUG"

[bot]
token = "file-token"
origin_channel = 100
destination_channels = [200, 300]

[db]
host = "db"
database = "relaybot"

[reminders]
check_interval = "90s"
due_window = "15m"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DISCORD_BOT_TOKEN", "DATABASE_URL", "ID_CANAL_ORIGEN"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "file-token", cfg.Bot.Token)
	assert.Equal(t, snowflake.ID(100), cfg.Bot.OriginChannel)
	assert.Equal(t, []snowflake.ID{200, 300}, cfg.Bot.DestinationChannels)

	sched := cfg.Reminders.Scheduler()
	assert.Equal(t, 90*time.Second, sched.CheckInterval)
	assert.Equal(t, 15*time.Minute, sched.DueWindow)
	assert.Zero(t, sched.CleanupInterval)
	assert.Equal(t, config.FragmentCacheSize, cfg.Reminders.CacheSize())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "env-token")
	t.Setenv("DATABASE_URL", "postgres://u:p@h/db")
	t.Setenv("ID_CANAL_ORIGEN", "555")
	t.Setenv("ID_CANAL_DESTINO2", "702")
	t.Setenv("ID_CANAL_DESTINO1", "701")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Bot.Token)
	assert.Equal(t, "postgres://u:p@h/db", cfg.DB.ConnString())
	assert.Equal(t, snowflake.ID(555), cfg.Bot.OriginChannel)
	assert.Equal(t, []snowflake.ID{701, 702}, cfg.Bot.DestinationChannels)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "env-token")
	t.Setenv("DATABASE_URL", "postgres://u:p@h/db")
	t.Setenv("ID_CANAL_ORIGEN", "1")
	t.Setenv("ID_CANAL_DESTINO1", "2")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{2}, cfg.Bot.DestinationChannels)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "nothing set", content: ""},
		{name: "bad duration", content: sampleConfig + "\ncleanup_interval = \"soon\"\n"},
		{name: "bad origin env", content: sampleConfig, env: map[string]string{"ID_CANAL_ORIGEN": "abc"}},
		{name: "bad destination env", content: sampleConfig, env: map[string]string{"ID_CANAL_DESTINO1": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
