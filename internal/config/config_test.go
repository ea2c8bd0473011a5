package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"minestats/internal/common"
	"minestats/internal/mojang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
discord:
  token: file-token
  application_id: "1234"
stats:
  base_url: http://localhost:8000
  timeout: 3s
leaderboards:
  channel_id: "42"
  interval: 5m
  entries:
    - stat_type: mined
      stat_name: diamond ore
      message_id: "1"
    - stat_type: custom
      stat_name: jump
      message_id: "2"
      limit: 40
    - stat_type: custom
      stat_name: deaths
      message_id: "3"
      limit: 0
`)
	t.Setenv("DISCORD_TOKEN", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file-token", cfg.Discord.Token)
	assert.Equal(t, "1234", cfg.Discord.ApplicationID)
	assert.Equal(t, "http://localhost:8000", cfg.Stats.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Stats.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Leaderboards.Interval)

	// Defaults
	assert.Equal(t, mojang.DefaultBaseUrl, cfg.Mojang.BaseURL)
	assert.Equal(t, common.DefaultTimeout, cfg.Mojang.Timeout)
	assert.Equal(t, []common.Restriction{{Requests: 600, Duration: 10 * time.Minute}}, cfg.Mojang.Restrictions)

	// Limits are clamped
	require.Len(t, cfg.Leaderboards.Entries, 3)
	assert.Equal(t, 10, *cfg.Leaderboards.Entries[0].Limit)
	assert.Equal(t, 25, *cfg.Leaderboards.Entries[1].Limit)
	assert.Equal(t, 1, *cfg.Leaderboards.Entries[2].Limit)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
discord:
  token: file-token
stats:
  base_url: http://localhost:8000
`)
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("STATS_BASE_URL", "http://stats:9000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "http://stats:9000", cfg.Stats.BaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultInterval, cfg.Leaderboards.Interval)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("STATS_BASE_URL", "http://stats:9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Leaderboards.Entries)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("STATS_BASE_URL", "")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "discord: [",
			wantErr: "parsing config file",
		},
		{
			name:    "missing token",
			content: "stats: {base_url: http://localhost}",
			wantErr: "missing discord token",
		},
		{
			name:    "missing stats url",
			content: "discord: {token: t}",
			wantErr: "missing stats service url",
		},
		{
			name: "missing channel",
			content: `
discord: {token: t}
stats: {base_url: http://localhost}
leaderboards:
  entries:
    - {stat_type: mined, stat_name: stone, message_id: "1"}
`,
			wantErr: "channel_id is empty",
		},
		{
			name: "missing message",
			content: `
discord: {token: t}
stats: {base_url: http://localhost}
leaderboards:
  channel_id: "9"
  entries:
    - {stat_type: mined, stat_name: stone}
`,
			wantErr: "message_id is required",
		},
		{
			name: "bad restriction",
			content: `
discord: {token: t}
stats: {base_url: http://localhost}
mojang:
  restrictions:
    - {requests: 0, duration: 1m}
`,
			wantErr: "mojang restriction",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "reading config file")
}
