package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"minestats/internal/common"
	"minestats/internal/leaderboard"
	"minestats/internal/mojang"

	"gopkg.in/yaml.v3"
)

const DefaultInterval = 10 * time.Minute

// Config holds the application configuration
type Config struct {
	LogLevel     string            `yaml:"log_level"`
	LogFormat    string            `yaml:"log_format"`
	MetricsAddr  string            `yaml:"metrics_addr"`
	Discord      DiscordConfig     `yaml:"discord"`
	Stats        UpstreamConfig    `yaml:"stats"`
	Mojang       UpstreamConfig    `yaml:"mojang"`
	Leaderboards LeaderboardsTable `yaml:"leaderboards"`
}

// DiscordConfig holds the bot credentials
type DiscordConfig struct {
	Token         string `yaml:"token"`
	ApplicationID string `yaml:"application_id"`
	// Register the commands in this guild only, instead of globally
	GuildID string `yaml:"guild_id"`
}

// UpstreamConfig describes one HTTP service the bot consumes
type UpstreamConfig struct {
	BaseURL      string               `yaml:"base_url"`
	Timeout      time.Duration        `yaml:"timeout"`
	Restrictions []common.Restriction `yaml:"restrictions"`
}

// LeaderboardsTable lists the messages refreshed on every tick
type LeaderboardsTable struct {
	ChannelID string        `yaml:"channel_id"`
	Interval  time.Duration `yaml:"interval"`
	Entries   []Leaderboard `yaml:"entries"`
}

// Leaderboard is one message kept up to date with the ranking of a stat
type Leaderboard struct {
	StatType  string `yaml:"stat_type"`
	StatName  string `yaml:"stat_name"`
	MessageID string `yaml:"message_id"`
	Limit     *int   `yaml:"limit"`
}

// Load reads configuration from a YAML file, then applies the environment
// overrides and the defaults. An empty path skips the file
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Environment wins over the file, secrets usually live there
	cfg.Discord.Token = getEnv("DISCORD_TOKEN", cfg.Discord.Token)
	cfg.Discord.ApplicationID = getEnv("DISCORD_APPLICATION_ID", cfg.Discord.ApplicationID)
	cfg.Stats.BaseURL = getEnv("STATS_BASE_URL", cfg.Stats.BaseURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	// Set defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.Stats.Timeout == 0 {
		cfg.Stats.Timeout = common.DefaultTimeout
	}
	if cfg.Mojang.BaseURL == "" {
		cfg.Mojang.BaseURL = mojang.DefaultBaseUrl
	}
	if cfg.Mojang.Timeout == 0 {
		cfg.Mojang.Timeout = common.DefaultTimeout
	}
	if cfg.Mojang.Restrictions == nil {
		cfg.Mojang.Restrictions = []common.Restriction{{Requests: 600, Duration: 10 * time.Minute}}
	}
	if cfg.Leaderboards.Interval == 0 {
		cfg.Leaderboards.Interval = DefaultInterval
	}

	// Limits enter the system here, so they get clamped here
	for i := range cfg.Leaderboards.Entries {
		limit := leaderboard.ClampLimit(cfg.Leaderboards.Entries[i].Limit)
		cfg.Leaderboards.Entries[i].Limit = &limit
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting the bot cannot run without
func (cfg *Config) Validate() error {
	if cfg.Discord.Token == "" {
		return fmt.Errorf("missing discord token: set discord.token or DISCORD_TOKEN")
	}
	if cfg.Stats.BaseURL == "" {
		return fmt.Errorf("missing stats service url: set stats.base_url or STATS_BASE_URL")
	}
	if cfg.Leaderboards.Interval < 0 {
		return fmt.Errorf("leaderboards interval must be positive, got %s", cfg.Leaderboards.Interval)
	}
	if len(cfg.Leaderboards.Entries) > 0 && cfg.Leaderboards.ChannelID == "" {
		return fmt.Errorf("leaderboards are configured but leaderboards.channel_id is empty")
	}
	for i, entry := range cfg.Leaderboards.Entries {
		if strings.TrimSpace(entry.StatType) == "" || strings.TrimSpace(entry.StatName) == "" {
			return fmt.Errorf("leaderboard %d: stat_type and stat_name are required", i)
		}
		if entry.MessageID == "" {
			return fmt.Errorf("leaderboard %d (%s %s): message_id is required", i, entry.StatType, entry.StatName)
		}
	}
	for _, restriction := range cfg.Mojang.Restrictions {
		if restriction.Requests <= 0 || restriction.Duration <= 0 {
			return fmt.Errorf("mojang restriction needs positive requests and duration, got %d per %s", restriction.Requests, restriction.Duration)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
