package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"minestats/internal/bot"
	"minestats/internal/common"
	"minestats/internal/config"
	"minestats/internal/leaderboard"
	"minestats/internal/metrics"
	"minestats/internal/mojang"
	"minestats/internal/stats"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {

	configPath := pflag.StringP("config", "c", "", "path to the YAML configuration file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load configuration: %s\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Upstream clients
	statsProxy := common.NewProxy("stats", nil, cfg.Stats.Timeout, cfg.Stats.Restrictions)
	mojangProxy := common.NewProxy("mojang", nil, cfg.Mojang.Timeout, cfg.Mojang.Restrictions)
	statsClient := stats.NewStats(cfg.Stats.BaseURL, statsProxy)
	mojangClient := mojang.NewMojang(cfg.Mojang.BaseURL, mojangProxy)
	pipeline := leaderboard.NewPipeline(statsClient, mojangClient)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	// Create bot
	bot := bot.NewBot(cfg.Discord, cfg.Leaderboards, mojangClient, statsClient, pipeline)

	// Run bot
	if err := bot.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Bot stopped")
	}
	log.Info().Msg("Bye")
}

func setupLogging(level string, format string) {

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Unknown log level %s, using info", level))
	}
}
