package bot

import (
	"context"
	"fmt"
	"time"

	"minestats/internal/config"
	"minestats/internal/leaderboard"
	"minestats/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// The part of a discord session used to overwrite existing messages
type Surface interface {
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type LeaderboardBuilder interface {
	Build(ctx context.Context, statType string, statName string, limit *int) ([]leaderboard.Entry, error)
}

// Keeps a fixed set of leaderboard messages up to date
type Scheduler struct {
	builder      LeaderboardBuilder
	surface      Surface
	channelId    string
	interval     time.Duration
	leaderboards []config.Leaderboard
	now          func() time.Time
}

func NewScheduler(builder LeaderboardBuilder, surface Surface, table config.LeaderboardsTable) *Scheduler {
	interval := table.Interval
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	leaderboards := make([]config.Leaderboard, len(table.Entries))
	copy(leaderboards, table.Entries)
	return &Scheduler{
		builder:      builder,
		surface:      surface,
		channelId:    table.ChannelID,
		interval:     interval,
		leaderboards: leaderboards,
		now:          time.Now,
	}
}

// Refresh every leaderboard now and then once per interval, until the context ends.
// A pass over the leaderboards always finishes before the next one starts
func (scheduler *Scheduler) Run(ctx context.Context) {

	if len(scheduler.leaderboards) == 0 {
		log.Info().Msg("No leaderboards configured, scheduler not started")
		return
	}
	log.Info().Msg(fmt.Sprintf("Refreshing %d leaderboards every %s", len(scheduler.leaderboards), scheduler.interval))

	ticker := time.NewTicker(scheduler.interval)
	defer ticker.Stop()

	scheduler.RefreshAll(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopped")
			return
		case <-ticker.C:
			scheduler.RefreshAll(ctx)
		}
	}
}

// Refresh every leaderboard once and return how many failed.
// One failure does not stop the others
func (scheduler *Scheduler) RefreshAll(ctx context.Context) int {

	failed := 0
	for _, board := range scheduler.leaderboards {
		if ctx.Err() != nil {
			return failed
		}
		if err := scheduler.refresh(ctx, board); err != nil {
			failed++
			metrics.LeaderboardRefresh(false)
			log.Error().Err(err).Str("message", board.MessageID).Msg(fmt.Sprintf("Could not refresh leaderboard %s %s", board.StatType, board.StatName))
			continue
		}
		metrics.LeaderboardRefresh(true)
	}
	log.Debug().Msg(fmt.Sprintf("Refreshed %d of %d leaderboards", len(scheduler.leaderboards)-failed, len(scheduler.leaderboards)))
	return failed
}

func (scheduler *Scheduler) refresh(ctx context.Context, board config.Leaderboard) error {

	entries, err := scheduler.builder.Build(ctx, board.StatType, board.StatName, board.Limit)
	if err != nil {
		return err
	}

	table := leaderboard.Render(entries, board.StatType, board.StatName)
	content := ""
	edit := &discordgo.MessageEdit{
		ID:      board.MessageID,
		Channel: scheduler.channelId,
		Content: &content,
		Embeds:  &[]*discordgo.MessageEmbed{LeaderboardEmbed(table, scheduler.now())},
	}
	if _, err := scheduler.surface.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("could not edit message %s: %w", board.MessageID, err)
	}
	return nil
}
