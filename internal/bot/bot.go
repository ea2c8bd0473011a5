package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minestats/internal/common"
	"minestats/internal/config"
	"minestats/internal/leaderboard"
	"minestats/internal/metrics"
	"minestats/internal/mojang"
	"minestats/internal/stats"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Upper bound for the work behind one slash command
const commandTimeout = 2 * time.Minute

type Identities interface {
	GetUuid(ctx context.Context, handle string) (mojang.Uuid, error)
}

type StatQuerier interface {
	FetchOne(ctx context.Context, uuid string, statType string, statName string) (stats.Entry, error)
}

type Bot struct {
	token         string
	applicationId string
	guildId       string
	identities    Identities
	stats         StatQuerier
	leaderboards  LeaderboardBuilder
	table         config.LeaderboardsTable
	ctx           context.Context
}

func NewBot(discord config.DiscordConfig, table config.LeaderboardsTable, identities Identities, stats StatQuerier, leaderboards LeaderboardBuilder) *Bot {
	return &Bot{
		token:         discord.Token,
		applicationId: discord.ApplicationID,
		guildId:       discord.GuildID,
		identities:    identities,
		stats:         stats,
		leaderboards:  leaderboards,
		table:         table,
		ctx:           context.Background(),
	}
}

// Connect to discord and serve until the context ends
func (bot *Bot) Run(ctx context.Context) error {
	bot.ctx = ctx

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds

	// Event handlers
	discord.AddHandler(bot.ready)
	discord.AddHandler(bot.Receive)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	// Leaderboards are refreshed in the background for the whole session
	scheduler := NewScheduler(bot.leaderboards, discord, bot.table)
	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Run(ctx)
	}()

	log.Info().Msg("Bot running, waiting for shutdown")
	<-ctx.Done()
	<-done
	log.Info().Msg("Closing discord session")
	return nil
}

func (bot *Bot) ready(discord *discordgo.Session, ready *discordgo.Ready) {

	log.Info().Msg(fmt.Sprintf("Connected as %s", ready.User.Username))

	applicationId := bot.applicationId
	if applicationId == "" {
		applicationId = ready.User.ID
	}
	commands, err := discord.ApplicationCommandBulkOverwrite(applicationId, bot.guildId, Commands())
	if err != nil {
		log.Error().Err(err).Msg("Could not register slash commands")
		return
	}
	log.Info().Msg(fmt.Sprintf("Registered %d slash commands", len(commands)))
}

func (bot *Bot) Receive(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {

	// Only slash commands are understood
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := interaction.ApplicationCommandData()
	log.Debug().Msg(fmt.Sprintf("Received command: %s", data.Name))

	// Looking up players and stats can take longer than discord
	// waits for an answer, so acknowledge first
	err := discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not acknowledge command %s", data.Name))
		return
	}

	ctx, cancel := context.WithTimeout(bot.ctx, commandTimeout)
	defer cancel()
	response, ok := bot.Handle(ctx, Parse(data))
	metrics.Command(data.Name, ok)

	if err := response.Send(discord, interaction.Interaction); err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not answer command %s", data.Name))
	}
}

// Run a parsed command. The boolean tells whether the command succeeded
func (bot *Bot) Handle(ctx context.Context, parseResult ParseResult) (Response, bool) {

	if parseResult.parseid != PARSEID_OK {
		log.Info().Msg(fmt.Sprintf("Wrong input. Reason: %s", parseResult.errorMessage))
		return InputNotValid(parseResult.errorMessage), false
	}

	switch parseResult.command {
	case COMMAND_STAT:
		switch args := parseResult.arguments.(type) {
		case StatArguments:
			return bot.stat(ctx, args)
		default:
			panic(fmt.Sprintf("unexpected type of stat arguments %T", args))
		}
	case COMMAND_LEADERBOARD:
		switch args := parseResult.arguments.(type) {
		case LeaderboardArguments:
			return bot.leaderboard(ctx, args)
		default:
			panic(fmt.Sprintf("unexpected type of leaderboard arguments %T", args))
		}
	case COMMAND_HELP:
		return HelpMessage(), true
	default:
		panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
	}
}

func (bot *Bot) stat(ctx context.Context, args StatArguments) (Response, bool) {

	// Get the uuid
	id, err := bot.identities.GetUuid(ctx, args.Player)
	if errors.Is(err, common.ErrNotFound) {
		log.Info().Msg(fmt.Sprintf("Player %s does not exist", args.Player))
		return PlayerNotFound(args.Player), false
	}
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not get uuid of player %s", args.Player))
		return StatError(args.Player, args.StatType, args.StatName, err), false
	}

	// Get the stat
	entry, err := bot.stats.FetchOne(ctx, string(id), args.StatType, args.StatName)
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not get %s %s of player %s", args.StatType, args.StatName, args.Player))
		return StatError(args.Player, args.StatType, args.StatName, err), false
	}

	log.Info().Msg(fmt.Sprintf("Sending %s %s of player %s", args.StatType, args.StatName, args.Player))
	return PlayerStat(args.Player, id, args.StatType, args.StatName, entry.Value), true
}

func (bot *Bot) leaderboard(ctx context.Context, args LeaderboardArguments) (Response, bool) {

	entries, err := bot.leaderboards.Build(ctx, args.StatType, args.StatName, args.Limit)
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not build leaderboard %s %s", args.StatType, args.StatName))
		return LeaderboardNotAvailable(args.StatType, args.StatName, err), false
	}

	log.Info().Msg(fmt.Sprintf("Sending leaderboard %s %s with %d players", args.StatType, args.StatName, len(entries)))
	return LeaderboardMessage(leaderboard.Render(entries, args.StatType, args.StatName)), true
}
