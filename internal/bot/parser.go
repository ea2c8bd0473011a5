package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	COMMAND_STAT        = iota
	COMMAND_LEADERBOARD = iota
	COMMAND_HELP        = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_WRONG_INPUT            = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Option `%s` is required",
	PARSEID_WRONG_INPUT:            "Option `%s` does not have the expected type",
}

// Option names shared by the command definitions and the parser
const (
	OPTION_PLAYER    = "player"
	OPTION_STAT_TYPE = "stat-type"
	OPTION_STAT_NAME = "stat-value"
	OPTION_LIMIT     = "limit"
)

var statTypes = []string{"killed", "mined", "broken", "dropped", "crafted", "used", "killed by", "custom"}

type StatArguments struct {
	Player   string
	StatType string
	StatName string
}

type LeaderboardArguments struct {
	StatType string
	StatName string
	Limit    *int
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

// The slash commands the bot answers to
func Commands() []*discordgo.ApplicationCommand {

	statTypeOption := func() *discordgo.ApplicationCommandOption {
		option := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        OPTION_STAT_TYPE,
			Description: "The type of the stat you want",
			Required:    true,
		}
		for _, statType := range statTypes {
			option.Choices = append(option.Choices, &discordgo.ApplicationCommandOptionChoice{Name: statType, Value: statType})
		}
		return option
	}
	statNameOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        OPTION_STAT_NAME,
		Description: "The value of the stat you want (any block, item or mob, it has to make sense for the type)",
		Required:    true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "stat",
			Description: "Get one stat for a specific player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OPTION_PLAYER,
					Description: "Minecraft username of the player you want to see the stat for",
					Required:    true,
				},
				statTypeOption(),
				statNameOption,
			},
		},
		{
			Name:        "leaderboard",
			Description: "Get the leaderboard for a specific stat",
			Options: []*discordgo.ApplicationCommandOption{
				statTypeOption(),
				statNameOption,
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        OPTION_LIMIT,
					Description: "Limit the number of players on the leaderboard (default: 10, max: 25)",
					Required:    false,
				},
			},
		},
		{
			Name:        "help",
			Description: "Print the usage of the different commands",
		},
	}
}

// Turn the data of a slash command into a command and its arguments
func Parse(data discordgo.ApplicationCommandInteractionData) ParseResult {

	options := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, option := range data.Options {
		options[option.Name] = option
	}

	switch data.Name {
	case "stat":
		// /stat <player> <stat-type> <stat-value>
		var args StatArguments
		var result ParseResult
		if args.Player, result = requiredString(options, OPTION_PLAYER); result.parseid != PARSEID_OK {
			return withCommand(result, COMMAND_STAT)
		}
		if args.StatType, result = requiredString(options, OPTION_STAT_TYPE); result.parseid != PARSEID_OK {
			return withCommand(result, COMMAND_STAT)
		}
		if args.StatName, result = requiredString(options, OPTION_STAT_NAME); result.parseid != PARSEID_OK {
			return withCommand(result, COMMAND_STAT)
		}
		return ParseResult{command: COMMAND_STAT, parseid: PARSEID_OK, arguments: args}
	case "leaderboard":
		// /leaderboard <stat-type> <stat-value> [limit]
		var args LeaderboardArguments
		var result ParseResult
		if args.StatType, result = requiredString(options, OPTION_STAT_TYPE); result.parseid != PARSEID_OK {
			return withCommand(result, COMMAND_LEADERBOARD)
		}
		if args.StatName, result = requiredString(options, OPTION_STAT_NAME); result.parseid != PARSEID_OK {
			return withCommand(result, COMMAND_LEADERBOARD)
		}
		if option, ok := options[OPTION_LIMIT]; ok {
			if option.Type != discordgo.ApplicationCommandOptionInteger {
				return withCommand(wrongInput(OPTION_LIMIT), COMMAND_LEADERBOARD)
			}
			limit := int(option.IntValue())
			args.Limit = &limit
		}
		return ParseResult{command: COMMAND_LEADERBOARD, parseid: PARSEID_OK, arguments: args}
	case "help":
		// /help
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], data.Name)}
	}
}

func requiredString(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) (string, ParseResult) {

	option, ok := options[name]
	if !ok {
		parseid := PARSEID_NO_INPUT
		return "", ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], name)}
	}
	if option.Type != discordgo.ApplicationCommandOptionString {
		return "", wrongInput(name)
	}
	value := strings.TrimSpace(option.StringValue())
	if value == "" {
		parseid := PARSEID_NO_INPUT
		return "", ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], name)}
	}
	return value, ParseResult{parseid: PARSEID_OK}
}

func wrongInput(name string) ParseResult {
	parseid := PARSEID_WRONG_INPUT
	return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], name)}
}

func withCommand(result ParseResult, command int) ParseResult {
	result.command = command
	return result
}
