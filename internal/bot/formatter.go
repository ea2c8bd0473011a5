package bot

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"minestats/internal/common"
	"minestats/internal/leaderboard"
	"minestats/internal/mojang"

	"github.com/bwmarrin/discordgo"
)

// Use "grass green" color for the bot
const color int = 0x5d9e3a

// Label of the single field of a leaderboard embed
const LEADERBOARD_FIELD = "Leaderboard"

const AVATAR_URL = "https://crafatar.com/avatars/%s?overlay"

func InputNotValid(errorMessage string) Response {
	return ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}
}

func HelpMessage() Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`/stat <player> <stat-type> <stat-value>`",
		Value:  "Print one stat of a player, for example `/stat Elzapat mined diamond ore`",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`/leaderboard <stat-type> <stat-value> [limit]`",
		Value:  "Print the best players for a stat. The limit defaults to 10 and goes up to 25",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`/help`",
		Value:  "Print the usage of the different commands",
		Inline: false,
	})
	return ResponseEmbed{embed}
}

func PlayerNotFound(player string) Response {
	return ResponseString{fmt.Sprintf("Error: the username `%s` doesn't exist", mojang.EscapeDisplayName(player))}
}

func NoResponseStats(err error) Response {
	return ResponseString{fmt.Sprintf("Error: %s", err)}
}

func StatNotAvailable(player string, statType string, statName string, err error) Response {
	return ResponseString{fmt.Sprintf("Error: no `%s` stat for `%s`: %s",
		leaderboard.Title(statType, statName), mojang.EscapeDisplayName(player), err)}
}

// Choose the message for a failed /stat depending on what went wrong
func StatError(player string, statType string, statName string, err error) Response {
	switch {
	case errors.Is(err, common.ErrValidation):
		return InputNotValid(err.Error())
	case errors.Is(err, common.ErrNotFound):
		return StatNotAvailable(player, statType, statName, err)
	default:
		return NoResponseStats(err)
	}
}

func PlayerStat(player string, id mojang.Uuid, statType string, statName string, value uint64) Response {

	embed := discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s: %s", mojang.EscapeMarkdown(player), leaderboard.Title(statType, statName)),
		Description: fmt.Sprintf("**%s**", leaderboard.FormatValue(statName, value)),
		Color:       color,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: fmt.Sprintf(AVATAR_URL, id)},
		Footer:      &discordgo.MessageEmbedFooter{Text: string(id)},
	}
	return ResponseEmbed{embed}
}

func LeaderboardMessage(table leaderboard.Table) Response {
	return ResponseEmbed{*LeaderboardEmbed(table, time.Time{})}
}

// The embed of a leaderboard. A non zero update time is shown
// as the timestamp of the embed
func LeaderboardEmbed(table leaderboard.Table, updated time.Time) *discordgo.MessageEmbed {

	embed := &discordgo.MessageEmbed{
		Title: capitalise(table.Title),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{{
			Name:   LEADERBOARD_FIELD,
			Value:  table.Field(),
			Inline: false,
		}},
	}
	if !updated.IsZero() {
		embed.Timestamp = updated.Format(time.RFC3339)
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Last updated"}
	}
	return embed
}

func LeaderboardNotAvailable(statType string, statName string, err error) Response {
	return ResponseString{fmt.Sprintf("Could not get the leaderboard of %s: %s", leaderboard.Title(statType, statName), err)}
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
