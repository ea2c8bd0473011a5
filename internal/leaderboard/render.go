package leaderboard

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Longest value accepted in an embed field
const FieldLimit = 1024

// Invisible cell content that keeps an empty table in shape
const filler = "\u200b"

const rankWidth = 3

const ticksPerSecond = 20

// Stats counted in game ticks. "play one minute" is the name the
// play time stat had before it was renamed, and it counts ticks too
var tickStats = map[string]bool{
	"play time":       true,
	"play one minute": true,
}

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// Human label of a stat: "diamond ores mined", "killed by zombies", "Mob Kills"
func Title(statType string, statName string) string {

	name := statName
	if statType != "custom" && !strings.HasSuffix(name, "s") {
		name += "s"
	}

	switch statType {
	case "custom":
		return titler.String(name)
	case "killed by":
		return statType + " " + name
	default:
		return name + " " + statType
	}
}

func FormatValue(statName string, value uint64) string {
	if tickStats[statName] {
		return FormatTicks(value)
	}
	return printer.Sprintf("%d", value)
}

// Format a tick count as "1d 2h 3m 4s", leaving out the leading units that are zero
func FormatTicks(ticks uint64) string {

	seconds := ticks / ticksPerSecond
	units := []struct {
		value  uint64
		suffix string
	}{
		{seconds / 86400, "d"},
		{seconds % 86400 / 3600, "h"},
		{seconds % 3600 / 60, "m"},
	}

	parts := []string{}
	for _, unit := range units {
		if unit.value == 0 && len(parts) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%s", unit.value, unit.suffix))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds%60))

	return strings.Join(parts, " ")
}

// A leaderboard ready to be displayed, header line first
type Table struct {
	Title string
	lines []string
}

// Lay out the entries in three columns: rank, name and value
func Render(entries []Entry, statType string, statName string) Table {

	type row struct{ rank, name, value string }

	rows := make([]row, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, row{
			rank:  fmt.Sprintf("%d.", i+1),
			name:  entry.DisplayName,
			value: FormatValue(statName, entry.Value),
		})
	}
	if len(rows) == 0 {
		rows = append(rows, row{filler, filler, filler})
	}

	header := row{"#", "Username", "Stat"}
	nameWidth := runewidth.StringWidth(header.name)
	valueWidth := runewidth.StringWidth(header.value)
	for _, r := range rows {
		nameWidth = max(nameWidth, runewidth.StringWidth(r.name))
		valueWidth = max(valueWidth, runewidth.StringWidth(r.value))
	}

	format := func(r row) string {
		return runewidth.FillRight(r.rank, rankWidth) + " " +
			runewidth.FillRight(r.name, nameWidth) + " " +
			runewidth.FillLeft(r.value, valueWidth)
	}

	table := Table{Title: Title(statType, statName)}
	table.lines = append(table.lines, format(header))
	for _, r := range rows {
		table.lines = append(table.lines, format(r))
	}
	return table
}

// Number of rows below the header
func (table Table) Rows() int {
	return max(len(table.lines)-1, 0)
}

func (table Table) Text() string {
	return strings.Join(table.lines, "\n")
}

// The table as the value of an embed field, in a code block so the columns
// line up. Rows are dropped from the bottom until it fits in FieldLimit
func (table Table) Field() string {

	lines := table.lines
	for {
		value := codeBlock(lines)
		if utf8.RuneCountInString(value) <= FieldLimit || len(lines) <= 1 {
			return value
		}
		lines = lines[:len(lines)-1]
	}
}

func codeBlock(lines []string) string {
	return "```\n" + strings.Join(lines, "\n") + "\n```"
}
