package mojang

import "strings"

const zeroWidthSpace = "\u200b"

// Neutralise the characters that would turn a display name into a mention
// or break out of a code block
var displayNameEscaper = strings.NewReplacer(
	"@", "@"+zeroWidthSpace,
	"`", "'",
)

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"*", "\\*",
	"_", "\\_",
	"~", "\\~",
	"|", "\\|",
	">", "\\>",
	"`", "\\`",
	"@", "@"+zeroWidthSpace,
)

// Make a name safe for any chat surface, including code blocks
func EscapeDisplayName(name string) string {
	return displayNameEscaper.Replace(name)
}

// Make a name safe to be shown as markdown text, outside code blocks
func EscapeMarkdown(name string) string {
	return markdownEscaper.Replace(name)
}
