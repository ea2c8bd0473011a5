package bot

import (
	"github.com/bwmarrin/discordgo"
)

// The part of a discord session used to answer an interaction
// that has already been acknowledged
type Responder interface {
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

type Response interface {
	Send(responder Responder, interaction *discordgo.Interaction) error
}

func (response ResponseString) Send(responder Responder, interaction *discordgo.Interaction) error {
	content := response.string
	_, err := responder.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Content:         &content,
		AllowedMentions: noMentions(),
	})
	return err
}

func (response ResponseEmbed) Send(responder Responder, interaction *discordgo.Interaction) error {
	embed := response.MessageEmbed
	_, err := responder.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Embeds:          &[]*discordgo.MessageEmbed{&embed},
		AllowedMentions: noMentions(),
	})
	return err
}

// Responses never ping anyone
func noMentions() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
}
