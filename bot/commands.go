package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

//HandleMessage is called upon every recieved message. It checks if the message is a command, and executes it.
func (b *RinBot) HandleMessage(msg *discordgo.MessageCreate) {
	prefix := b.Config.Bot.Prefix
	if msg.GuildID == "" || !strings.HasPrefix(msg.Content, prefix) {
		return
	}
	words := strings.SplitN(msg.Content, " ", 2)
	command := strings.TrimPrefix(words[0], prefix)
	args := ""
	if len(words) > 1 {
		args = strings.TrimSpace(words[1])
	}
	switch command {
	case "addadminrole":
		b.HandleAddAdminMessage(msg)
	case "reactrole":
		b.HandleReactRoleMessage(msg, args)
	case "autorole":
		b.HandleAutoRoleMessage(msg, args)
	case "roleall":
		b.HandleRoleAllMessage(msg, args, false)
	case "roleallrm":
		b.HandleRoleAllMessage(msg, args, true)
	}
}

//respondToCommand logs a command result and sends it back as a reply to the
//triggering message.
func (b *RinBot) respondToCommand(msg *discordgo.MessageCreate, result RinResponse) {
	result.WriteToLog()
	resp := result.DiscordResponse()
	msgRef := discordgo.MessageReference{
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
	}
	resp.Reference = &msgRef
	_, err := b.DiscordSession().ChannelMessageSendComplex(msg.ChannelID, resp)
	if err != nil {
		logrus.Errorf("Failed to send response to command due to error %v", err)
	}
}
