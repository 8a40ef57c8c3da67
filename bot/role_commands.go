package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

//HandleRoleAllMessage handles a mass role grant or revoke across every
//non-bot member of a guild.
//command format: !roleall <role> or !roleallrm <role>
func (b *RinBot) HandleRoleAllMessage(msg *discordgo.MessageCreate, args string, remove bool) {
	commandName := b.Config.Bot.Prefix + "roleall"
	if remove {
		commandName = b.Config.Bot.Prefix + "roleallrm"
	}
	b.respondToCommand(msg, b.roleAllCommand(msg, args, remove, commandName))
}

func (b *RinBot) roleAllCommand(msg *discordgo.MessageCreate, args string, remove bool, commandName string) RinResponse {
	isAdmin, err := b.isFromAdmin(msg.Member, msg.Author, msg.GuildID)
	if err != nil {
		logrus.Warnf("Failed to check if message came from admin due to error %v", err)
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	if !isAdmin {
		return RinResponseNotAllowed{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "Only server admins may mass-assign roles.",
			timestamp:   time.Now(),
		}
	}
	role, err := b.interpretRoleString(args, msg.GuildID)
	if err != nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I couldn't understand that role.",
			syntax:      "`" + commandName + " <role>`",
			timestamp:   time.Now(),
		}
	}
	if role == nil {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a role matching `" + args + "`",
			timestamp:  time.Now(),
		}
	}
	if !b.memberOutranksRole(msg.GuildID, msg.Member, role) {
		return RinResponseNotAllowed{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "You cannot mass-assign a role that is not below your own top role.",
			timestamp:   time.Now(),
		}
	}
	if !b.botOutranksRole(msg.GuildID, role) {
		return RinResponseNotAllowed{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I cannot touch a role that is not below my own top role.",
			timestamp:   time.Now(),
		}
	}
	changed := 0
	failed := 0
	err = b.DiscordConnection.ForEachGuildMember(msg.GuildID, func(member *discordgo.Member) bool {
		if member.User == nil || member.User.Bot {
			return true
		}
		holds := containsRole(member.Roles, role.ID)
		if remove == !holds {
			//Nothing to do for this member
			return true
		}
		var next []string
		if remove {
			for _, rid := range member.Roles {
				if rid != role.ID {
					next = append(next, rid)
				}
			}
		} else {
			next = append(append([]string(nil), member.Roles...), role.ID)
		}
		if err := b.setMemberRoles(msg.GuildID, member.User.ID, next); err != nil {
			logrus.Warnf("Failed to edit roles for member %v in guild %v due to error %v", member.User.ID, msg.GuildID, err)
			failed++
			return true
		}
		changed++
		return true
	})
	verb := "granted to"
	if remove {
		verb = "removed from"
	}
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			data: map[string]string{
				"Members changed before failure": fmt.Sprintf("%d", changed),
			},
			timestamp: time.Now(),
		}
	}
	if failed > 0 {
		return RinResponsePartialSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: fmt.Sprintf("%v was %v %d member(s), but %d edit(s) failed.", role.Mention(), verb, changed, failed),
			timestamp:   time.Now(),
		}
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: fmt.Sprintf("%v was %v %d member(s).", role.Mention(), verb, changed),
		timestamp:   time.Now(),
	}
}
