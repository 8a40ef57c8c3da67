package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const handleAutoRoleSyntax string = "`!autorole <add|remove|enable|list|clear> ...`"

//HandleAutoRoleMessage handles a message containing an autorole subcommand.
//command format: !autorole <subcommand> [args...]
func (b *RinBot) HandleAutoRoleMessage(msg *discordgo.MessageCreate, args string) {
	commandName := b.Config.Bot.Prefix + "autorole"
	isAdmin, err := b.isFromAdmin(msg.Member, msg.Author, msg.GuildID)
	if err != nil {
		logrus.Warnf("Failed to check if message came from admin due to error %v", err)
		b.respondToCommand(msg, RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		})
		return
	}
	if !isAdmin {
		b.respondToCommand(msg, RinResponseNotAllowed{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "Only server admins may manage autoroles.",
			timestamp:   time.Now(),
		})
		return
	}
	words := strings.SplitN(args, " ", 2)
	subcommand := strings.ToLower(words[0])
	rest := ""
	if len(words) > 1 {
		rest = strings.TrimSpace(words[1])
	}
	var result RinResponse
	switch subcommand {
	case "add":
		result = b.autoRoleAdd(msg, rest, commandName)
	case "remove":
		result = b.autoRoleRemove(msg, rest, commandName)
	case "enable":
		result = b.autoRoleEnable(msg, rest, commandName)
	case "list":
		result = b.autoRoleList(msg, commandName)
	case "clear":
		result = b.autoRoleClear(msg, commandName)
	default:
		result = RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: fmt.Sprintf("`%v` is not an autorole subcommand I know.", subcommand),
			syntax:      handleAutoRoleSyntax,
			timestamp:   time.Now(),
		}
	}
	b.respondToCommand(msg, result)
}

func (b *RinBot) autoRoleAdd(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	role, err := b.interpretRoleString(rest, msg.GuildID)
	if err != nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I couldn't understand that role.",
			syntax:      "`!autorole add <role>`",
			timestamp:   time.Now(),
		}
	}
	if role == nil {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a role matching `" + rest + "`",
			timestamp:  time.Now(),
		}
	}
	if !b.memberOutranksRole(msg.GuildID, msg.Member, role) {
		return RinResponseNotAllowed{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "You cannot hand out a role that is not below your own top role.",
			timestamp:   time.Now(),
		}
	}
	if !b.botOutranksRole(msg.GuildID, role) {
		return RinResponsePartialSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "That role is not below my own top role, so I will not be able to grant it until it is moved.",
			timestamp:   time.Now(),
		}
	}
	state, err := b.guildState(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	state.mu.Lock()
	already := containsRole(state.autoroles.Roles, role.ID)
	if !already {
		state.autoroles.Roles = append(state.autoroles.Roles, role.ID)
	}
	state.mu.Unlock()
	if already {
		return RinResponsePartialSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "That role is already on the autorole list.",
			timestamp:   time.Now(),
		}
	}
	if err := b.persistGuild(msg.GuildID); err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: fmt.Sprintf("New members will now be given %v when they join.", role.Mention()),
		timestamp:   time.Now(),
	}
}

func (b *RinBot) autoRoleRemove(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	roleStr := strings.TrimSpace(rest)
	var roleID string
	role, err := b.interpretRoleString(roleStr, msg.GuildID)
	switch {
	case err == nil && role != nil:
		roleID = role.ID
	case bareMessageIDRegex.MatchString(roleStr):
		//Accept a raw ID so deleted roles can still be removed from the list
		roleID = roleStr
	default:
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a role matching `" + roleStr + "`",
			timestamp:  time.Now(),
		}
	}
	state, err := b.guildState(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	state.mu.Lock()
	found := false
	kept := state.autoroles.Roles[:0]
	for _, rid := range state.autoroles.Roles {
		if rid == roleID {
			found = true
			continue
		}
		kept = append(kept, rid)
	}
	state.autoroles.Roles = kept
	state.mu.Unlock()
	if !found {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "that role on the autorole list",
			timestamp:  time.Now(),
		}
	}
	if err := b.persistGuild(msg.GuildID); err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: fmt.Sprintf("<@&%v> will no longer be given to new members.", roleID),
		timestamp:   time.Now(),
	}
}

func (b *RinBot) autoRoleEnable(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	state, err := b.guildState(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	switch strings.ToLower(rest) {
	case "":
		state.mu.Lock()
		enabled := state.autoroles.Enabled
		state.mu.Unlock()
		word := "enabled"
		if !enabled {
			word = "disabled"
		}
		return RinResponseSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: fmt.Sprintf("Autoroles are currently **%v** on this server.", word),
			timestamp:   time.Now(),
		}
	case "on":
		state.mu.Lock()
		state.autoroles.Enabled = true
		state.mu.Unlock()
	case "off":
		state.mu.Lock()
		state.autoroles.Enabled = false
		state.mu.Unlock()
	default:
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "Expected `on`, `off` or nothing.",
			syntax:      "`!autorole enable [on|off]`",
			timestamp:   time.Now(),
		}
	}
	if err := b.persistGuild(msg.GuildID); err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	state.mu.Lock()
	word := "enabled"
	if !state.autoroles.Enabled {
		word = "disabled"
	}
	state.mu.Unlock()
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: fmt.Sprintf("Autoroles are now **%v** on this server.", word),
		timestamp:   time.Now(),
	}
}

func (b *RinBot) autoRoleList(msg *discordgo.MessageCreate, commandName string) RinResponse {
	state, err := b.guildState(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	state.mu.Lock()
	enabled := state.autoroles.Enabled
	roles := append([]string(nil), state.autoroles.Roles...)
	state.mu.Unlock()
	if len(roles) == 0 {
		return RinResponseSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "This server has no autoroles yet. Use `!autorole add` to set one up.",
			timestamp:   time.Now(),
		}
	}
	word := "enabled"
	if !enabled {
		word = "disabled"
	}
	lines := []string{fmt.Sprintf("Autoroles are currently **%v** on this server. New members receive:", word)}
	for _, rid := range roles {
		if b.guildRole(msg.GuildID, rid) == nil {
			lines = append(lines, fmt.Sprintf("`%v` (deleted role, will be skipped)", rid))
			continue
		}
		lines = append(lines, fmt.Sprintf("<@&%v>", rid))
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: strings.Join(lines, "\n"),
		timestamp:   time.Now(),
	}
}

func (b *RinBot) autoRoleClear(msg *discordgo.MessageCreate, commandName string) RinResponse {
	state, err := b.guildState(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	state.mu.Lock()
	cleared := len(state.autoroles.Roles)
	state.autoroles.Roles = nil
	state.mu.Unlock()
	if err := b.persistGuild(msg.GuildID); err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: fmt.Sprintf("Removed %v role(s) from the autorole list.", cleared),
		timestamp:   time.Now(),
	}
}

//HandleMemberJoin grants the configured autoroles to a newly joined member
//in a single batched edit. Roles that no longer exist are skipped.
func (b *RinBot) HandleMemberJoin(m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}
	state, err := b.guildState(m.GuildID)
	if err != nil {
		logrus.Warnf("Failed to load guild state for guild %v due to error %v", m.GuildID, err)
		return
	}
	state.mu.Lock()
	enabled := state.autoroles.Enabled
	wanted := append([]string(nil), state.autoroles.Roles...)
	state.mu.Unlock()
	if !enabled || len(wanted) == 0 {
		return
	}
	next := append([]string(nil), m.Roles...)
	for _, rid := range wanted {
		if containsRole(next, rid) {
			continue
		}
		role := b.guildRole(m.GuildID, rid)
		if role == nil {
			continue
		}
		if !b.botOutranksRole(m.GuildID, role) {
			logrus.Warnf("Skipping autorole %v in guild %v as it is above my top role", rid, m.GuildID)
			continue
		}
		next = append(next, rid)
	}
	if sameRoleSet(next, m.Roles) {
		return
	}
	if err := b.setMemberRoles(m.GuildID, m.User.ID, next); err != nil {
		logrus.Warnf("Failed to grant autoroles to member %v in guild %v due to error %v", m.User.ID, m.GuildID, err)
		return
	}
	logrus.Infof("Granted %v autorole(s) to member %v in guild %v", len(next)-len(m.Roles), m.User.ID, m.GuildID)
}
