package bot

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/corvidae-dev/rin/reactroles"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

const handleReactRoleSyntax string = "`!reactrole <create|bind|rule|delete|unbind|list|enable|repair|refresh|clear> ...`"

var bareMessageIDRegex = regexp.MustCompile(`^\d{17,20}$`)

//HandleReactRoleMessage handles a message containing a reactrole subcommand.
//command format: !reactrole <subcommand> [args...]
func (b *RinBot) HandleReactRoleMessage(msg *discordgo.MessageCreate, args string) {
	commandName := b.Config.Bot.Prefix + "reactrole"
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
			description: "Only server admins may manage reaction roles.",
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
	case "create":
		result = b.reactRoleCreate(msg, rest, commandName)
	case "bind":
		result = b.reactRoleBind(msg, rest, commandName)
	case "rule":
		result = b.reactRoleRule(msg, rest, commandName)
	case "delete":
		result = b.reactRoleDelete(msg, rest, commandName)
	case "unbind":
		result = b.reactRoleUnbind(msg, rest, commandName)
	case "list":
		result = b.reactRoleList(msg, commandName)
	case "enable":
		result = b.reactRoleEnable(msg, rest, commandName)
	case "repair":
		result = b.reactRoleRepair(msg, commandName)
	case "refresh":
		result = b.reactRoleRefresh(msg, commandName)
	case "clear":
		result = b.reactRoleClear(msg, commandName)
	default:
		result = RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: fmt.Sprintf("`%v` is not a reactrole subcommand I know.", subcommand),
			syntax:      handleReactRoleSyntax,
			timestamp:   time.Now(),
		}
	}
	if result != nil {
		b.respondToCommand(msg, result)
	}
}

//reactRoleCreate opens a full wizard which will post a fresh menu message.
//A successful launch answers with the panel itself rather than an embed.
func (b *RinBot) reactRoleCreate(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	targetChannelID := msg.ChannelID
	title := "Reaction Roles"
	if fields := strings.Fields(rest); len(fields) > 0 {
		if channelID := interpretChannelRef(fields[0]); channelID != nil {
			targetChannelID = *channelID
			rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
		}
	}
	if rest != "" {
		title = rest
	}
	session := reactroles.NewWizardSession(msg.ID, msg.GuildID, msg.Author.ID, []reactroles.WizardStage{
		reactroles.StageTriggerType,
		reactroles.StageRule,
		reactroles.StageBind,
	})
	if err := b.wizards.open(msg, session, targetChannelID, "", title); err != nil {
		logrus.Errorf("Failed to open reaction role wizard due to error %v", err)
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	return nil
}

//reactRoleBind opens a wizard attached to an existing message. When the
//message already carries a bind table the wizard skips straight to binding,
//seeded with the current binds.
func (b *RinBot) reactRoleBind(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	channelID, messageID := b.interpretMessageRef(rest)
	if channelID == nil || messageID == nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I couldn't understand that message reference.",
			syntax:      "`!reactrole bind <message link>` or `!reactrole bind <channel id>:<message id>`",
			timestamp:   time.Now(),
		}
	}
	if _, err := b.DiscordSession().ChannelMessage(*channelID, *messageID); err != nil {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "the message `" + rest + "`",
			timestamp:  time.Now(),
		}
	}
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	var session *reactroles.WizardSession
	if existing := reg.Find(*messageID); existing != nil {
		session = reactroles.NewWizardSession(msg.ID, msg.GuildID, msg.Author.ID, []reactroles.WizardStage{
			reactroles.StageBind,
		})
		session.SetTriggerType(existing.TriggerType)
		session.SetRule(existing.Rule)
		session.SeedBinds(existing.Entries())
	} else {
		session = reactroles.NewWizardSession(msg.ID, msg.GuildID, msg.Author.ID, []reactroles.WizardStage{
			reactroles.StageTriggerType,
			reactroles.StageRule,
			reactroles.StageBind,
		})
	}
	if err := b.wizards.open(msg, session, *channelID, *messageID, "Reaction Roles"); err != nil {
		logrus.Errorf("Failed to open reaction role wizard due to error %v", err)
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	return nil
}

//interpretBindTableRef accepts a full message ref or a bare message ID, which
//is enough to address a table already in the registry.
func (b *RinBot) interpretBindTableRef(s string) *string {
	if _, messageID := b.interpretMessageRef(s); messageID != nil {
		return messageID
	}
	if bareMessageIDRegex.MatchString(s) {
		return &s
	}
	return nil
}

//reactRoleRule gets or sets the rule on an existing bind table.
func (b *RinBot) reactRoleRule(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	parts := strings.Fields(rest)
	if len(parts) == 0 || len(parts) > 2 {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "Expected a message reference and optionally a rule.",
			syntax:      "`!reactrole rule <message-ref> [normal|unique]`",
			timestamp:   time.Now(),
		}
	}
	messageID := b.interpretBindTableRef(parts[0])
	if messageID == nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I couldn't understand that message reference.",
			syntax:      "`!reactrole rule <message-ref> [normal|unique]`",
			timestamp:   time.Now(),
		}
	}
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	table := reg.Find(*messageID)
	if table == nil {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a reaction role table on that message",
			timestamp:  time.Now(),
		}
	}
	if len(parts) == 1 {
		return RinResponseSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: fmt.Sprintf("That menu currently uses the `%v` rule.", table.Rule),
			timestamp:   time.Now(),
		}
	}
	rule, err := reactroles.ParseRule(strings.ToUpper(parts[1]))
	if err != nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			syntax:      "`!reactrole rule <message-ref> [normal|unique]`",
			timestamp:   time.Now(),
		}
	}
	err = reg.Update(*messageID, func(t *reactroles.BindTable) error {
		t.Rule = rule
		return nil
	})
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
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
		description: fmt.Sprintf("That menu now uses the `%v` rule.", rule),
		timestamp:   time.Now(),
	}
}

//reactRoleDelete removes a whole bind table and strips any persistent
//buttons off the message it was attached to.
func (b *RinBot) reactRoleDelete(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	messageID := b.interpretBindTableRef(rest)
	if messageID == nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I couldn't understand that message reference.",
			syntax:      "`!reactrole delete <message-ref>`",
			timestamp:   time.Now(),
		}
	}
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	table := reg.Remove(*messageID)
	if table == nil {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a reaction role table on that message",
			timestamp:  time.Now(),
		}
	}
	if table.TriggerType == reactroles.TriggerInteraction {
		b.stripTableMessage(table.ChannelID, table.MessageID)
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
		description: fmt.Sprintf("Removed the reaction role menu with %v binds from that message.", table.Len()),
		timestamp:   time.Now(),
	}
}

//reactRoleUnbind removes one role's bind from a table. The role may be given
//by mention, name or bare ID, so binds for roles that no longer exist can
//still be removed.
func (b *RinBot) reactRoleUnbind(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) != 2 {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "Expected a message reference and a role.",
			syntax:      "`!reactrole unbind <message-ref> <role>`",
			timestamp:   time.Now(),
		}
	}
	messageID := b.interpretBindTableRef(parts[0])
	if messageID == nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I couldn't understand that message reference.",
			syntax:      "`!reactrole unbind <message-ref> <role>`",
			timestamp:   time.Now(),
		}
	}
	roleStr := strings.TrimSpace(parts[1])
	var roleID string
	role, err := b.interpretRoleString(roleStr, msg.GuildID)
	switch {
	case err == nil && role != nil:
		roleID = role.ID
	case bareMessageIDRegex.MatchString(roleStr):
		//A deleted role can no longer be resolved by name, accept its raw ID
		roleID = roleStr
	default:
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a role matching `" + roleStr + "`",
			timestamp:  time.Now(),
		}
	}
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	//Removing the last bind prunes the table, so snapshot it first to keep
	//the channel reference for the message edit.
	prior := reg.Find(*messageID)
	removed := false
	err = reg.Update(*messageID, func(t *reactroles.BindTable) error {
		removed = t.RemoveRole(roleID)
		return nil
	})
	if err != nil || !removed {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a bind for that role on that message",
			timestamp:  time.Now(),
		}
	}
	b.refreshTableMessage(msg.GuildID, prior)
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
		description: fmt.Sprintf("Unbound <@&%v> from that message.", roleID),
		timestamp:   time.Now(),
	}
}

//reactRoleList summarizes every bind table in the guild, including stored
//tables which could not be re-attached.
func (b *RinBot) reactRoleList(msg *discordgo.MessageCreate, commandName string) RinResponse {
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	tables := reg.Tables()
	unresolved := reg.Unresolved()
	if len(tables) == 0 && len(unresolved) == 0 {
		return RinResponseSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "This server has no reaction role menus yet. Use `!reactrole create` to set one up.",
			timestamp:   time.Now(),
		}
	}
	var lines []string
	state := "enabled"
	if !reg.Enabled() {
		state = "disabled"
	}
	lines = append(lines, fmt.Sprintf("Reaction roles are currently **%v** on this server.", state))
	for _, table := range tables {
		lines = append(lines, fmt.Sprintf("%v - `%v`/`%v`, %v binds",
			messageLink(msg.GuildID, table.ChannelID, table.MessageID), table.TriggerType, table.Rule, table.Len()))
	}
	for messageID, payload := range unresolved {
		lines = append(lines, fmt.Sprintf("message `%v` - stored %v but its channel is not visible, try `!reactrole repair`",
			messageID, humanize.Time(payload.StoredAt)))
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: strings.Join(lines, "\n"),
		timestamp:   time.Now(),
	}
}

//reactRoleEnable gets or sets the guild-wide reaction role kill switch.
func (b *RinBot) reactRoleEnable(msg *discordgo.MessageCreate, rest, commandName string) RinResponse {
	reg, err := b.registry(msg.GuildID)
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
		state := "enabled"
		if !reg.Enabled() {
			state = "disabled"
		}
		return RinResponseSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: fmt.Sprintf("Reaction roles are currently **%v** on this server.", state),
			timestamp:   time.Now(),
		}
	case "on":
		reg.SetEnabled(true)
	case "off":
		reg.SetEnabled(false)
	default:
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "Expected `on`, `off` or nothing.",
			syntax:      "`!reactrole enable [on|off]`",
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
	state := "enabled"
	if !reg.Enabled() {
		state = "disabled"
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: fmt.Sprintf("Reaction roles are now **%v** on this server.", state),
		timestamp:   time.Now(),
	}
}

//reactRoleRepair retries attaching stored tables whose channels could not be
//resolved earlier, eg before the bot regained access to a channel.
func (b *RinBot) reactRoleRepair(msg *discordgo.MessageCreate, commandName string) RinResponse {
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	fixed := reg.Promote()
	remaining := reg.Unresolved()
	if fixed > 0 {
		if err := b.persistGuild(msg.GuildID); err != nil {
			return RinResponseInternalError{
				command:     commandName,
				commandMsg:  msg.Content,
				description: err.Error(),
				timestamp:   time.Now(),
			}
		}
	}
	lines := []string{fmt.Sprintf("Re-attached %v stored menu(s), %v still unresolved.", fixed, len(remaining))}
	for messageID, payload := range remaining {
		lines = append(lines, fmt.Sprintf("message `%v` in channel `%v`, stored %v",
			messageID, payload.ChannelID, humanize.Time(payload.StoredAt)))
	}
	if len(remaining) > 0 {
		return RinResponsePartialSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: strings.Join(lines, "\n"),
			timestamp:   time.Now(),
		}
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: lines[0],
		timestamp:   time.Now(),
	}
}

//reactRoleRefresh drops binds whose roles were deleted server-side and
//re-renders the affected menu messages.
func (b *RinBot) reactRoleRefresh(msg *discordgo.MessageCreate, commandName string) RinResponse {
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	totalDropped := 0
	for _, table := range reg.Tables() {
		var dead []string
		for _, entry := range table.Entries() {
			if b.guildRole(msg.GuildID, entry.RoleID) == nil {
				dead = append(dead, entry.RoleID)
			}
		}
		if len(dead) == 0 {
			continue
		}
		err := reg.Update(table.MessageID, func(t *reactroles.BindTable) error {
			totalDropped += t.RemoveRoles(dead)
			return nil
		})
		if err != nil {
			continue
		}
		b.refreshTableMessage(msg.GuildID, table)
	}
	if totalDropped > 0 {
		if err := b.persistGuild(msg.GuildID); err != nil {
			return RinResponseInternalError{
				command:     commandName,
				commandMsg:  msg.Content,
				description: err.Error(),
				timestamp:   time.Now(),
			}
		}
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: fmt.Sprintf("Dropped %v bind(s) whose roles no longer exist.", totalDropped),
		timestamp:   time.Now(),
	}
}

//reactRoleClear wipes every reaction role table in the guild.
func (b *RinBot) reactRoleClear(msg *discordgo.MessageCreate, commandName string) RinResponse {
	reg, err := b.registry(msg.GuildID)
	if err != nil {
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	tables := reg.Clear()
	for _, table := range tables {
		if table.TriggerType == reactroles.TriggerInteraction {
			b.stripTableMessage(table.ChannelID, table.MessageID)
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
		description: fmt.Sprintf("Removed %v reaction role menu(s) from this server.", len(tables)),
		timestamp:   time.Now(),
	}
}
