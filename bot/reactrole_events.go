package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/corvidae-dev/rin/reactroles"
	"github.com/sirupsen/logrus"
)

//HandleReactionAdd resolves a raw reaction against the guild's bind tables
//and grants the bound role.
func (b *RinBot) HandleReactionAdd(r *discordgo.MessageReactionAdd) {
	b.handleReactionEvent(r.MessageReaction, r.Member, true)
}

//HandleReactionRemove revokes the bound role when its reaction is removed.
func (b *RinBot) HandleReactionRemove(r *discordgo.MessageReactionRemove) {
	b.handleReactionEvent(r.MessageReaction, nil, false)
}

//handleReactionEvent is the legacy reaction dispatch path. Reactions have no
//per-user reply channel, so every outcome here is either a silent role
//mutation or a log line; errors never propagate to the event framework.
func (b *RinBot) handleReactionEvent(r *discordgo.MessageReaction, member *discordgo.Member, added bool) {
	if r.GuildID == "" {
		return
	}
	state, err := b.guildState(r.GuildID)
	if err != nil {
		logrus.Warnf("Failed to load guild state for guild %v due to error %v", r.GuildID, err)
		return
	}
	reg := state.registry
	if !reg.Enabled() {
		return
	}
	table := reg.Find(r.MessageID)
	if table == nil {
		return
	}
	if member == nil {
		member, err = b.guildMember(r.GuildID, r.UserID)
		if err != nil {
			logrus.Warnf("Failed to fetch member %v in guild %v due to error %v", r.UserID, r.GuildID, err)
			return
		}
	}
	if member.User == nil || member.User.Bot {
		return
	}
	if !b.botHasManageRoles(r.GuildID) {
		return
	}

	entry, ok := table.LookupTrigger(r.Emoji.APIName())
	if !ok {
		//Not a bound emoji; somebody just reacted to the menu for fun.
		return
	}
	role := b.guildRole(r.GuildID, entry.RoleID)
	if role == nil {
		b.healDeletedRole(r.GuildID, r.MessageID, entry.RoleID)
		return
	}
	if !b.botOutranksRole(r.GuildID, role) {
		logrus.Errorf("Cannot assign role %v in guild %v: it is not below my own highest role.", role.Name, r.GuildID)
		return
	}

	var next []string
	if added {
		next = table.GrantRoles(member.Roles, role.ID)
	} else {
		if !containsRole(member.Roles, role.ID) {
			return
		}
		next = make([]string, 0, len(member.Roles))
		for _, rid := range member.Roles {
			if rid != role.ID {
				next = append(next, rid)
			}
		}
	}
	if sameRoleSet(next, member.Roles) {
		return
	}
	if err := b.setMemberRoles(r.GuildID, member.User.ID, next); err != nil {
		logrus.Errorf("Failed to update roles for member %v in guild %v due to error %v", member.User.ID, r.GuildID, err)
	}
}

//healDeletedRole prunes a bind whose target role no longer exists and
//persists the change. Never raises to the caller.
func (b *RinBot) healDeletedRole(guildID, messageID, roleID string) {
	logrus.Errorf("Role with ID %v in guild %v was deleted; removing its bind.", roleID, guildID)
	state, err := b.guildState(guildID)
	if err != nil {
		return
	}
	//Snapshot the table first: removing its last bind prunes it from the
	//registry, taking the channel reference with it.
	prior := state.registry.Find(messageID)
	err = state.registry.Update(messageID, func(t *reactroles.BindTable) error {
		t.RemoveRole(roleID)
		return nil
	})
	if err != nil {
		return
	}
	if err := b.persistGuild(guildID); err != nil {
		logrus.Warnf("Failed to persist config for guild %v due to error %v", guildID, err)
	}
	b.refreshTableMessage(guildID, prior)
}

//refreshTableMessage re-renders the persistent components on a bind table's
//message after binds were removed, or strips them if the removal emptied
//the table. prior must be a snapshot taken before the removal.
func (b *RinBot) refreshTableMessage(guildID string, prior *reactroles.BindTable) {
	if prior == nil {
		return
	}
	state, err := b.guildState(guildID)
	if err != nil {
		return
	}
	current := state.registry.Find(prior.MessageID)
	components, edit := menuComponentsAfterPrune(prior, current)
	if !edit {
		return
	}
	_, err = b.DiscordSession().ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         prior.MessageID,
		Channel:    prior.ChannelID,
		Components: &components,
	})
	if err != nil {
		logrus.Warnf("Failed to refresh components on message %v due to error %v", prior.MessageID, err)
	}
}

//stripTableMessage removes all components from a message that used to carry
//a bind table.
func (b *RinBot) stripTableMessage(channelID, messageID string) {
	components := []discordgo.MessageComponent{}
	_, err := b.DiscordSession().ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Components: &components,
	})
	if err != nil {
		logrus.Warnf("Failed to strip components from message %v due to error %v", messageID, err)
	}
}

//HandleInteraction routes component presses and modal submissions to either
//a live wizard panel or the persistent reaction role buttons.
func (b *RinBot) HandleInteraction(i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if sessionID, action, ok := reactroles.ParseWizardComponentID(customID); ok {
			b.wizards.handleComponent(i, sessionID, action)
			return
		}
		if messageID, roleID, ok := reactroles.ParseComponentID(customID); ok {
			b.handleRoleButton(i, messageID, roleID)
		}
	case discordgo.InteractionModalSubmit:
		if sessionID, _, ok := reactroles.ParseWizardComponentID(i.ModalSubmitData().CustomID); ok {
			b.wizards.handleModal(i, sessionID)
		}
	}
}

//handleRoleButton is the interaction dispatch path: a member pressed one of
//the persistent buttons attached to a bind table message.
func (b *RinBot) handleRoleButton(i *discordgo.InteractionCreate, messageID, roleID string) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil || i.Member.User.Bot {
		return
	}
	state, err := b.guildState(i.GuildID)
	if err != nil {
		logrus.Warnf("Failed to load guild state for guild %v due to error %v", i.GuildID, err)
		b.dismissInteraction(i)
		return
	}
	reg := state.registry
	if !reg.Enabled() {
		b.ephemeralReply(i, errorMessageColour, "Reaction roles are currently disabled on this server.")
		return
	}
	table := reg.Find(messageID)
	if table == nil {
		b.dismissInteraction(i)
		return
	}
	if _, ok := table.LookupRole(roleID); !ok {
		b.dismissInteraction(i)
		return
	}
	role := b.guildRole(i.GuildID, roleID)
	if role == nil {
		b.healDeletedRole(i.GuildID, messageID, roleID)
		b.ephemeralReply(i, errorMessageColour, "That role no longer exists, so I've removed its button.")
		return
	}
	if !b.botHasManageRoles(i.GuildID) {
		logrus.Errorf("Missing the Manage Roles permission in guild %v.", i.GuildID)
		b.ephemeralReply(i, errorMessageColour, "I'm missing the Manage Roles permission on this server.")
		return
	}
	if !b.botOutranksRole(i.GuildID, role) {
		logrus.Errorf("Cannot assign role %v in guild %v: it is not below my own highest role.", role.Name, i.GuildID)
		b.ephemeralReply(i, errorMessageColour,
			fmt.Sprintf("I can't manage %v: move my highest role above it first.", role.Mention()))
		return
	}

	held := i.Member.Roles
	next, granted := table.ToggleRoles(held, role.ID)
	if err := b.setMemberRoles(i.GuildID, i.Member.User.ID, next); err != nil {
		logrus.Errorf("Failed to update roles for member %v in guild %v due to error %v", i.Member.User.ID, i.GuildID, err)
		b.ephemeralReply(i, errorMessageColour, "Something went wrong updating your roles. Please try again later.")
		return
	}
	if granted {
		desc := fmt.Sprintf("Role %v has been added to you.", role.Mention())
		var removed []string
		for _, rid := range held {
			if rid != role.ID && !containsRole(next, rid) {
				removed = append(removed, "<@&"+rid+">")
			}
		}
		if len(removed) > 0 {
			desc += "\n\n__**Removed:**__\n"
			for _, mention := range removed {
				desc += mention + "\n"
			}
		}
		b.ephemeralReply(i, successMessageColour, desc)
	} else {
		b.ephemeralReply(i, successMessageColour, fmt.Sprintf("Role %v is now removed from you.", role.Mention()))
	}
}

//HandleMessageDelete tears down the bind table attached to a deleted message.
func (b *RinBot) HandleMessageDelete(m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}
	state, err := b.guildState(m.GuildID)
	if err != nil {
		return
	}
	if state.registry.Remove(m.ID) == nil {
		return
	}
	logrus.Infof("Message %v carrying a bind table was deleted; dropping the table.", m.ID)
	if err := b.persistGuild(m.GuildID); err != nil {
		logrus.Warnf("Failed to persist config for guild %v due to error %v", m.GuildID, err)
	}
}

//HandleMessageDeleteBulk tears down every bind table whose message was part
//of a bulk deletion.
func (b *RinBot) HandleMessageDeleteBulk(m *discordgo.MessageDeleteBulk) {
	if m.GuildID == "" {
		return
	}
	state, err := b.guildState(m.GuildID)
	if err != nil {
		return
	}
	removedAny := false
	for _, messageID := range m.Messages {
		if state.registry.Remove(messageID) != nil {
			removedAny = true
		}
	}
	if !removedAny {
		return
	}
	if err := b.persistGuild(m.GuildID); err != nil {
		logrus.Warnf("Failed to persist config for guild %v due to error %v", m.GuildID, err)
	}
}

//ephemeralReply answers an interaction with a short embed only the acting
//user can see.
func (b *RinBot) ephemeralReply(i *discordgo.InteractionCreate, colour int, description string) {
	err := b.DiscordSession().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Color:       colour,
				Description: description,
			}},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.Warnf("Failed to respond to interaction due to error %v", err)
	}
}

//dismissInteraction acknowledges an interaction without any visible change,
//so the client does not show a failure.
func (b *RinBot) dismissInteraction(i *discordgo.InteractionCreate) {
	err := b.DiscordSession().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		logrus.Warnf("Failed to acknowledge interaction due to error %v", err)
	}
}
