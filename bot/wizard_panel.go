package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/corvidae-dev/rin/reactroles"
	"github.com/sirupsen/logrus"
)

const (
	panelColour       = 0x4287f5
	panelClosedColour = 0x777777
)

//wizardPanel tracks one live creation panel message and its session.
type wizardPanel struct {
	session         *reactroles.WizardSession
	channelID       string
	messageID       string
	targetChannelID string
	targetMessageID string
	title           string
	timer           *time.Timer
}

//wizardManager owns every live wizard panel, keyed by session ID.
type wizardManager struct {
	bot    *RinBot
	mu     sync.Mutex
	panels map[string]*wizardPanel
}

func newWizardManager(b *RinBot) *wizardManager {
	return &wizardManager{
		bot:    b,
		panels: make(map[string]*wizardPanel),
	}
}

//closeAll stops panel timers during shutdown. Panel messages are left as-is.
func (m *wizardManager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, panel := range m.panels {
		if panel.timer != nil {
			panel.timer.Stop()
		}
		delete(m.panels, id)
	}
}

//open posts a new panel message into the invoking channel and registers
//a session for it. targetMessageID is empty when the wizard will post a
//fresh menu message itself.
func (m *wizardManager) open(msg *discordgo.MessageCreate, session *reactroles.WizardSession, targetChannelID, targetMessageID, title string) error {
	panel := &wizardPanel{
		session:         session,
		channelID:       msg.ChannelID,
		targetChannelID: targetChannelID,
		targetMessageID: targetMessageID,
		title:           title,
	}
	embed := m.panelEmbed(panel)
	components := m.panelComponents(panel, false)
	posted, err := m.bot.DiscordSession().ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Embed:      embed,
		Components: components,
		Reference:  msg.Reference(),
	})
	if err != nil {
		return err
	}
	panel.messageID = posted.ID
	sid := session.ID
	panel.timer = time.AfterFunc(reactroles.WizardTimeout, func() {
		m.expire(sid)
	})
	m.mu.Lock()
	m.panels[sid] = panel
	m.mu.Unlock()
	return nil
}

func (m *wizardManager) lookup(sessionID string) *wizardPanel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panels[sessionID]
}

//drop removes a finished panel and stops its timeout.
func (m *wizardManager) drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if panel, found := m.panels[sessionID]; found {
		if panel.timer != nil {
			panel.timer.Stop()
		}
		delete(m.panels, sessionID)
	}
}

//expire fires when a panel has seen no interaction for the timeout window.
//The session is discarded and the panel message greyed out.
func (m *wizardManager) expire(sessionID string) {
	m.mu.Lock()
	panel, found := m.panels[sessionID]
	if found {
		delete(m.panels, sessionID)
	}
	m.mu.Unlock()
	if !found {
		return
	}
	panel.session.Cancel()
	m.closePanelMessage(panel, "This panel timed out without being completed, so no changes were made.")
	logrus.Infof("Reaction role wizard session %v in guild %v timed out", sessionID, panel.session.GuildID)
}

//handleComponent routes a button or menu interaction carrying a wizard
//custom ID to the panel that owns it.
func (m *wizardManager) handleComponent(i *discordgo.InteractionCreate, sessionID string, action reactroles.WizardAction) {
	panel := m.lookup(sessionID)
	if panel == nil {
		m.bot.dismissInteraction(i)
		return
	}
	if i.Member == nil || i.Member.User == nil || i.Member.User.ID != panel.session.UserID {
		m.bot.ephemeralReply(i, errorMessageColour, "This panel cannot be controlled by you!")
		return
	}
	if panel.timer != nil {
		panel.timer.Reset(reactroles.WizardTimeout)
	}
	switch action {
	case reactroles.ActionMenu:
		m.handleMenu(i, panel)
	case reactroles.ActionSet:
		m.openBindModal(i, panel)
	case reactroles.ActionAdd:
		m.handleAdd(i, panel)
	case reactroles.ActionClear:
		panel.session.ClearBinds()
		m.updatePanel(i, panel)
	case reactroles.ActionPreview:
		m.handlePreview(i, panel)
	case reactroles.ActionDone:
		m.handleDone(i, panel)
	case reactroles.ActionCancel:
		panel.session.Cancel()
		m.drop(panel.session.ID)
		m.updateClosedPanel(i, panel, "Panel cancelled, no changes were made.")
	default:
		m.bot.dismissInteraction(i)
	}
}

//handleMenu applies a select menu choice for the current stage.
func (m *wizardManager) handleMenu(i *discordgo.InteractionCreate, panel *wizardPanel) {
	values := i.MessageComponentData().Values
	if len(values) != 1 {
		m.bot.dismissInteraction(i)
		return
	}
	session := panel.session
	switch session.Stage() {
	case reactroles.StageTriggerType:
		triggerType, err := reactroles.ParseTriggerType(values[0])
		if err == nil {
			err = session.ChooseTriggerType(triggerType)
		}
		if err != nil {
			m.bot.ephemeralReply(i, errorMessageColour, err.Error())
			return
		}
	case reactroles.StageRule:
		rule, err := reactroles.ParseRule(values[0])
		if err == nil {
			err = session.ChooseRule(rule)
		}
		if err != nil {
			m.bot.ephemeralReply(i, errorMessageColour, err.Error())
			return
		}
	case reactroles.StageBind:
		session.SetStyle(values[0])
	default:
		m.bot.dismissInteraction(i)
		return
	}
	m.updatePanel(i, panel)
}

const (
	modalFieldEmoji = "emoji"
	modalFieldLabel = "label"
	modalFieldRole  = "role"
)

//openBindModal shows the text-input form used to stage a new bind.
func (m *wizardManager) openBindModal(i *discordgo.InteractionCreate, panel *wizardPanel) {
	err := m.bot.DiscordSession().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: reactroles.WizardComponentID(panel.session.ID, reactroles.ActionModal),
			Title:    "Reaction Role Bind",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    modalFieldEmoji,
						Label:       "Emoji",
						Style:       discordgo.TextInputShort,
						Placeholder: "Emoji to react with, eg \U0001F3F7 or :custom_emoji:",
						Required:    false,
						MaxLength:   256,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    modalFieldLabel,
						Label:       "Label",
						Style:       discordgo.TextInputShort,
						Placeholder: "Text shown on the button",
						Required:    false,
						MaxLength:   80,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  modalFieldRole,
						Label:     "Role",
						Style:     discordgo.TextInputShort,
						Required:  true,
						MaxLength: 256,
					},
				}},
			},
		},
	})
	if err != nil {
		logrus.Warnf("Failed to open bind modal due to error %v", err)
	}
}

//modalValue digs the submitted value for one text input out of modal data.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, isRow := row.(*discordgo.ActionsRow)
		if !isRow {
			continue
		}
		for _, component := range actionsRow.Components {
			input, isInput := component.(*discordgo.TextInput)
			if isInput && input.CustomID == customID {
				return strings.TrimSpace(input.Value)
			}
		}
	}
	return ""
}

//handleModal converts a submitted bind form into a staged bind entry.
//Conversion failures are reported in one ephemeral message and the session
//stays where it was.
func (m *wizardManager) handleModal(i *discordgo.InteractionCreate, sessionID string) {
	panel := m.lookup(sessionID)
	if panel == nil {
		m.bot.dismissInteraction(i)
		return
	}
	if i.Member == nil || i.Member.User == nil || i.Member.User.ID != panel.session.UserID {
		m.bot.ephemeralReply(i, errorMessageColour, "This panel cannot be controlled by you!")
		return
	}
	if panel.timer != nil {
		panel.timer.Reset(reactroles.WizardTimeout)
	}
	data := i.ModalSubmitData()
	emojiStr := modalValue(data, modalFieldEmoji)
	label := modalValue(data, modalFieldLabel)
	roleStr := modalValue(data, modalFieldRole)

	var problems []string
	var emoji string
	if emojiStr != "" {
		parsed := m.bot.interpretEmoji(emojiStr)
		if parsed == nil {
			problems = append(problems, fmt.Sprintf("`%v` does not look like an emoji.", emojiStr))
		} else {
			emoji = *parsed
		}
	}
	role, err := m.bot.interpretRoleString(roleStr, i.GuildID)
	if err != nil {
		logrus.Warnf("Failed to look up role %v due to error %v", roleStr, err)
		problems = append(problems, "Something went wrong whilst looking up that role.")
	} else if role == nil {
		problems = append(problems, fmt.Sprintf("Could not find a role matching `%v`.", roleStr))
	} else {
		if !m.bot.memberOutranksRole(i.GuildID, i.Member, role) {
			problems = append(problems, fmt.Sprintf("You cannot hand out %v as it is not below your own top role.", role.Name))
		}
		if !m.bot.botOutranksRole(i.GuildID, role) {
			problems = append(problems, fmt.Sprintf("I cannot hand out %v as it is not below my own top role.", role.Name))
		}
	}
	if len(problems) > 0 {
		m.bot.ephemeralReply(i, errorMessageColour, strings.Join(problems, "\n"))
		return
	}

	entry := reactroles.BindEntry{
		RoleID:     role.ID,
		TriggerKey: emoji,
		Emoji:      emoji,
		Label:      label,
	}
	if entry.TriggerKey == "" {
		entry.TriggerKey = "label:" + label
	}
	if err := panel.session.StageBind(entry); err != nil {
		m.bot.ephemeralReply(i, errorMessageColour, err.Error())
		return
	}
	m.bot.ephemeralReply(i, successMessageColour, fmt.Sprintf("Staged %v. Press Add to confirm the bind.", bindDisplay(entry.Emoji, entry.Label, entry.RoleID)))
	m.refreshPanelMessage(panel)
}

//handleAdd commits the staged bind into the session bind list.
func (m *wizardManager) handleAdd(i *discordgo.InteractionCreate, panel *wizardPanel) {
	entry, err := panel.session.CommitStaged()
	if err != nil {
		m.bot.ephemeralReply(i, errorMessageColour, err.Error())
		return
	}
	logrus.Debugf("Wizard session %v bound role %v", panel.session.ID, entry.RoleID)
	m.updatePanel(i, panel)
}

//handlePreview shows the menu as it would be posted, without touching state.
func (m *wizardManager) handlePreview(i *discordgo.InteractionCreate, panel *wizardPanel) {
	session := panel.session
	embed := &discordgo.MessageEmbed{
		Title:       panel.title,
		Color:       panelColour,
		Description: menuMessageBody(session.TriggerType(), session.Binds()),
	}
	err := m.bot.DiscordSession().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.Warnf("Failed to send wizard preview due to error %v", err)
	}
}

//handleDone finishes the session and applies its result to Discord and the
//registry.
func (m *wizardManager) handleDone(i *discordgo.InteractionCreate, panel *wizardPanel) {
	session := panel.session
	if err := session.Done(); err != nil {
		m.bot.ephemeralReply(i, errorMessageColour, err.Error())
		return
	}
	var table *reactroles.BindTable
	var err error
	if panel.targetMessageID == "" {
		table, err = m.postMenuMessage(panel)
	} else {
		table, err = m.applyToExistingMessage(panel)
	}
	if err != nil {
		logrus.Errorf("Failed to apply wizard session %v due to error %v", session.ID, err)
		m.bot.ephemeralReply(i, errorMessageColour, "Something went wrong whilst posting the reaction roles menu.")
		return
	}
	state, err := m.bot.guildState(session.GuildID)
	if err != nil {
		logrus.Errorf("Failed to fetch guild state for %v due to error %v", session.GuildID, err)
		m.bot.ephemeralReply(i, errorMessageColour, "Something went wrong whilst saving the reaction roles menu.")
		return
	}
	state.registry.Put(table)
	if err := m.bot.persistGuild(session.GuildID); err != nil {
		logrus.Errorf("Failed to persist guild %v due to error %v", session.GuildID, err)
	}
	m.drop(session.ID)
	link := messageLink(session.GuildID, table.ChannelID, table.MessageID)
	m.updateClosedPanel(i, panel, fmt.Sprintf("Done! The reaction roles menu is live: %v", link))
	logrus.Infof("Reaction role wizard session %v completed with %v binds on message %v", session.ID, table.Len(), table.MessageID)
}

//postMenuMessage sends a fresh menu message and decorates it with buttons or
//seed reactions depending on the trigger type.
func (m *wizardManager) postMenuMessage(panel *wizardPanel) (*reactroles.BindTable, error) {
	session := panel.session
	s := m.bot.DiscordSession()
	embed := &discordgo.MessageEmbed{
		Title:       panel.title,
		Color:       panelColour,
		Description: menuMessageBody(session.TriggerType(), session.Binds()),
	}
	posted, err := s.ChannelMessageSendEmbed(panel.targetChannelID, embed)
	if err != nil {
		return nil, err
	}
	table, err := session.BuildTable(posted.ID, panel.targetChannelID)
	if err != nil {
		return nil, err
	}
	if err := m.decorateMenuMessage(table); err != nil {
		return nil, err
	}
	return table, nil
}

//applyToExistingMessage attaches the session result to a message the guild
//already has, replacing any previous bind table on it.
func (m *wizardManager) applyToExistingMessage(panel *wizardPanel) (*reactroles.BindTable, error) {
	table, err := panel.session.BuildTable(panel.targetMessageID, panel.targetChannelID)
	if err != nil {
		return nil, err
	}
	if err := m.decorateMenuMessage(table); err != nil {
		return nil, err
	}
	return table, nil
}

func (m *wizardManager) decorateMenuMessage(table *reactroles.BindTable) error {
	s := m.bot.DiscordSession()
	if table.TriggerType == reactroles.TriggerInteraction {
		components := bindTableComponents(table)
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    table.ChannelID,
			ID:         table.MessageID,
			Components: &components,
		})
		return err
	}
	for _, entry := range table.Entries() {
		if err := s.MessageReactionAdd(table.ChannelID, table.MessageID, entry.Emoji); err != nil {
			logrus.Warnf("Failed to seed reaction %v on message %v due to error %v", entry.Emoji, table.MessageID, err)
		}
	}
	return nil
}

//menuMessageBody writes the posted menu description for a bind list.
func menuMessageBody(triggerType reactroles.TriggerType, binds []reactroles.BindEntry) string {
	var builder strings.Builder
	if triggerType == reactroles.TriggerInteraction {
		builder.WriteString("Press a button below to toggle the matching role.\n")
	} else {
		builder.WriteString("React below to toggle the matching role.\n")
	}
	for _, entry := range binds {
		builder.WriteString("\n" + bindDisplay(entry.Emoji, entry.Label, entry.RoleID))
	}
	return builder.String()
}

func messageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%v/%v/%v", guildID, channelID, messageID)
}

//updatePanel answers a component interaction by re-rendering the panel in
//place.
func (m *wizardManager) updatePanel(i *discordgo.InteractionCreate, panel *wizardPanel) {
	err := m.bot.DiscordSession().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{m.panelEmbed(panel)},
			Components: m.panelComponents(panel, false),
		},
	})
	if err != nil {
		logrus.Warnf("Failed to update wizard panel %v due to error %v", panel.session.ID, err)
	}
}

//updateClosedPanel replaces the panel with a final status and disables every
//control.
func (m *wizardManager) updateClosedPanel(i *discordgo.InteractionCreate, panel *wizardPanel, status string) {
	embed := &discordgo.MessageEmbed{
		Title:       "Reaction Roles Setup",
		Color:       panelClosedColour,
		Description: status,
	}
	components := m.panelComponents(panel, true)
	err := m.bot.DiscordSession().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		logrus.Warnf("Failed to close wizard panel %v due to error %v", panel.session.ID, err)
	}
}

//closePanelMessage edits the panel message over REST, used when there is no
//interaction to answer.
func (m *wizardManager) closePanelMessage(panel *wizardPanel, status string) {
	embed := &discordgo.MessageEmbed{
		Title:       "Reaction Roles Setup",
		Color:       panelClosedColour,
		Description: status,
	}
	embeds := []*discordgo.MessageEmbed{embed}
	components := m.panelComponents(panel, true)
	_, err := m.bot.DiscordSession().ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    panel.channelID,
		ID:         panel.messageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		logrus.Warnf("Failed to edit wizard panel %v due to error %v", panel.session.ID, err)
	}
}

//refreshPanelMessage re-renders the panel over REST after a modal submit,
//which cannot itself answer with a message update here.
func (m *wizardManager) refreshPanelMessage(panel *wizardPanel) {
	embeds := []*discordgo.MessageEmbed{m.panelEmbed(panel)}
	components := m.panelComponents(panel, false)
	_, err := m.bot.DiscordSession().ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    panel.channelID,
		ID:         panel.messageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		logrus.Warnf("Failed to refresh wizard panel %v due to error %v", panel.session.ID, err)
	}
}

//panelEmbed renders the instruction embed for the current stage.
func (m *wizardManager) panelEmbed(panel *wizardPanel) *discordgo.MessageEmbed {
	session := panel.session
	var description string
	switch session.Stage() {
	case reactroles.StageTriggerType:
		description = "What kind of menu should this be?\n\n" +
			"**Reaction**: members toggle roles by reacting to the message with an emoji.\n" +
			"**Interaction**: members toggle roles by pressing buttons attached to the message."
	case reactroles.StageRule:
		description = "How should multiple roles on this menu behave?\n\n" +
			"**Normal**: members may hold any number of the listed roles at once.\n" +
			"**Unique**: picking up one role removes every other role from this menu."
	case reactroles.StageBind:
		description = "Bind roles to the menu.\n\n" +
			"**Set** opens a form to fill in an emoji, label and role.\n" +
			"**Add** confirms the filled-in values as a bind.\n" +
			"**Clear** removes every bind added so far.\n" +
			"Press **Done** once at least one role is bound."
		binds := session.Binds()
		if len(binds) > 0 {
			var lines []string
			for _, entry := range binds {
				lines = append(lines, bindDisplay(entry.Emoji, entry.Label, entry.RoleID))
			}
			description += "\n\n**Bound so far:**\n" + strings.Join(lines, "\n")
		}
		if staged := session.Staged(); staged != nil {
			description += "\n\n**Staged:** " + bindDisplay(staged.Emoji, staged.Label, staged.RoleID)
		}
	default:
		description = "This panel is finished."
	}
	return &discordgo.MessageEmbed{
		Title:       "Reaction Roles Setup",
		Color:       panelColour,
		Description: description,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "This panel closes after 10 minutes without input.",
		},
	}
}

//panelComponents renders the control rows for the current stage. When
//disabled is set every control is greyed out.
func (m *wizardManager) panelComponents(panel *wizardPanel, disabled bool) []discordgo.MessageComponent {
	session := panel.session
	sid := session.ID
	cancelRow := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Cancel",
			Style:    discordgo.DangerButton,
			CustomID: reactroles.WizardComponentID(sid, reactroles.ActionCancel),
			Disabled: disabled,
		},
	}}
	menuID := reactroles.WizardComponentID(sid, reactroles.ActionMenu)
	switch session.Stage() {
	case reactroles.StageTriggerType:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    menuID,
					Placeholder: "Choose a menu type",
					Disabled:    disabled,
					Options: []discordgo.SelectMenuOption{
						{Label: "Reaction", Value: string(reactroles.TriggerReaction), Description: "Toggle roles with emoji reactions"},
						{Label: "Interaction", Value: string(reactroles.TriggerInteraction), Description: "Toggle roles with buttons"},
					},
				},
			}},
			cancelRow,
		}
	case reactroles.StageRule:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    menuID,
					Placeholder: "Choose a rule",
					Disabled:    disabled,
					Options: []discordgo.SelectMenuOption{
						{Label: "Normal", Value: string(reactroles.RuleNormal), Description: "Members may hold several roles from this menu"},
						{Label: "Unique", Value: string(reactroles.RuleUnique), Description: "Members may hold only one role from this menu"},
					},
				},
			}},
			cancelRow,
		}
	case reactroles.StageBind:
		hasStaged := session.Staged() != nil
		hasBinds := len(session.Binds()) > 0
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    menuID,
					Placeholder: "Button colour (interaction menus)",
					Disabled:    disabled,
					Options: []discordgo.SelectMenuOption{
						{Label: "Blurple", Value: "blurple"},
						{Label: "Green", Value: "green"},
						{Label: "Red", Value: "red"},
						{Label: "Grey", Value: "grey"},
					},
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Set",
					Style:    discordgo.SecondaryButton,
					CustomID: reactroles.WizardComponentID(sid, reactroles.ActionSet),
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Add",
					Style:    discordgo.PrimaryButton,
					CustomID: reactroles.WizardComponentID(sid, reactroles.ActionAdd),
					Disabled: disabled || !hasStaged,
				},
				discordgo.Button{
					Label:    "Clear",
					Style:    discordgo.SecondaryButton,
					CustomID: reactroles.WizardComponentID(sid, reactroles.ActionClear),
					Disabled: disabled || !hasBinds,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Done",
					Style:    discordgo.SuccessButton,
					CustomID: reactroles.WizardComponentID(sid, reactroles.ActionDone),
					Disabled: disabled || !hasBinds,
				},
				discordgo.Button{
					Label:    "Preview",
					Style:    discordgo.SecondaryButton,
					CustomID: reactroles.WizardComponentID(sid, reactroles.ActionPreview),
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: reactroles.WizardComponentID(sid, reactroles.ActionCancel),
					Disabled: disabled,
				},
			}},
		}
	default:
		return []discordgo.MessageComponent{cancelRow}
	}
}
