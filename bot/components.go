package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/corvidae-dev/rin/reactroles"
)

func buttonStyle(style string) discordgo.ButtonStyle {
	switch style {
	case "green":
		return discordgo.SuccessButton
	case "red":
		return discordgo.DangerButton
	case "grey":
		return discordgo.SecondaryButton
	default:
		return discordgo.PrimaryButton
	}
}

//componentEmoji converts a stored API-name emoji into component form.
func componentEmoji(emoji string) *discordgo.ComponentEmoji {
	if emoji == "" {
		return nil
	}
	if idx := strings.LastIndex(emoji, ":"); idx >= 0 {
		return &discordgo.ComponentEmoji{
			Name: emoji[:idx],
			ID:   emoji[idx+1:],
		}
	}
	return &discordgo.ComponentEmoji{Name: emoji}
}

//bindTableComponents renders the persistent role buttons for an interaction
//bind table, five to an action row.
func bindTableComponents(table *reactroles.BindTable) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var current []discordgo.MessageComponent
	for _, entry := range table.Entries() {
		current = append(current, discordgo.Button{
			Label:    entry.Label,
			Style:    buttonStyle(entry.Style),
			CustomID: entry.TriggerKey,
			Emoji:    componentEmoji(entry.Emoji),
		})
		if len(current) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: current})
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: current})
	}
	return rows
}

//menuComponentsAfterPrune decides what components a bind table's message
//should carry after binds were removed. prior is the table as it was before
//the removal; current is what the registry holds now, nil when removing the
//last bind pruned the table entirely. The second return is false when the
//message needs no edit. An empty (non-nil) component slice strips the now
//dead buttons from the message.
func menuComponentsAfterPrune(prior, current *reactroles.BindTable) ([]discordgo.MessageComponent, bool) {
	if prior == nil || prior.TriggerType != reactroles.TriggerInteraction {
		return nil, false
	}
	if current == nil {
		return []discordgo.MessageComponent{}, true
	}
	return bindTableComponents(current), true
}
