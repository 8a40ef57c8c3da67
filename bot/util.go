package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

//Allows @mentions, double quotation marked roles or roles only made up from letters
var roleRegex = regexp.MustCompile(`^\s*(?:"?<@&(\d+)>"?|"([^"]+)"|(\d{17,20})|([\w -]+?))\s*$`)

func (b *RinBot) interpretRoleString(roleStr string, guildID string) (*discordgo.Role, error) {
	guildRoles, err := b.DiscordSession().GuildRoles(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild roles for guild id %v", guildID)
		return nil, err
	}
	matches := roleRegex.FindStringSubmatch(roleStr)

	switch {
	case matches == nil:
		return nil, fmt.Errorf("empty role identifier was provided")
	case matches[1] != "" || matches[3] != "":
		//We have a role id directly, either bare or from a mention
		rid := matches[1]
		if rid == "" {
			rid = matches[3]
		}
		for _, guildRole := range guildRoles {
			if guildRole.ID == rid {
				return guildRole, nil
			}
		}
		return nil, nil
	case matches[2] != "" || matches[4] != "":
		//We have a role name, quoted or bare
		roleName := matches[2]
		if roleName == "" {
			roleName = matches[4]
		}
		for _, guildRole := range guildRoles {
			if guildRole.Name == roleName {
				return guildRole, nil
			}
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%v was not a valid role string format", roleStr)
	}
}

//This is kind of a mess and waay too greedy but the symbol other category doesn't seem to work with RE2 so eh ¯\_(ツ)_/¯
const unicodeEmojiRegex = `(\S{1,4})`

var emojiRegex = regexp.MustCompile(`(<(a?):([^:]+):(\d+)>)|` + unicodeEmojiRegex)

//interpretEmoji resolves an emoji string into the API name form used both
//for reactions and as a bind trigger key: `name:id` for custom guild emoji,
//the raw character for a unicode emoji.
func (b *RinBot) interpretEmoji(emojiStr string) *string {
	matches := emojiRegex.FindStringSubmatch(emojiStr)
	switch {
	case matches == nil:
		return nil
	case matches[1] != "":
		//Discord guild emoji
		name := matches[3]
		id := matches[4]
		apiName := fmt.Sprintf("%v:%v", name, id)
		return &apiName
	case matches[5] != "":
		//Unicode emoji
		return &matches[5]
	default:
		return nil
	}
}

//Allows message links or IDs
var messageRegex = regexp.MustCompile(`(?:https://(?:\w+\.)?discord(?:app)?\.com/channels/\d+/(\d{17,20})/(\d{17,20}))|(?:(\d{17,20}):(\d{17,20}))`)

func (b *RinBot) interpretMessageRef(messageStr string) (*string, *string) {
	matches := messageRegex.FindStringSubmatch(messageStr)
	switch {
	case matches == nil:
		return nil, nil
	case matches[1] != "":
		//Message link
		return &matches[1], &matches[2]
	case matches[3] != "":
		//Message ID with channel
		return &matches[3], &matches[4]
	default:
		return nil, nil
	}
}

//Allows channel mentions or IDs
var channelRegex = regexp.MustCompile(`^\s*(?:<#(\d{17,20})>|(\d{17,20}))\s*$`)

func interpretChannelRef(channelStr string) *string {
	matches := channelRegex.FindStringSubmatch(channelStr)
	switch {
	case matches == nil:
		return nil
	case matches[1] != "":
		return &matches[1]
	default:
		return &matches[2]
	}
}

//guildRole fetches a live role object by ID, returning nil if the role no
//longer exists server-side.
func (b *RinBot) guildRole(guildID, roleID string) *discordgo.Role {
	guildRoles, err := b.DiscordSession().GuildRoles(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild roles for guild id %v due to error %v", guildID, err)
		return nil
	}
	for _, role := range guildRoles {
		if role.ID == roleID {
			return role
		}
	}
	return nil
}

//guildMember fetches a member, preferring the session state cache.
func (b *RinBot) guildMember(guildID, userID string) (*discordgo.Member, error) {
	s := b.DiscordSession()
	if member, err := s.State.Member(guildID, userID); err == nil && member.User != nil {
		return member, nil
	}
	return s.GuildMember(guildID, userID)
}

//topRolePosition returns the highest role position held by a member.
func topRolePosition(member *discordgo.Member, guildRoles []*discordgo.Role) int {
	top := 0
	byID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, role := range guildRoles {
		byID[role.ID] = role
	}
	for _, rid := range member.Roles {
		if role, ok := byID[rid]; ok && role.Position > top {
			top = role.Position
		}
	}
	return top
}

//botOutranksRole reports whether the bot's own highest role is above the
//target role. This is a hard permission floor: role mutations below it are
//refused outright.
func (b *RinBot) botOutranksRole(guildID string, role *discordgo.Role) bool {
	s := b.DiscordSession()
	me, err := b.guildMember(guildID, s.State.User.ID)
	if err != nil {
		logrus.Warnf("Failed to fetch own member object for guild %v due to error %v", guildID, err)
		return false
	}
	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild roles for guild id %v due to error %v", guildID, err)
		return false
	}
	return topRolePosition(me, guildRoles) > role.Position
}

//memberOutranksRole reports whether a moderator may hand out the given role:
//they must be the guild owner or hold a role above it.
func (b *RinBot) memberOutranksRole(guildID string, member *discordgo.Member, role *discordgo.Role) bool {
	guild, err := b.DiscordSession().Guild(guildID)
	if err == nil && member.User != nil && guild.OwnerID == member.User.ID {
		return true
	}
	guildRoles, err := b.DiscordSession().GuildRoles(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild roles for guild id %v due to error %v", guildID, err)
		return false
	}
	return topRolePosition(member, guildRoles) > role.Position
}

//botHasManageRoles reports whether the bot holds the Manage Roles permission
//in a guild.
func (b *RinBot) botHasManageRoles(guildID string) bool {
	s := b.DiscordSession()
	me, err := b.guildMember(guildID, s.State.User.ID)
	if err != nil {
		return false
	}
	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		return false
	}
	byID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, role := range guildRoles {
		byID[role.ID] = role
	}
	for _, rid := range me.Roles {
		role, ok := byID[rid]
		if !ok {
			continue
		}
		if role.Permissions&(discordgo.PermissionManageRoles|discordgo.PermissionAdministrator) != 0 {
			return true
		}
	}
	return false
}

//setMemberRoles replaces a member's full role list in one batched API call.
func (b *RinBot) setMemberRoles(guildID, userID string, roles []string) error {
	_, err := b.DiscordSession().GuildMemberEdit(guildID, userID, &discordgo.GuildMemberParams{
		Roles: &roles,
	})
	return err
}

//sameRoleSet reports whether two role lists contain the same IDs.
func sameRoleSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, r := range a {
		set[r] = true
	}
	for _, r := range b {
		if !set[r] {
			return false
		}
	}
	return true
}

func containsRole(roles []string, roleID string) bool {
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}

//bindDisplay renders a bind as `emoji label : @role` for embeds.
func bindDisplay(emoji, label, roleID string) string {
	parts := []string{}
	if emoji != "" {
		parts = append(parts, displayEmoji(emoji))
	}
	if label != "" {
		parts = append(parts, label)
	}
	return fmt.Sprintf("**%v** : <@&%v>", strings.Join(parts, "  "), roleID)
}

//displayEmoji turns a stored API-name emoji back into its message form.
func displayEmoji(emoji string) string {
	if strings.Contains(emoji, ":") {
		return fmt.Sprintf("<:%v>", emoji)
	}
	return emoji
}
