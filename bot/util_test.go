package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestInterpretEmoji(t *testing.T) {
	var b RinBot
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"custom emoji", "<:blob:12345>", "blob:12345"},
		{"animated custom emoji", "<a:pet:67890>", "pet:67890"},
		{"unicode emoji", "🏷", "🏷"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := b.interpretEmoji(c.input)
			if got == nil {
				t.Fatalf("interpretEmoji(%q) = nil", c.input)
			}
			if *got != c.want {
				t.Errorf("interpretEmoji(%q) = %q, want %q", c.input, *got, c.want)
			}
		})
	}
	if got := b.interpretEmoji(""); got != nil {
		t.Errorf("interpretEmoji(\"\") = %q, want nil", *got)
	}
}

func TestInterpretMessageRef(t *testing.T) {
	var b RinBot
	cases := []struct {
		name        string
		input       string
		wantChannel string
		wantMessage string
	}{
		{"message link", "https://discord.com/channels/111111111111111111/222222222222222222/333333333333333333", "222222222222222222", "333333333333333333"},
		{"old domain link", "https://discordapp.com/channels/111111111111111111/222222222222222222/333333333333333333", "222222222222222222", "333333333333333333"},
		{"channel colon message", "222222222222222222:333333333333333333", "222222222222222222", "333333333333333333"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			channelID, messageID := b.interpretMessageRef(c.input)
			if channelID == nil || messageID == nil {
				t.Fatalf("interpretMessageRef(%q) = %v, %v", c.input, channelID, messageID)
			}
			if *channelID != c.wantChannel || *messageID != c.wantMessage {
				t.Errorf("interpretMessageRef(%q) = %q, %q", c.input, *channelID, *messageID)
			}
		})
	}
	if channelID, messageID := b.interpretMessageRef("not a message"); channelID != nil || messageID != nil {
		t.Error("garbage should not parse as a message reference")
	}
}

func TestInterpretChannelRef(t *testing.T) {
	if got := interpretChannelRef("<#222222222222222222>"); got == nil || *got != "222222222222222222" {
		t.Errorf("channel mention parse = %v", got)
	}
	if got := interpretChannelRef("222222222222222222"); got == nil || *got != "222222222222222222" {
		t.Errorf("bare channel ID parse = %v", got)
	}
	if got := interpretChannelRef("general"); got != nil {
		t.Errorf("channel name should not parse, got %v", *got)
	}
}

func TestSameRoleSet(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want bool
	}{
		{"equal in order", []string{"a", "b"}, []string{"a", "b"}, true},
		{"equal out of order", []string{"a", "b"}, []string{"b", "a"}, true},
		{"different lengths", []string{"a"}, []string{"a", "b"}, false},
		{"different members", []string{"a", "b"}, []string{"a", "c"}, false},
		{"both empty", nil, nil, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sameRoleSet(c.a, c.b); got != c.want {
				t.Errorf("sameRoleSet(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestTopRolePosition(t *testing.T) {
	guildRoles := []*discordgo.Role{
		{ID: "low", Position: 1},
		{ID: "mid", Position: 5},
		{ID: "high", Position: 9},
	}
	member := &discordgo.Member{Roles: []string{"low", "mid", "deleted"}}
	if got := topRolePosition(member, guildRoles); got != 5 {
		t.Errorf("topRolePosition = %v, want 5", got)
	}
	if got := topRolePosition(&discordgo.Member{}, guildRoles); got != 0 {
		t.Errorf("topRolePosition with no roles = %v, want 0", got)
	}
}

func TestBindDisplay(t *testing.T) {
	cases := []struct {
		name                 string
		emoji, label, roleID string
		want                 string
	}{
		{"emoji and label", "🏷", "Tag", "r1", "**🏷  Tag** : <@&r1>"},
		{"label only", "", "Tag", "r1", "**Tag** : <@&r1>"},
		{"custom emoji only", "blob:12345", "", "r1", "**<:blob:12345>** : <@&r1>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := bindDisplay(c.emoji, c.label, c.roleID); got != c.want {
				t.Errorf("bindDisplay = %q, want %q", got, c.want)
			}
		})
	}
}
