package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func memberPage(userIDs ...string) []*discordgo.Member {
	page := make([]*discordgo.Member, 0, len(userIDs))
	for _, id := range userIDs {
		var user *discordgo.User
		if id != "" {
			user = &discordgo.User{ID: id}
		}
		page = append(page, &discordgo.Member{User: user})
	}
	return page
}

func TestNextMemberCursor(t *testing.T) {
	cases := []struct {
		name string
		page []*discordgo.Member
		want string
	}{
		{
			//A 17 digit snowflake sorts after an 18 digit one as a string,
			//but the page order is numeric; the cursor must be the last
			//member, not the lexicographic maximum.
			name: "mixed length snowflakes",
			page: memberPage("99999999999999999", "100000000000000000", "100000000000000001"),
			want: "100000000000000001",
		},
		{
			name: "skips trailing members without a user",
			page: memberPage("99999999999999999", ""),
			want: "99999999999999999",
		},
		{
			name: "no usable IDs",
			page: memberPage("", ""),
			want: "",
		},
		{
			name: "empty page",
			page: nil,
			want: "",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := nextMemberCursor(c.page); got != c.want {
				t.Errorf("nextMemberCursor = %q, want %q", got, c.want)
			}
		})
	}
}
