package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const memberPageSize int = 512

//ForEachGuildMember pages through every member in a guild, invoking fn for
//each one. Iteration stops early if fn returns false. Returns the first API
//error encountered, after which no further pages are fetched.
func (e *EventSource) ForEachGuildMember(guildID string, fn func(*discordgo.Member) bool) error {
	s := e.Session()
	afterUID := ""
	for {
		page, err := s.GuildMembers(guildID, afterUID, memberPageSize)
		if err != nil {
			logrus.Warnf("Failed to fetch page of guild members from discord api: %v", err)
			return err
		}
		if len(page) == 0 {
			return nil
		}
		for _, member := range page {
			if !fn(member) {
				return nil
			}
		}
		next := nextMemberCursor(page)
		if next == "" {
			return nil
		}
		afterUID = next
	}
}

//nextMemberCursor picks the pagination cursor for the page after this one.
//The API returns members sorted by user ID, so the last user on the page is
//the cursor; comparing IDs as strings would misorder 17 and 18 digit
//snowflakes. Returns "" when the page carries no usable ID.
func nextMemberCursor(page []*discordgo.Member) string {
	for i := len(page) - 1; i >= 0; i-- {
		if page[i].User != nil && page[i].User.ID != "" {
			return page[i].User.ID
		}
	}
	return ""
}
