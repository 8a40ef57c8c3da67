package guildmodels

import "time"

//GuildConfig is the per-guild feature configuration document. One document is
//stored per guild, keyed by the guild's discord ID, and the whole document is
//re-upserted after every mutation.
type GuildConfig struct {
	GuildID    string          `gorethink:"id"`
	ReactRoles ReactRoleConfig `gorethink:"reactroles"`
	AutoRoles  AutoRoleConfig  `gorethink:"autoroles"`
}

//ReactRoleConfig holds every reaction role bind table set up in a guild,
//keyed by the ID of the message the binds are attached to.
type ReactRoleConfig struct {
	Enabled      bool                        `gorethink:"enabled"`
	MessageCache map[string]BindTablePayload `gorethink:"message_cache"`
}

//BindTablePayload is the serialized form of a single bind table.
type BindTablePayload struct {
	MessageID   string                 `gorethink:"message"`
	ChannelID   string                 `gorethink:"channel"`
	TriggerType string                 `gorethink:"type"`
	Rules       string                 `gorethink:"rules"`
	Binds       map[string]BindPayload `gorethink:"binds"`
	//StoredAt is set when the payload first fails to resolve, so stale
	//unresolved entries can eventually be purged.
	StoredAt time.Time `gorethink:"stored_at,omitempty"`
}

//BindPayload is the serialized form of a single trigger-to-role bind. The map
//key in BindTablePayload.Binds is the bound role ID.
type BindPayload struct {
	TriggerKey string `gorethink:"trigger"`
	Emoji      string `gorethink:"emoji,omitempty"`
	Label      string `gorethink:"label,omitempty"`
	Style      string `gorethink:"style,omitempty"`
}

//AutoRoleConfig holds the list of roles granted to every member on join.
type AutoRoleConfig struct {
	Roles   []string `gorethink:"roles"`
	Enabled bool     `gorethink:"enabled"`
}

//DefaultGuildConfig returns an otherwise-empty config document for a guild
func DefaultGuildConfig(gid string) GuildConfig {
	return GuildConfig{
		GuildID: gid,
		ReactRoles: ReactRoleConfig{
			Enabled:      true,
			MessageCache: map[string]BindTablePayload{},
		},
		AutoRoles: AutoRoleConfig{
			Roles:   nil,
			Enabled: false,
		},
	}
}
