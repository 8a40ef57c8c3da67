package guildmodels

//DiscordGuild holds the administration settings for one discord guild,
//keyed by the guild's discord ID.
type DiscordGuild struct {
	DiscordGID string   `gorethink:"id"`
	AdminRoles []string `gorethink:"admin_roles"`
}

//DefaultGuild returns a guild document with no admin roles registered yet
func DefaultGuild(gid string) DiscordGuild {
	return DiscordGuild{
		DiscordGID: gid,
		AdminRoles: nil,
	}
}
