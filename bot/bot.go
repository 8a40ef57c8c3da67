package bot

import (
	"net/url"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/corvidae-dev/rin/config"
	"github.com/corvidae-dev/rin/db"
	"github.com/corvidae-dev/rin/discord"
	"github.com/corvidae-dev/rin/guildmodels"
	"github.com/corvidae-dev/rin/reactroles"
	"github.com/sirupsen/logrus"
)

//RinBot represents an instance of the discord bot, containing handles to the various external connections.
type RinBot struct {
	DiscordConnection *discord.EventSource
	DBConnection      *db.Connection
	Config            *config.Config

	//Per-guild state acts as a write-through cache over the config
	//document: every mutation updates it and immediately re-upserts the
	//full document.
	statesMu sync.Mutex
	states   map[string]*guildState

	wizards *wizardManager
}

//guildState is the in-memory copy of one guild's config document.
type guildState struct {
	mu        sync.Mutex
	registry  *reactroles.Registry
	autoroles guildmodels.AutoRoleConfig
}

//Init creates a new RinBot instance
func Init(cfg *config.Config) (*RinBot, error) {
	res := RinBot{
		Config: cfg,
		states: map[string]*guildState{},
	}
	res.wizards = newWizardManager(&res)

	//Start database connection
	dbConn, err := db.Init(cfg.DB.Addr)
	if err != nil {
		logrus.Errorf("Cannot start bot due to error initializing database connection: %v", err)
		return nil, err
	}

	//Start discord connection
	disc, err := discord.StartDiscordListener(&res)
	if err != nil {
		logrus.Errorf("Cannot start bot due to error initializing discord connection: %v", err)
		dbConn.Close()
		return nil, err
	}

	res.DiscordConnection = disc
	res.DBConnection = dbConn

	return &res, nil
}

//BotAddURL generates a URL that can be used to add the bot to a server
func (b *RinBot) BotAddURL() (*url.URL, error) {
	return b.DiscordConnection.BotAddURL()
}

//DiscordSession returns a handle to the underlying discord session
func (b *RinBot) DiscordSession() *discordgo.Session {
	return b.DiscordConnection.Session()
}

//Close cleanly terminates the bot instance
func (b *RinBot) Close() {
	logrus.Info("Terminating bot...")
	b.wizards.closeAll()
	b.DiscordConnection.Close()
	b.DBConnection.Close()
}

//guildState returns the cached state for a guild, loading the config
//document and rebuilding the reaction role registry on first touch.
func (b *RinBot) guildState(guildID string) (*guildState, error) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	if state, ok := b.states[guildID]; ok {
		return state, nil
	}
	cfg, err := b.DBConnection.GetOrCreateGuildConfig(guildID)
	if err != nil {
		return nil, err
	}
	state := &guildState{
		registry:  reactroles.NewRegistry(cfg.ReactRoles, b.resolveChannel),
		autoroles: cfg.AutoRoles,
	}
	b.states[guildID] = state
	return state, nil
}

//registry returns the reaction role registry for a guild.
func (b *RinBot) registry(guildID string) (*reactroles.Registry, error) {
	state, err := b.guildState(guildID)
	if err != nil {
		return nil, err
	}
	return state.registry, nil
}

//persistGuild re-upserts the full config document for a guild from the
//cached state. Called after every mutation; last writer wins.
func (b *RinBot) persistGuild(guildID string) error {
	state, err := b.guildState(guildID)
	if err != nil {
		return err
	}
	state.mu.Lock()
	cfg := guildmodels.GuildConfig{
		GuildID:    guildID,
		ReactRoles: state.registry.Snapshot(),
		AutoRoles:  state.autoroles,
	}
	state.mu.Unlock()
	return b.DBConnection.SaveGuildConfig(cfg)
}

//resolveChannel reports whether a channel is currently visible to the bot.
//Used by the registry to decide whether stored bind tables can be attached.
func (b *RinBot) resolveChannel(channelID string) bool {
	s := b.DiscordSession()
	if _, err := s.State.Channel(channelID); err == nil {
		return true
	}
	_, err := s.Channel(channelID)
	return err == nil
}
