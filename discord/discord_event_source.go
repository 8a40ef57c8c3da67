package discord

import (
	"fmt"
	"net/url"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const discordTokenEnvVar = "RIN_DISCORD_BOT_TOKEN"
const botScope = "bot"
const permissions = discordgo.PermissionAllText | discordgo.PermissionManageRoles

//EventHandler is a struct which can handle all the events the discord listener generates.
type EventHandler interface {
	HandleMessage(*discordgo.MessageCreate)
	HandleReactionAdd(*discordgo.MessageReactionAdd)
	HandleReactionRemove(*discordgo.MessageReactionRemove)
	HandleMessageDelete(*discordgo.MessageDelete)
	HandleMessageDeleteBulk(*discordgo.MessageDeleteBulk)
	HandleInteraction(*discordgo.InteractionCreate)
	HandleMemberJoin(*discordgo.GuildMemberAdd)
}

//EventSource represents a connection to the Discord gateway
type EventSource struct {
	discordClient *discordgo.Session
	handler       EventHandler
}

//StartDiscordListener initializes an EventSource and starts listening for events from the discord gateway
func StartDiscordListener(handler EventHandler) (*EventSource, error) {
	//Get token from environment variable
	apiTok, exists := os.LookupEnv(discordTokenEnvVar)
	if !exists {
		logrus.Errorf("`%v` env variable was not set.", discordTokenEnvVar)
		return nil, fmt.Errorf("`%v` env variable was not set", discordTokenEnvVar)
	}

	//Create new client
	dc, err := discordgo.New("Bot " + apiTok)
	if err != nil {
		logrus.Warnf("Failed to create Discord gateway client due to %v", err)
		return nil, err
	}
	dispatch := EventSource{
		discordClient: dc,
		handler:       handler,
	}

	//Register event handlers
	dc.AddHandler(dispatch.dispatchMessageCreateEvent)
	dc.AddHandler(dispatch.dispatchReactionAddEvent)
	dc.AddHandler(dispatch.dispatchReactionRemoveEvent)
	dc.AddHandler(dispatch.dispatchMessageDeleteEvent)
	dc.AddHandler(dispatch.dispatchMessageDeleteBulkEvent)
	dc.AddHandler(dispatch.dispatchInteractionEvent)
	dc.AddHandler(dispatch.dispatchMemberJoinEvent)

	//Register intents
	dc.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	//Open a websocket connection
	err = dc.Open()
	if err != nil {
		logrus.Errorf("Failed to connect to discord websockets gateway; encountered error %v", err)
		return nil, err
	}
	return &dispatch, nil
}

//BotAddURL generates a URL that can be used to add the bot to a server
func (d *EventSource) BotAddURL() (*url.URL, error) {
	user, err := d.discordClient.User("@me")
	if err != nil {
		return nil, err
	}
	clientID := user.ID

	url, err := url.Parse("https://discord.com/api/oauth2/authorize")
	if err != nil {
		return nil, err
	}
	q := url.Query()
	q.Set("client_id", clientID)
	q.Set("scope", botScope)
	q.Set("permissions", fmt.Sprintf("%d", permissions))
	url.RawQuery = q.Encode()

	return url, nil
}

//Close cleanly terminates the Discord connection
func (d *EventSource) Close() {
	logrus.Info("Terminating discord event listener...")
	_ = d.discordClient.Close()
}

//Session returns a handle to the underlying discordgo session
func (d *EventSource) Session() *discordgo.Session {
	return d.discordClient
}

//recoverHandler stops a panicking event handler from crashing the whole bot.
//One bad event must not block subsequent independent events.
func recoverHandler(event string) {
	if r := recover(); r != nil {
		logrus.Errorf("Handler for %v event panicked: %v", event, r)
	}
}

func (d *EventSource) dispatchMessageCreateEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	//Ignore messages created by bots, including this one
	if m.Author == nil || m.Author.Bot {
		return
	}
	defer recoverHandler("message create")
	d.handler.HandleMessage(m)
}

func (d *EventSource) dispatchReactionAddEvent(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID {
		return
	}
	defer recoverHandler("reaction add")
	d.handler.HandleReactionAdd(r)
}

func (d *EventSource) dispatchReactionRemoveEvent(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.UserID == s.State.User.ID {
		return
	}
	defer recoverHandler("reaction remove")
	d.handler.HandleReactionRemove(r)
}

func (d *EventSource) dispatchMessageDeleteEvent(s *discordgo.Session, m *discordgo.MessageDelete) {
	defer recoverHandler("message delete")
	d.handler.HandleMessageDelete(m)
}

func (d *EventSource) dispatchMessageDeleteBulkEvent(s *discordgo.Session, m *discordgo.MessageDeleteBulk) {
	defer recoverHandler("bulk message delete")
	d.handler.HandleMessageDeleteBulk(m)
}

func (d *EventSource) dispatchInteractionEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer recoverHandler("interaction create")
	d.handler.HandleInteraction(i)
}

func (d *EventSource) dispatchMemberJoinEvent(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	defer recoverHandler("member join")
	d.handler.HandleMemberJoin(m)
}
