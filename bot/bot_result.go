package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const (
	successMessageColour int = 0x28bd00
	warnMessageColour    int = 0xbdb900
	errorMessageColour   int = 0xbd1b00
)

//RinResponse represents the result of a command which can be both communicated over discord and written to the log.
type RinResponse interface {
	DiscordResponse() *discordgo.MessageSend
	WriteToLog()
}

//RinResponseSuccess will be returned when a command has been successfully completed
type RinResponseSuccess struct {
	//The base command name
	command string
	//The entire text contents of the message
	commandMsg string
	//An optional human-readable summary of what was done
	description string
	//The time the success was logged at
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r RinResponseSuccess) DiscordResponse() *discordgo.MessageSend {
	description := r.description
	if description == "" {
		description = fmt.Sprintf("Completed %v command successfully!", r.command)
	}
	embed := discordgo.MessageEmbed{
		Title:       "Success! \\o/",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       successMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
	}
	msg := discordgo.MessageSend{
		Embed: &embed,
	}
	return &msg
}

//WriteToLog dumps data on a discord command response to the log
func (r RinResponseSuccess) WriteToLog() {
	logrus.Infof("%v Completed command %v successfully.", logLineLabel(r.timestamp), r.commandMsg)
}

//RinResponsePartialSuccess will be returned when a command has executed but with issues
type RinResponsePartialSuccess struct {
	//The base command name
	command string
	//The entire text contents of the message
	commandMsg string
	//A human-readable description of the issue
	description string
	//A map containing fields which should be included in the embed
	data map[string]string
	//The time the success was logged at
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r RinResponsePartialSuccess) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("Completed %v command but with errors: \n%v", r.command, r.description)
	embed := discordgo.MessageEmbed{
		Title:       "Partial success...",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       warnMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
		Fields: stringMapToFields(r.data),
	}
	msg := discordgo.MessageSend{
		Embed: &embed,
	}
	return &msg
}

//WriteToLog dumps data on a discord command response to the log
func (r RinResponsePartialSuccess) WriteToLog() {
	logrus.Infof("%v Completed command %v but with errors: %v.", logLineLabel(r.timestamp), r.commandMsg, r.data)
}

//RinResponseSyntaxError will be returned when there was an issue with the user's input
type RinResponseSyntaxError struct {
	//The base command name
	command string
	//The entire text contents of the message
	commandMsg string
	//A human-readable description of the issue
	description string
	//A description of the correct syntax
	syntax string
	//The time the error was logged at
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r RinResponseSyntaxError) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("Sorry, but there was a problem with the data you supplied for the %v command: \n%v", r.command, r.description)
	fields := map[string]string{
		"Your command": r.commandMsg,
	}
	if r.syntax != "" {
		fields["Correct syntax"] = r.syntax
	}
	embed := discordgo.MessageEmbed{
		Title:       "Uh-oh, there was something wrong with that command",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
		Fields: stringMapToFields(fields),
	}
	msg := discordgo.MessageSend{
		Embed: &embed,
	}
	return &msg
}

//WriteToLog dumps data on a discord command response to the log
func (r RinResponseSyntaxError) WriteToLog() {
	logrus.Infof("%v Syntax error in command %v: %v", logLineLabel(r.timestamp), r.commandMsg, r.description)
}

//RinResponseInternalError will be returned when there was some kind of error within the bot or when communicating with
//APIs
type RinResponseInternalError struct {
	//The base command name
	command string
	//The entire text contents of the message
	commandMsg string
	//A human-readable description of the issue
	description string
	//A map containing fields which should be included in the embed
	data map[string]string
	//The time the error was logged at
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r RinResponseInternalError) DiscordResponse() *discordgo.MessageSend {
	description := fmt.Sprintf("Oops! I encountered an unexpected error whilst running your %v command. Please try again later or file a bug report.", r.command)
	dataWithDescription := r.data
	if dataWithDescription == nil {
		dataWithDescription = map[string]string{}
	}
	dataWithDescription["Error"] = r.description
	embed := discordgo.MessageEmbed{
		Title:       "Oops, something went wrong ;w;",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
		Fields: stringMapToFields(dataWithDescription),
	}
	msg := discordgo.MessageSend{
		Embed: &embed,
	}
	return &msg
}

//WriteToLog dumps data on a discord command response to the log
func (r RinResponseInternalError) WriteToLog() {
	logrus.Warnf("%v Internal error whilst executing command %v: %v | data: %v", logLineLabel(r.timestamp), r.commandMsg, r.description, r.data)
}

//RinResponseNotAllowed will be returned when a user tried to run a command that they do not have the correct role for
type RinResponseNotAllowed struct {
	//The base command name
	command string
	//The entire text contents of the message
	commandMsg string
	//A human-readable description of the issue
	description string
	//The time the error was logged at
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r RinResponseNotAllowed) DiscordResponse() *discordgo.MessageSend {
	description := "I'm sorry Dave, I can't let you do that..."
	fields := map[string]string{
		"Reason":  r.description,
		"Command": r.commandMsg,
	}
	embed := discordgo.MessageEmbed{
		Title:       "That's illegal m8",
		Type:        discordgo.EmbedTypeRich,
		Description: description,
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
		Fields: stringMapToFields(fields),
	}
	msg := discordgo.MessageSend{
		Embed: &embed,
	}
	return &msg
}

//WriteToLog dumps data on a discord command response to the log
func (r RinResponseNotAllowed) WriteToLog() {
	logrus.Infof("%v Rejected command `%v` as the sender did not have the correct priveliges | description: %v", logLineLabel(r.timestamp), r.commandMsg, r.description)
}

//RinResponseNotFound will be returned when the entity a command refers to (a
//role, message or bind) does not exist
type RinResponseNotFound struct {
	//The base command name
	command string
	//The entire text contents of the message
	commandMsg string
	//What was being looked for
	entity string
	//The time the error was logged at
	timestamp time.Time
}

//DiscordResponse builds a MessageSend object which can be sent back to whoever sent a command message.
func (r RinResponseNotFound) DiscordResponse() *discordgo.MessageSend {
	embed := discordgo.MessageEmbed{
		Title:       "Not found",
		Type:        discordgo.EmbedTypeRich,
		Description: fmt.Sprintf("I couldn't find %v.", r.entity),
		Timestamp:   r.timestamp.Format(time.RFC3339),
		Color:       errorMessageColour,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Log ID: %d", r.timestamp.UnixNano()),
		},
	}
	msg := discordgo.MessageSend{
		Embed: &embed,
	}
	return &msg
}

//WriteToLog dumps data on a discord command response to the log
func (r RinResponseNotFound) WriteToLog() {
	logrus.Infof("%v Could not find %v for command %v", logLineLabel(r.timestamp), r.entity, r.commandMsg)
}

/////////////////////
//Utility Functions//
/////////////////////

func logLineLabel(t time.Time) string {
	return fmt.Sprintf("#%v# | ", t.UnixNano())
}

func stringMapToFields(fields map[string]string) []*discordgo.MessageEmbedField {
	var res []*discordgo.MessageEmbedField
	for fieldName, content := range fields {
		field := discordgo.MessageEmbedField{
			Name:   fieldName,
			Value:  content,
			Inline: false,
		}
		res = append(res, &field)
	}
	return res
}
