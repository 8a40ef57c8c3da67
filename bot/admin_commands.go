package bot

import (
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const discordDevUIDEnvVar string = "RIN_DISCORD_DEV_UID"

const handleAddAdminRoleSyntax string = "`!addadminrole \"<role>\"` or `!addadminrole @<role>`"

//HandleAddAdminMessage handles a message containing an add admin role command
//command format: !addadminrole <role>
func (b *RinBot) HandleAddAdminMessage(msg *discordgo.MessageCreate) {
	b.respondToCommand(msg, b.addAdminRoleCommand(msg))
}

func (b *RinBot) addAdminRoleCommand(msg *discordgo.MessageCreate) RinResponse {
	commandName := b.Config.Bot.Prefix + "addadminrole"
	//Check sender is admin
	isFromAdmin, err := b.isFromAdmin(msg.Member, msg.Author, msg.GuildID)
	if err != nil {
		logrus.Warnf("Failed to check if message came from admin due to error %v", err)
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	if !isFromAdmin {
		return RinResponseNotAllowed{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "Only server admins may manage admin roles.",
			timestamp:   time.Now(),
		}
	}
	//Interpret and run the command
	argString := strings.TrimSpace(strings.TrimPrefix(msg.Content, commandName))
	matchingRole, err := b.interpretRoleString(argString, msg.GuildID)
	if err != nil {
		return RinResponseSyntaxError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "I couldn't understand that role.",
			syntax:      handleAddAdminRoleSyntax,
			timestamp:   time.Now(),
		}
	}
	if matchingRole == nil {
		return RinResponseNotFound{
			command:    commandName,
			commandMsg: msg.Content,
			entity:     "a role matching `" + argString + "`",
			timestamp:  time.Now(),
		}
	}
	//Make sure guild exists
	if _, err := b.DBConnection.GetOrCreateGuild(msg.GuildID); err != nil {
		logrus.Warnf("Encountered error %v when trying to add role %v to admins on server %v", err, matchingRole.ID, msg.GuildID)
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	//Add role to list
	noUpdated, err := b.DBConnection.AddAdminRole(msg.GuildID, matchingRole.ID)
	if err != nil {
		logrus.Warnf("Encountered error %v when trying to add role %v to admins on server %v", err, matchingRole.ID, msg.GuildID)
		return RinResponseInternalError{
			command:     commandName,
			commandMsg:  msg.Content,
			description: err.Error(),
			timestamp:   time.Now(),
		}
	}
	if noUpdated == 0 {
		return RinResponsePartialSuccess{
			command:     commandName,
			commandMsg:  msg.Content,
			description: "That role is already registered as an admin role.",
			timestamp:   time.Now(),
		}
	}
	return RinResponseSuccess{
		command:     commandName,
		commandMsg:  msg.Content,
		description: "Role " + matchingRole.Mention() + " may now manage me on this server.",
		timestamp:   time.Now(),
	}
}

/**************************
/     Utility Functions
/**************************/

func (b *RinBot) isFromAdmin(member *discordgo.Member, user *discordgo.User, guildID string) (bool, error) {
	//Works if from dev
	if isDev(user.ID) {
		return true, nil
	}
	//Works if from server owner
	guild, err := b.DiscordSession().Guild(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild object from Discord API when checking if user %v is admin for server %v", user.ID, guildID)
		return false, err
	} else if guild.OwnerID == user.ID {
		return true, nil
	}
	//Works if user has an admin role
	localGuild, err := b.DBConnection.GetOrCreateGuild(guildID)
	if err != nil {
		logrus.Warnf("Failed to fetch guild object from Database when checking if user %v is admin for server %v", user.ID, guildID)
		return false, err
	}
	for _, adminRole := range localGuild.AdminRoles {
		for _, senderRole := range member.Roles {
			if adminRole == senderRole {
				return true, nil
			}
		}
	}
	return false, nil
}

func isDev(userID string) bool {
	devUID, exists := os.LookupEnv(discordDevUIDEnvVar)
	if !exists {
		return false
	}
	return userID == devUID
}
