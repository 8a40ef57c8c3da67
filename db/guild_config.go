package db

import (
	"fmt"

	"github.com/corvidae-dev/rin/guildmodels"
	"github.com/sirupsen/logrus"
	rethink "gopkg.in/gorethink/gorethink.v3"
)

const guildConfigsTable string = "guild_configs"

//GetOrCreateGuildConfig fetches the feature config document for a guild,
//inserting the default document if none exists yet.
func (db *Connection) GetOrCreateGuildConfig(gid string) (*guildmodels.GuildConfig, error) {
	var cfg guildmodels.GuildConfig
	res, err := rethink.Table(guildConfigsTable).Get(gid).Run(db.session)
	if err != nil {
		logrus.Errorf("Failed to query database for guild config %v because: %v.", gid, err)
		return nil, fmt.Errorf("failed to query database for guild config %v because: %v", gid, err)
	}
	defer res.Close()

	if res.IsNil() {
		logrus.Infof("Inserting new config document for guild %v into database.", gid)
		cfg = guildmodels.DefaultGuildConfig(gid)
		resp, err := rethink.Table(guildConfigsTable).Insert(cfg).RunWrite(db.session)
		if err != nil {
			logrus.Errorf("Failed to insert new guild config for guild %v because: %v.", gid, err)
			return nil, fmt.Errorf("failed to insert new guild config for guild %v because: %v", gid, err)
		} else if resp.Inserted != 1 {
			logrus.Warnf("Expected to insert 1 new guild config but recieved response %v.", resp)
		}
	} else {
		err = res.One(&cfg)
		if err != nil {
			logrus.Errorf("Failed to read guild config %v from database because: %v.", gid, err)
			return nil, fmt.Errorf("failed to read guild config %v from database because: %v", gid, err)
		}
	}
	if cfg.ReactRoles.MessageCache == nil {
		cfg.ReactRoles.MessageCache = map[string]guildmodels.BindTablePayload{}
	}
	return &cfg, nil
}

//SaveGuildConfig upserts the full config document for a guild. The whole
//document is replaced on every write; last writer wins.
func (db *Connection) SaveGuildConfig(cfg guildmodels.GuildConfig) error {
	resp, err := rethink.Table(guildConfigsTable).Insert(cfg, rethink.InsertOpts{
		Conflict: "replace",
	}).RunWrite(db.session)
	if err != nil {
		logrus.Warnf("Encountered error upserting config for guild %v into database: %v.", cfg.GuildID, err)
		return err
	} else if resp.Errors > 0 {
		err := fmt.Errorf("%v", resp.FirstError)
		logrus.Warnf("Encountered error upserting config for guild %v into database: %v.", cfg.GuildID, err)
		return err
	}
	return nil
}
