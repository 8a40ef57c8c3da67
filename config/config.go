package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const configPathEnvVar string = "RIN_CONFIG_PATH"
const defaultConfigPath string = "config.toml"
const defaultPrefix string = "!"
const defaultKeepalivePort int = 8175

//Config holds the bot's file-based configuration. Secrets (the discord token
//and database address) come from the environment instead; the file only
//carries tunables that are safe to commit.
type Config struct {
	Bot       BotConfig
	DB        DBConfig        `toml:"db"`
	Keepalive KeepaliveConfig `toml:"keepalive"`
}

//BotConfig holds command handling tunables.
type BotConfig struct {
	Prefix string
}

//DBConfig holds a non-secret fallback database address, overridden by the
//RIN_DB_ADDR environment variable.
type DBConfig struct {
	Addr string
}

//KeepaliveConfig holds settings for the HTTP ping service.
type KeepaliveConfig struct {
	Enabled bool
	Port    int
}

//Load reads the config file named by RIN_CONFIG_PATH (default config.toml).
//A missing file is not an error; defaults are used instead.
func Load() *Config {
	conf := Config{
		Bot:       BotConfig{Prefix: defaultPrefix},
		Keepalive: KeepaliveConfig{Enabled: true, Port: defaultKeepalivePort},
	}

	path, exists := os.LookupEnv(configPathEnvVar)
	if !exists {
		path = defaultConfigPath
	}
	dat, err := os.ReadFile(path)
	if err != nil {
		logrus.Warnf("Could not read config file %v (%v); using defaults", path, err)
		return &conf
	}
	if _, err := toml.Decode(string(dat), &conf); err != nil {
		logrus.Errorf("Failed to parse config file %v due to error %v; using defaults", path, err)
	}
	if conf.Bot.Prefix == "" {
		conf.Bot.Prefix = defaultPrefix
	}
	if conf.Keepalive.Port == 0 {
		conf.Keepalive.Port = defaultKeepalivePort
	}
	return &conf
}
