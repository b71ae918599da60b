package config

import "time"

// Backend names accepted by Validate.
const (
	RemoteTrello  = "trello"
	RemoteOffline = "offline"

	MirrorSQLite = "sqlite"
	MirrorRedis  = "redis"
	MirrorMongo  = "mongo"
)

// Config is the full boardctl configuration.
type Config struct {
	Remote RemoteConfig `yaml:"remote" mapstructure:"remote"`
	Mirror MirrorConfig `yaml:"mirror" mapstructure:"mirror"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// RemoteConfig selects and configures the remote source.
type RemoteConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Key     string `yaml:"key,omitempty" mapstructure:"key"`
	Token   string `yaml:"token,omitempty" mapstructure:"token"`
	// Timeout is a Go duration string, e.g. "15s".
	Timeout string `yaml:"timeout" mapstructure:"timeout"`
}

// MirrorConfig selects and configures the mirror store.
type MirrorConfig struct {
	Backend       string `yaml:"backend" mapstructure:"backend"`
	Path          string `yaml:"path" mapstructure:"path"`
	RedisAddr     string `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPrefix   string `yaml:"redis_prefix" mapstructure:"redis_prefix"`
	MongoURI      string `yaml:"mongo_uri,omitempty" mapstructure:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database" mapstructure:"mongo_database"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	File    string `yaml:"file,omitempty" mapstructure:"file"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// TimeoutDuration parses Timeout.
func (r RemoteConfig) TimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(r.Timeout)
}
