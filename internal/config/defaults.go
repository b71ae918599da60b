package config

import (
	"os"
	"path/filepath"
)

const (
	defaultBaseURL       = "https://api.trello.com/1"
	defaultTimeout       = "15s"
	defaultRedisPrefix   = "boardctl"
	defaultMongoDatabase = "trelloData"
)

// Default returns the configuration used when no file or environment
// variable overrides a key.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			Backend: RemoteTrello,
			BaseURL: defaultBaseURL,
			Timeout: defaultTimeout,
		},
		Mirror: MirrorConfig{
			Backend:       MirrorSQLite,
			Path:          filepath.Join(Dir(), "mirror.db"),
			RedisPrefix:   defaultRedisPrefix,
			MongoDatabase: defaultMongoDatabase,
		},
	}
}

// Dir returns the configuration directory, ~/.config/boardctl.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".boardctl"
	}
	return filepath.Join(home, ".config", "boardctl")
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}
