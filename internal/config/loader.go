package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. BOARDCTL_REMOTE_TOKEN.
const EnvPrefix = "BOARDCTL"

// Load reads the configuration file at path, or DefaultPath when path is
// empty, and applies environment overrides on top. A missing default file
// yields the defaults; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	cfg.Mirror.Path = expandHome(cfg.Mirror.Path)
	cfg.Log.File = expandHome(cfg.Log.File)
	return cfg, nil
}

// setDefaults registers every key so that environment variables can
// override keys the file does not mention.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("remote.backend", d.Remote.Backend)
	v.SetDefault("remote.base_url", d.Remote.BaseURL)
	v.SetDefault("remote.key", d.Remote.Key)
	v.SetDefault("remote.token", d.Remote.Token)
	v.SetDefault("remote.timeout", d.Remote.Timeout)

	v.SetDefault("mirror.backend", d.Mirror.Backend)
	v.SetDefault("mirror.path", d.Mirror.Path)
	v.SetDefault("mirror.redis_addr", d.Mirror.RedisAddr)
	v.SetDefault("mirror.redis_prefix", d.Mirror.RedisPrefix)
	v.SetDefault("mirror.mongo_uri", d.Mirror.MongoURI)
	v.SetDefault("mirror.mongo_database", d.Mirror.MongoDatabase)

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.verbose", d.Log.Verbose)
}

// Save writes cfg to path as YAML, creating the directory. The file is
// readable only by its owner since it may hold the API token.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
