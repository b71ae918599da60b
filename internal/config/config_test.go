package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg := Default()

	assert.Equal(t, RemoteTrello, cfg.Remote.Backend)
	assert.Equal(t, "https://api.trello.com/1", cfg.Remote.BaseURL)
	assert.Equal(t, MirrorSQLite, cfg.Mirror.Backend)
	assert.Equal(t, "/home/tester/.config/boardctl/mirror.db", cfg.Mirror.Path)
	assert.Equal(t, "trelloData", cfg.Mirror.MongoDatabase)
	assert.Equal(t, "boardctl", cfg.Mirror.RedisPrefix)

	d, err := cfg.Remote.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)
}

func TestLoad_MissingDefaultFileGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
remote:
  key: k123
  token: from-file
  timeout: 5s
mirror:
  backend: redis
  redis_addr: localhost:6379
log:
  file: ~/boardctl.log
`), 0o600))
	t.Setenv("BOARDCTL_REMOTE_TOKEN", "from-env")
	t.Setenv("BOARDCTL_MIRROR_REDIS_PREFIX", "team")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "k123", cfg.Remote.Key)
	assert.Equal(t, "from-env", cfg.Remote.Token, "environment wins over the file")
	assert.Equal(t, "5s", cfg.Remote.Timeout)
	assert.Equal(t, "https://api.trello.com/1", cfg.Remote.BaseURL, "unset keys keep defaults")
	assert.Equal(t, MirrorRedis, cfg.Mirror.Backend)
	assert.Equal(t, "team", cfg.Mirror.RedisPrefix)
	assert.Equal(t, filepath.Join(home, "boardctl.log"), cfg.Log.File)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("remote: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Remote.Key = "k"
	cfg.Remote.Token = "t"

	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Remote.Key = "k"
		cfg.Remote.Token = "t"
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{"valid", func(*Config) {}, ""},
		{"offline needs no credentials", func(c *Config) {
			c.Remote.Backend = RemoteOffline
			c.Remote.Key = ""
		}, ""},
		{"unknown remote", func(c *Config) { c.Remote.Backend = "jira" }, ErrUnknownRemoteBackend},
		{"missing token", func(c *Config) { c.Remote.Token = " " }, ErrMissingCredentials},
		{"empty base url", func(c *Config) { c.Remote.BaseURL = "" }, ErrInvalidBaseURL},
		{"bad timeout", func(c *Config) { c.Remote.Timeout = "soon" }, ErrInvalidTimeout},
		{"zero timeout", func(c *Config) { c.Remote.Timeout = "0s" }, ErrInvalidTimeout},
		{"unknown mirror", func(c *Config) { c.Mirror.Backend = "etcd" }, ErrUnknownMirrorBackend},
		{"sqlite path", func(c *Config) { c.Mirror.Path = "" }, ErrMissingMirrorPath},
		{"redis addr", func(c *Config) { c.Mirror.Backend = MirrorRedis }, ErrMissingRedisAddr},
		{"mongo uri", func(c *Config) { c.Mirror.Backend = MirrorMongo }, ErrMissingMongoURI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if tt.wantCode == "" {
				assert.Empty(t, errs)
				assert.NoError(t, cfg.Err())
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantCode, errs[0].Code)
			assert.ErrorContains(t, cfg.Err(), tt.wantCode)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := &Config{Remote: RemoteConfig{Backend: "x"}, Mirror: MirrorConfig{Backend: "y"}}

	errs := cfg.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "[E200] remote.backend: unknown backend \"x\" (want trello or offline)", errs[0].Error())
}
