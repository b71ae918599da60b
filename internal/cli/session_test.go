package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/boardctl/internal/config"
	"github.com/roach88/boardctl/internal/repository"
)

func writeConfig(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Remote.Backend = config.RemoteOffline
	cfg.Mirror.Path = filepath.Join(dir, "data", "mirror.db")
	if mutate != nil {
		mutate(cfg)
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func TestOpenSession_OfflineSQLite(t *testing.T) {
	path := writeConfig(t, nil)

	s, err := openSession(context.Background(), &RootOptions{ConfigPath: path})
	require.NoError(t, err)

	res, err := s.Repo.GetAllBoards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repository.FromMirror, res.Source)
	assert.Empty(t, res.Items)
	assert.True(t, repository.IsRemoteUnavailable(res.RemoteErr))

	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "data", "mirror.db"))
}

func TestOpenSession_InvalidConfig(t *testing.T) {
	path := writeConfig(t, func(c *config.Config) {
		c.Remote.Backend = config.RemoteTrello
		c.Remote.Key = ""
	})

	_, err := openSession(context.Background(), &RootOptions{ConfigPath: path})

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorContains(t, err, config.ErrMissingCredentials)
}

func TestOpenSession_MissingConfigFile(t *testing.T) {
	_, err := openSession(context.Background(), &RootOptions{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOpenSession_UnreachableRedis(t *testing.T) {
	path := writeConfig(t, func(c *config.Config) {
		c.Mirror.Backend = config.MirrorRedis
		c.Mirror.RedisAddr = "127.0.0.1:1"
	})

	_, err := openSession(context.Background(), &RootOptions{ConfigPath: path})

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorContains(t, err, "failed to open mirror")
}

func TestNewLogger_Stderr(t *testing.T) {
	buf := &bytes.Buffer{}

	logger, closer := newLogger(config.LogConfig{}, false, buf)
	logger.Debug("hidden")
	logger.Info("shown", "op", "GetAllBoards")

	require.NoError(t, closer.Close())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown op=GetAllBoards")
}

func TestNewLogger_VerboseFile(t *testing.T) {
	buf := &bytes.Buffer{}
	file := filepath.Join(t.TempDir(), "logs", "boardctl.log")

	logger, closer := newLogger(config.LogConfig{File: file}, true, buf)
	logger.Debug("mirror sync", "count", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"mirror sync\" count=3")
	assert.Empty(t, buf.String(), "file logging keeps stderr clean")
}

func TestConfigInit(t *testing.T) {
	tc := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "boardctl", "config.yaml")

	out, err := tc.exec("config", "init", "--config", path, "--key", "k", "--token", "t")
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", out)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.Remote.Key)
	assert.Equal(t, "t", cfg.Remote.Token)
	assert.Empty(t, cfg.Validate())

	_, err = tc.exec("config", "init", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = tc.exec("config", "init", "--config", path, "--offline", "--force")
	require.NoError(t, err)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.RemoteOffline, cfg.Remote.Backend)
	assert.Zero(t, tc.opens, "config commands never open a session")
}

func TestConfigShow(t *testing.T) {
	tc := newTestCLI(t)
	path := writeConfig(t, func(c *config.Config) {
		c.Remote.Token = "secret"
		c.Mirror.Backend = config.MirrorRedis
		c.Mirror.RedisAddr = "localhost:6379"
	})

	out, err := tc.exec("config", "show", "--config", path)

	require.NoError(t, err)
	assert.Equal(t, "remote: offline https://api.trello.com/1\nmirror: redis localhost:6379 (prefix boardctl)\n", out)
	assert.NotContains(t, out, "secret")
}
