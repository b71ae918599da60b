package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/boardctl/internal/config"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/mirror/mongo"
	"github.com/roach88/boardctl/internal/mirror/redis"
	"github.com/roach88/boardctl/internal/mirror/sqlite"
	"github.com/roach88/boardctl/internal/remote"
	"github.com/roach88/boardctl/internal/remote/trello"
	"github.com/roach88/boardctl/internal/repository"
)

// Session owns the repository and the resources behind it.
type Session struct {
	Repo   *repository.Repository
	Logger *slog.Logger

	closers []io.Closer
}

// NewSession wraps an already built repository. Closers run in reverse
// order on Close.
func NewSession(repo *repository.Repository, logger *slog.Logger, closers ...io.Closer) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{Repo: repo, Logger: logger, closers: closers}
}

// Close releases the mirror store and the log file.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// openSession loads configuration and wires the configured backends.
// Every failure here is a setup error and exits with ExitCommandError.
func openSession(ctx context.Context, opts *RootOptions) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if err := cfg.Err(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	logger, logCloser := newLogger(cfg.Log, opts.Verbose || cfg.Log.Verbose, os.Stderr)
	closers := []io.Closer{logCloser}
	fail := func(message string, err error) (*Session, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, WrapExitError(ExitCommandError, message, err)
	}

	src, err := openRemote(cfg.Remote, logger)
	if err != nil {
		return fail("failed to configure remote", err)
	}

	logger.Debug("opening mirror", "backend", cfg.Mirror.Backend)
	store, err := openMirror(ctx, cfg.Mirror)
	if err != nil {
		return fail("failed to open mirror", err)
	}
	closers = append(closers, store)

	repo := repository.New(src, store, repository.WithLogger(logger))
	logger.Debug("session ready", "remote", cfg.Remote.Backend, "mirror", cfg.Mirror.Backend)
	return NewSession(repo, logger, closers...), nil
}

func openRemote(cfg config.RemoteConfig, logger *slog.Logger) (remote.Source, error) {
	switch cfg.Backend {
	case config.RemoteOffline:
		return remote.Offline{}, nil
	case config.RemoteTrello:
		timeout, err := cfg.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		return trello.New(cfg.BaseURL, cfg.Key, cfg.Token,
			trello.WithTimeout(timeout),
			trello.WithLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("unknown remote backend %q", cfg.Backend)
	}
}

func openMirror(ctx context.Context, cfg config.MirrorConfig) (mirror.Store, error) {
	switch cfg.Backend {
	case config.MirrorSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create mirror directory: %w", err)
		}
		return sqlite.Open(cfg.Path)
	case config.MirrorRedis:
		return redis.Open(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case config.MirrorMongo:
		return mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown mirror backend %q", cfg.Backend)
	}
}
