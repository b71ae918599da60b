package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	// Remote errors (E200-E209)
	ErrUnknownRemoteBackend = "E200" // remote.backend not recognised
	ErrMissingCredentials   = "E201" // trello key or token missing
	ErrInvalidBaseURL       = "E202" // base_url empty
	ErrInvalidTimeout       = "E203" // timeout not a positive duration

	// Mirror errors (E210-E219)
	ErrUnknownMirrorBackend = "E210" // mirror.backend not recognised
	ErrMissingMirrorPath    = "E211" // sqlite path missing
	ErrMissingRedisAddr     = "E212" // redis address missing
	ErrMissingMongoURI      = "E213" // mongo uri missing
)

// ValidationError is one configuration problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate returns every problem found, without stopping at the first.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	switch c.Remote.Backend {
	case RemoteTrello:
		if strings.TrimSpace(c.Remote.Key) == "" || strings.TrimSpace(c.Remote.Token) == "" {
			add("remote.key", ErrMissingCredentials,
				"trello needs remote.key and remote.token (or BOARDCTL_REMOTE_KEY / BOARDCTL_REMOTE_TOKEN)")
		}
		if strings.TrimSpace(c.Remote.BaseURL) == "" {
			add("remote.base_url", ErrInvalidBaseURL, "base_url is required")
		}
		if d, err := c.Remote.TimeoutDuration(); err != nil || d <= 0 {
			add("remote.timeout", ErrInvalidTimeout, "%q is not a positive duration", c.Remote.Timeout)
		}
	case RemoteOffline:
	default:
		add("remote.backend", ErrUnknownRemoteBackend, "unknown backend %q (want %s or %s)",
			c.Remote.Backend, RemoteTrello, RemoteOffline)
	}

	switch c.Mirror.Backend {
	case MirrorSQLite:
		if strings.TrimSpace(c.Mirror.Path) == "" {
			add("mirror.path", ErrMissingMirrorPath, "sqlite needs a database path")
		}
	case MirrorRedis:
		if strings.TrimSpace(c.Mirror.RedisAddr) == "" {
			add("mirror.redis_addr", ErrMissingRedisAddr, "redis needs an address")
		}
	case MirrorMongo:
		if strings.TrimSpace(c.Mirror.MongoURI) == "" {
			add("mirror.mongo_uri", ErrMissingMongoURI, "mongo needs a connection uri")
		}
	default:
		add("mirror.backend", ErrUnknownMirrorBackend, "unknown backend %q (want %s, %s or %s)",
			c.Mirror.Backend, MirrorSQLite, MirrorRedis, MirrorMongo)
	}

	return errs
}

// Err returns the validation problems joined into one error, or nil.
func (c *Config) Err() error {
	problems := c.Validate()
	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = p
	}
	return errors.Join(errs...)
}
