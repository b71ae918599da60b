// Package repository is the data façade over the remote source and its
// local mirror.
//
// A Repository belongs to one session. It resolves omitted targets from
// its selection state, serves reads from its cache, the remote or the
// mirror (in that order of preference), keeps the mirror in step with
// what the remote returns, and invalidates cache slots after every write.
//
// Nothing here is safe for concurrent use. Create one Repository per
// session.
package repository

import (
	"io"
	"log/slog"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/reconcile"
	"github.com/roach88/boardctl/internal/remote"
	"github.com/roach88/boardctl/internal/selection"
)

// Repository answers every domain operation for one session.
type Repository struct {
	remote remote.Source
	mirror mirror.Store
	engine *reconcile.Engine
	cache  *cache.Manager
	sel    *selection.State
	ids    reconcile.IDGenerator
	logger *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithLogger sets the logger used by the repository and its sync engine.
func WithLogger(l *slog.Logger) RepositoryOption {
	return func(r *Repository) { r.logger = l }
}

// WithIDGenerator sets the generator for new local ids.
func WithIDGenerator(g reconcile.IDGenerator) RepositoryOption {
	return func(r *Repository) { r.ids = g }
}

// WithCache shares a cache manager, mainly so tests can inspect it.
func WithCache(m *cache.Manager) RepositoryOption {
	return func(r *Repository) { r.cache = m }
}

// WithSelection starts the session from an existing selection.
func WithSelection(s *selection.State) RepositoryOption {
	return func(r *Repository) { r.sel = s }
}

// New creates a Repository. It panics when either adapter is nil, since
// that is a wiring error rather than a runtime condition.
func New(src remote.Source, store mirror.Store, opts ...RepositoryOption) *Repository {
	if src == nil {
		panic("repository.New: remote source is nil")
	}
	if store == nil {
		panic("repository.New: mirror store is nil")
	}

	r := &Repository{
		remote: src,
		mirror: store,
		ids:    reconcile.UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.New()
	}
	if r.sel == nil {
		r.sel = selection.New()
	}
	r.engine = reconcile.New(store,
		reconcile.WithIDGenerator(r.ids),
		reconcile.WithLogger(r.logger),
	)
	return r
}

// Selection returns the session's selection state.
func (r *Repository) Selection() *selection.State {
	return r.sel
}

// Cache returns the session's cache manager.
func (r *Repository) Cache() *cache.Manager {
	return r.cache
}
