// Package reconcile merges collections read from the remote into the mirror.
//
// Matching is by remote id only. A remote entity with a mirror counterpart
// inherits the counterpart's local id and is upserted with its current
// fields; anything else gets a freshly minted local id and is inserted.
// Entities missing from the remote are never pruned.
//
// Each write is independent: one failed write is recorded and the batch
// moves on, so a flaky mirror loses at most the entities it rejected.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// Engine writes remote collections into a mirror.
type Engine struct {
	store  mirror.Store
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the UUIDv7 local id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithLogger sets the logger for write failures and batch summaries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine writing into store.
func New(store mirror.Store, opts ...Option) *Engine {
	if store == nil {
		panic("reconcile.New: store is nil")
	}
	e := &Engine{
		store:  store,
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EntityFailure is one rejected write.
type EntityFailure struct {
	Key  string
	Name string
	Err  error
}

// PartialFailure lists the entities of one batch the mirror rejected.
type PartialFailure struct {
	Collection mirror.Collection
	Failed     []EntityFailure
}

func (p *PartialFailure) Error() string {
	names := make([]string, 0, len(p.Failed))
	for _, f := range p.Failed {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("sync %s: %d write(s) failed: %s", p.Collection, len(p.Failed), strings.Join(names, ", "))
}

func (p *PartialFailure) Unwrap() []error {
	errs := make([]error, 0, len(p.Failed))
	for _, f := range p.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// Outcome is the result of one Reconcile call. Items carry both identifier
// sides wherever the mirror accepted them.
type Outcome[T any] struct {
	Items    []T
	Inserted int
	Updated  int
	Partial  *PartialFailure
}

// Reconcile writes remote into collection c under parent and returns the
// entities with their mirror identifiers attached.
//
// The error is non-nil only when the mirror cannot be read at all; rejected
// writes are reported through Outcome.Partial.
func Reconcile[T any, P interface {
	*T
	model.Entity
}](ctx context.Context, e *Engine, c mirror.Collection, parent model.ID, remote []T) (Outcome[T], error) {
	docs, err := e.store.Find(ctx, c, parent)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("sync %s: read mirror: %w", c, err)
	}
	locals := indexByRemote(docs)

	out := Outcome[T]{Items: make([]T, 0, len(remote))}
	var failed []EntityFailure
	var everywhere map[string]string

	for _, item := range remote {
		p := P(&item)
		id := p.Ident()
		if pp := p.ParentIdent(); pp != nil && !parent.IsZero() {
			*pp = parent.Merge(*pp)
		}

		local, known := "", false
		if id.HasRemote() {
			local, known = locals[id.Remote]
		}

		var werr error
		if known {
			id.Local = local
			werr = e.upsert(ctx, c, p)
			if werr == nil {
				out.Updated++
			}
		} else {
			minted := !id.HasLocal()
			if minted {
				id.Local = e.ids.Generate()
			}
			werr = e.insert(ctx, c, p)

			// The entity may live under another parent, e.g. a card moved
			// to a different list. Find it collection-wide and update it.
			if errors.Is(werr, mirror.ErrDuplicate) && id.HasRemote() {
				if everywhere == nil {
					everywhere, werr = e.indexCollection(ctx, c)
				}
				if werr == nil {
					if moved, ok := everywhere[id.Remote]; ok {
						id.Local = moved
						werr = e.upsert(ctx, c, p)
					} else {
						werr = fmt.Errorf("%s: %w", id.Key(), mirror.ErrDuplicate)
					}
				}
				if werr == nil {
					out.Updated++
				}
			} else if werr == nil {
				out.Inserted++
			}

			if werr != nil && minted {
				id.Local = ""
			}
		}

		if werr != nil {
			failed = append(failed, EntityFailure{Key: id.Key(), Name: p.DisplayName(), Err: werr})
			e.logger.Warn("mirror write failed",
				"collection", string(c),
				"key", id.Key(),
				"name", p.DisplayName(),
				"error", werr,
			)
		}
		out.Items = append(out.Items, item)
	}

	if len(failed) > 0 {
		out.Partial = &PartialFailure{Collection: c, Failed: failed}
	}

	e.logger.Debug("sync complete",
		"collection", string(c),
		"parent", parent.Key(),
		"count", len(out.Items),
		"inserted", out.Inserted,
		"updated", out.Updated,
		"failed", len(failed),
	)
	return out, nil
}

// Save writes a single entity, minting a local id when it has none and
// reusing the stored one when its remote id is already mirrored under
// parent. Used after mutations so the mirror sees the remote's answer.
func Save[T any, P interface {
	*T
	model.Entity
}](ctx context.Context, e *Engine, c mirror.Collection, parent model.ID, item T) (T, error) {
	out, err := Reconcile[T, P](ctx, e, c, parent, []T{item})
	if err != nil {
		return item, err
	}
	if out.Partial != nil {
		return out.Items[0], out.Partial
	}
	return out.Items[0], nil
}

func (e *Engine) insert(ctx context.Context, c mirror.Collection, ent model.Entity) error {
	doc, err := mirror.Encode(ent)
	if err != nil {
		return err
	}
	return e.store.Insert(ctx, c, doc)
}

func (e *Engine) upsert(ctx context.Context, c mirror.Collection, ent model.Entity) error {
	doc, err := mirror.Encode(ent)
	if err != nil {
		return err
	}
	return e.store.UpsertByID(ctx, c, doc)
}

func (e *Engine) indexCollection(ctx context.Context, c mirror.Collection) (map[string]string, error) {
	docs, err := e.store.Find(ctx, c, model.ID{})
	if err != nil {
		return nil, err
	}
	return indexByRemote(docs), nil
}

// indexByRemote maps remote id to local id. Documents without both sides
// cannot be matched and are skipped.
func indexByRemote(docs []mirror.Document) map[string]string {
	idx := make(map[string]string, len(docs))
	for _, d := range docs {
		if d.ID.HasRemote() && d.ID.HasLocal() {
			idx[d.ID.Remote] = d.ID.Local
		}
	}
	return idx
}
