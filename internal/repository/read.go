package repository

import (
	"context"
	"errors"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/reconcile"
	"github.com/roach88/boardctl/internal/remote"
)

// collectionRead describes one read-all operation.
type collectionRead[T any] struct {
	op         string
	slot       cache.Slot
	collection mirror.Collection
	// parent is zero for boards.
	parent model.ID
	// fetch receives the parent's remote id, or "" for boards.
	fetch func(ctx context.Context, parentRemote string) ([]T, error)
}

// readAll serves a collection from the cache, the remote or the mirror,
// in that order. When both backends fail the last cached value for the
// same parent is returned as stale; without one the remote and mirror
// errors are both returned.
func readAll[T any, P interface {
	*T
	model.Entity
}](ctx context.Context, r *Repository, rd collectionRead[T]) (Result[T], error) {
	res := Result[T]{Source: FromCache}
	var remoteErr *RemoteUnavailableError

	items, hit, err := cache.GetOrFetch(r.cache, rd.slot, rd.parent, func() ([]T, error) {
		fetched, ferr := fetchRemote(ctx, rd)
		if ferr == nil {
			res.Source = FromRemote
			out, serr := reconcile.Reconcile[T, P](ctx, r.engine, rd.collection, rd.parent, fetched)
			if serr != nil {
				r.logger.Warn("mirror sync skipped", "op", rd.op, "collection", string(rd.collection), "error", serr)
				res.Sync = unsynced[T, P](rd.collection, fetched, serr)
				return fetched, nil
			}
			res.Sync = out.Partial
			return out.Items, nil
		}

		remoteErr = &RemoteUnavailableError{Op: rd.op, Err: ferr}
		r.logger.Warn("remote read failed, trying mirror", "op", rd.op, "error", ferr)

		decoded, merr := readMirror[T, P](ctx, r.mirror, rd)
		if merr != nil {
			return nil, errors.Join(remoteErr, &MirrorUnavailableError{Op: rd.op, Err: merr})
		}
		res.Source = FromMirror
		return decoded, nil
	})
	if err != nil {
		if last, ok := cache.Last[T](r.cache, rd.slot, rd.parent); ok {
			r.logger.Warn("serving stale cache", "op", rd.op, "count", len(last), "error", err)
			return Result[T]{Items: last, Source: FromCache, Stale: true, RemoteErr: remoteErr}, nil
		}
		return Result[T]{}, err
	}

	res.Items = items
	if remoteErr != nil {
		res.RemoteErr = remoteErr
	}
	r.logger.Debug("read", "op", rd.op, "source", res.Source.String(), "count", len(items), "hit", hit)
	return res, nil
}

func readMirror[T any, P interface {
	*T
	model.Entity
}](ctx context.Context, store mirror.Store, rd collectionRead[T]) ([]T, error) {
	docs, err := store.Find(ctx, rd.collection, rd.parent)
	if err != nil {
		return nil, err
	}
	return mirror.DecodeAll[T, P](docs)
}

func fetchRemote[T any](ctx context.Context, rd collectionRead[T]) ([]T, error) {
	parentRemote := ""
	if !rd.parent.IsZero() {
		id, err := remote.RequireRemote(rd.parent)
		if err != nil {
			return nil, err
		}
		parentRemote = id
	}
	return rd.fetch(ctx, parentRemote)
}

// unsynced reports every item as failed when the mirror could not be read
// before syncing.
func unsynced[T any, P interface {
	*T
	model.Entity
}](c mirror.Collection, items []T, err error) *reconcile.PartialFailure {
	if len(items) == 0 {
		return nil
	}
	failed := make([]reconcile.EntityFailure, 0, len(items))
	for i := range items {
		p := P(&items[i])
		failed = append(failed, reconcile.EntityFailure{Key: p.Ident().Key(), Name: p.DisplayName(), Err: err})
	}
	return &reconcile.PartialFailure{Collection: c, Failed: failed}
}
