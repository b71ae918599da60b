package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/reconcile"
	"github.com/roach88/boardctl/internal/remote"
)

// saveMirror records the remote's answer to a mutation in the mirror.
// The remote write already succeeded, so a mirror failure is logged and
// the entity is returned as the remote sent it.
func saveMirror[T any, P interface {
	*T
	model.Entity
}](ctx context.Context, r *Repository, op Op, c mirror.Collection, parent model.ID, item T) T {
	saved, err := reconcile.Save[T, P](ctx, r.engine, c, parent, item)
	if err != nil {
		r.logger.Warn("mirror save failed",
			"op", string(op),
			"collection", string(c),
			"error", err,
		)
	}
	return saved
}

func remoteFailed(op Op, err error) error {
	return &RemoteUnavailableError{Op: string(op), Err: err}
}

// requireRemote returns the remote id of a write target.
func requireRemote(op Op, id model.ID) (string, error) {
	rid, err := remote.RequireRemote(id)
	if err != nil {
		return "", remoteFailed(op, err)
	}
	return rid, nil
}

// sameOrReplace keeps the local side of a parent the caller already knew
// when the remote echoes it back with only the remote side set.
func sameOrReplace(known, echoed model.ID) model.ID {
	if echoed.IsZero() {
		return known
	}
	if known.Equal(echoed) {
		return echoed.Merge(known)
	}
	return echoed
}
