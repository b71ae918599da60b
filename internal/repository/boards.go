package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// GetAllBoards returns every board.
func (r *Repository) GetAllBoards(ctx context.Context) (Result[model.Board], error) {
	return readAll[model.Board](ctx, r, collectionRead[model.Board]{
		op:         "GetAllBoards",
		slot:       cache.Boards,
		collection: mirror.Boards,
		fetch: func(ctx context.Context, _ string) ([]model.Board, error) {
			return r.remote.ListBoards(ctx)
		},
	})
}

// RefreshBoards drops the cached boards and reads them again.
func (r *Repository) RefreshBoards(ctx context.Context) (Result[model.Board], error) {
	r.invalidate(OpRefreshBoards)
	return r.GetAllBoards(ctx)
}

// CreateBoard creates a board on the remote.
func (r *Repository) CreateBoard(ctx context.Context, name string) (model.Board, error) {
	b, err := r.remote.CreateBoard(ctx, name)
	if err != nil {
		return model.Board{}, remoteFailed(OpCreateBoard, err)
	}
	b = saveMirror[model.Board](ctx, r, OpCreateBoard, mirror.Boards, model.ID{}, b)
	r.invalidate(OpCreateBoard)
	return b, nil
}

// SelectBoard makes the board called name active, clearing every
// selection below it.
func (r *Repository) SelectBoard(ctx context.Context, name string) (model.Board, error) {
	res, err := r.GetAllBoards(ctx)
	if err != nil {
		return model.Board{}, err
	}
	b, err := MatchName[model.Board](KindBoard, name, res.Items)
	if err != nil {
		return model.Board{}, err
	}
	r.sel.SelectBoard(b)
	return b, nil
}

// resolveBoard returns explicit or the selected board.
func (r *Repository) resolveBoard(explicit *model.Board) (model.Board, error) {
	return r.sel.ResolveBoard(explicit)
}

// focusBoard selects an explicit board that differs from the selected one,
// so a selection made under it has a consistent ancestor.
func (r *Repository) focusBoard(explicit *model.Board) {
	if explicit == nil {
		return
	}
	if cur, ok := r.sel.Board(); ok && cur.ID.Equal(explicit.ID) {
		return
	}
	r.sel.SelectBoard(*explicit)
}
