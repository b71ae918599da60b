package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// GetAllBoardLists returns the lists of board, or of the selected board.
func (r *Repository) GetAllBoardLists(ctx context.Context, board *model.Board) (Result[model.BoardList], error) {
	b, err := r.resolveBoard(board)
	if err != nil {
		return Result[model.BoardList]{}, err
	}
	return readAll[model.BoardList](ctx, r, collectionRead[model.BoardList]{
		op:         "GetAllBoardLists",
		slot:       cache.Lists,
		collection: mirror.Lists,
		parent:     b.ID,
		fetch:      r.remote.ListLists,
	})
}

// CreateBoardList creates a list on board, or on the selected board.
func (r *Repository) CreateBoardList(ctx context.Context, board *model.Board, name string) (model.BoardList, error) {
	b, err := r.resolveBoard(board)
	if err != nil {
		return model.BoardList{}, err
	}
	boardID, err := requireRemote(OpCreateBoardList, b.ID)
	if err != nil {
		return model.BoardList{}, err
	}

	l, err := r.remote.CreateList(ctx, boardID, name)
	if err != nil {
		return model.BoardList{}, remoteFailed(OpCreateBoardList, err)
	}
	l = saveMirror[model.BoardList](ctx, r, OpCreateBoardList, mirror.Lists, b.ID, l)
	r.invalidate(OpCreateBoardList)
	return l, nil
}

// SelectBoardList makes the list called name active. An explicit board
// that is not the selected one is selected first.
func (r *Repository) SelectBoardList(ctx context.Context, name string, board *model.Board) (model.BoardList, error) {
	res, err := r.GetAllBoardLists(ctx, board)
	if err != nil {
		return model.BoardList{}, err
	}
	l, err := MatchName[model.BoardList](KindList, name, res.Items)
	if err != nil {
		return model.BoardList{}, err
	}
	r.focusBoard(board)
	r.sel.SelectList(l)
	return l, nil
}

func (r *Repository) focusList(explicit *model.BoardList) {
	if explicit == nil {
		return
	}
	if cur, ok := r.sel.List(); ok && cur.ID.Equal(explicit.ID) {
		return
	}
	r.sel.SelectList(*explicit)
}
