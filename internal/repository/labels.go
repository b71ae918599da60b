package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// GetAllBoardLabels returns the labels of board, or of the selected board
// when board is nil.
func (r *Repository) GetAllBoardLabels(ctx context.Context, board *model.Board) (Result[model.CardLabel], error) {
	b, err := r.resolveBoard(board)
	if err != nil {
		return Result[model.CardLabel]{}, err
	}
	return readAll[model.CardLabel](ctx, r, collectionRead[model.CardLabel]{
		op:         "GetAllBoardLabels",
		slot:       cache.Labels,
		collection: mirror.Labels,
		parent:     b.ID,
		fetch:      r.remote.ListLabels,
	})
}

// CreateBoardLabel creates a label on board, or on the selected board.
func (r *Repository) CreateBoardLabel(ctx context.Context, board *model.Board, name, color string) (model.CardLabel, error) {
	b, err := r.resolveBoard(board)
	if err != nil {
		return model.CardLabel{}, err
	}
	boardID, err := requireRemote(OpCreateBoardLabel, b.ID)
	if err != nil {
		return model.CardLabel{}, err
	}

	l, err := r.remote.CreateLabel(ctx, boardID, name, color)
	if err != nil {
		return model.CardLabel{}, remoteFailed(OpCreateBoardLabel, err)
	}
	l = saveMirror[model.CardLabel](ctx, r, OpCreateBoardLabel, mirror.Labels, b.ID, l)
	r.invalidate(OpCreateBoardLabel)
	return l, nil
}

// UpdateBoardLabel renames or recolors the label called name. Empty
// newName or color leave that field unchanged.
func (r *Repository) UpdateBoardLabel(ctx context.Context, board *model.Board, name, newName, color string) (model.CardLabel, error) {
	b, target, err := r.findLabel(ctx, board, name)
	if err != nil {
		return model.CardLabel{}, err
	}
	if _, err := requireRemote(OpUpdateBoardLabel, target.ID); err != nil {
		return model.CardLabel{}, err
	}
	if newName != "" {
		target.Name = newName
	}
	if color != "" {
		target.Color = color
	}

	l, err := r.remote.UpdateLabel(ctx, target)
	if err != nil {
		return model.CardLabel{}, remoteFailed(OpUpdateBoardLabel, err)
	}
	l.ID = l.ID.Merge(target.ID)
	l = saveMirror[model.CardLabel](ctx, r, OpUpdateBoardLabel, mirror.Labels, b.ID, l)
	r.invalidate(OpUpdateBoardLabel)
	return l, nil
}

// DeleteBoardLabel deletes the label called name from the remote and the
// mirror. The selected card, if it carried the label, loses it too.
func (r *Repository) DeleteBoardLabel(ctx context.Context, board *model.Board, name string) (model.CardLabel, error) {
	_, target, err := r.findLabel(ctx, board, name)
	if err != nil {
		return model.CardLabel{}, err
	}
	labelID, err := requireRemote(OpDeleteBoardLabel, target.ID)
	if err != nil {
		return model.CardLabel{}, err
	}

	if err := r.remote.DeleteLabel(ctx, labelID); err != nil {
		return model.CardLabel{}, remoteFailed(OpDeleteBoardLabel, err)
	}
	if err := r.mirror.Delete(ctx, mirror.Labels, target.ID); err != nil {
		r.logger.Warn("mirror delete failed",
			"op", string(OpDeleteBoardLabel),
			"collection", string(mirror.Labels),
			"key", target.ID.Key(),
			"error", err,
		)
	}
	r.invalidate(OpDeleteBoardLabel)

	if card, ok := r.sel.Card(); ok && model.ContainsID(card.LabelIDs, target.ID) {
		card.LabelIDs = model.RemoveID(card.LabelIDs, target.ID)
		r.sel.ReplaceCard(card)
	}
	return target, nil
}

func (r *Repository) findLabel(ctx context.Context, board *model.Board, name string) (model.Board, model.CardLabel, error) {
	b, err := r.resolveBoard(board)
	if err != nil {
		return model.Board{}, model.CardLabel{}, err
	}
	res, err := r.GetAllBoardLabels(ctx, &b)
	if err != nil {
		return model.Board{}, model.CardLabel{}, err
	}
	l, err := MatchName[model.CardLabel](KindLabel, name, res.Items)
	if err != nil {
		return model.Board{}, model.CardLabel{}, err
	}
	return b, l, nil
}
