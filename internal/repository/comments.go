package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// GetCardComments returns the comments on card, or the selected card.
func (r *Repository) GetCardComments(ctx context.Context, card *model.Card) (Result[model.CardComment], error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return Result[model.CardComment]{}, err
	}
	return readAll[model.CardComment](ctx, r, collectionRead[model.CardComment]{
		op:         "GetCardComments",
		slot:       cache.Comments,
		collection: mirror.Comments,
		parent:     c.ID,
		fetch:      r.remote.ListComments,
	})
}

// AddCardComment posts text as a comment on card, or the selected card.
func (r *Repository) AddCardComment(ctx context.Context, card *model.Card, text string) (model.CardComment, error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return model.CardComment{}, err
	}
	cardID, err := requireRemote(OpAddCardComment, c.ID)
	if err != nil {
		return model.CardComment{}, err
	}

	cm, err := r.remote.AddComment(ctx, cardID, text)
	if err != nil {
		return model.CardComment{}, remoteFailed(OpAddCardComment, err)
	}
	cm = saveMirror[model.CardComment](ctx, r, OpAddCardComment, mirror.Comments, c.ID, cm)
	r.invalidate(OpAddCardComment)
	return cm, nil
}
