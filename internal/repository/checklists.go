package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// GetCardChecklists returns the checklists of card, or the selected card.
func (r *Repository) GetCardChecklists(ctx context.Context, card *model.Card) (Result[model.CardChecklist], error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return Result[model.CardChecklist]{}, err
	}
	return readAll[model.CardChecklist](ctx, r, collectionRead[model.CardChecklist]{
		op:         "GetCardChecklists",
		slot:       cache.Checklists,
		collection: mirror.Checklists,
		parent:     c.ID,
		fetch:      r.remote.ListChecklists,
	})
}

// CreateCardChecklist adds a checklist to card, or the selected card.
func (r *Repository) CreateCardChecklist(ctx context.Context, card *model.Card, name string) (model.CardChecklist, error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return model.CardChecklist{}, err
	}
	cardID, err := requireRemote(OpCreateCardChecklist, c.ID)
	if err != nil {
		return model.CardChecklist{}, err
	}

	cl, err := r.remote.CreateChecklist(ctx, cardID, name)
	if err != nil {
		return model.CardChecklist{}, remoteFailed(OpCreateCardChecklist, err)
	}
	cl = saveMirror[model.CardChecklist](ctx, r, OpCreateCardChecklist, mirror.Checklists, c.ID, cl)
	r.invalidate(OpCreateCardChecklist)

	if cur, ok := r.sel.Card(); ok && cur.ID.Equal(c.ID) {
		cur.ChecklistIDs = append(append([]model.ID{}, cur.ChecklistIDs...), cl.ID)
		r.sel.ReplaceCard(cur)
	}
	return cl, nil
}

// SelectCardChecklist makes the checklist called name active. An explicit
// card that is not the selected one is selected first.
func (r *Repository) SelectCardChecklist(ctx context.Context, name string, card *model.Card) (model.CardChecklist, error) {
	res, err := r.GetCardChecklists(ctx, card)
	if err != nil {
		return model.CardChecklist{}, err
	}
	cl, err := MatchName[model.CardChecklist](KindChecklist, name, res.Items)
	if err != nil {
		return model.CardChecklist{}, err
	}
	if card != nil && !r.isSelectedCard(card.ID) {
		r.sel.SelectCard(*card)
	}
	r.sel.SelectChecklist(cl)
	return cl, nil
}
