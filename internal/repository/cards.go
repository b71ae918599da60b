package repository

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/selection"
)

// GetAllListCards returns the cards of list, or of the selected list.
func (r *Repository) GetAllListCards(ctx context.Context, list *model.BoardList) (Result[model.Card], error) {
	l, err := r.sel.ResolveList(list)
	if err != nil {
		return Result[model.Card]{}, err
	}
	return readAll[model.Card](ctx, r, collectionRead[model.Card]{
		op:         "GetAllListCards",
		slot:       cache.Cards,
		collection: mirror.Cards,
		parent:     l.ID,
		fetch:      r.remote.ListCards,
	})
}

// CreateListCard creates a card on list, or on the selected list.
func (r *Repository) CreateListCard(ctx context.Context, list *model.BoardList, name string) (model.Card, error) {
	l, err := r.sel.ResolveList(list)
	if err != nil {
		return model.Card{}, err
	}
	listID, err := requireRemote(OpCreateListCard, l.ID)
	if err != nil {
		return model.Card{}, err
	}

	c, err := r.remote.CreateCard(ctx, listID, name)
	if err != nil {
		return model.Card{}, remoteFailed(OpCreateListCard, err)
	}
	c = saveMirror[model.Card](ctx, r, OpCreateListCard, mirror.Cards, l.ID, c)
	r.invalidate(OpCreateListCard)
	return c, nil
}

// SelectListCard makes the card called name active. An explicit list that
// is not the selected one is selected first.
func (r *Repository) SelectListCard(ctx context.Context, name string, list *model.BoardList) (model.Card, error) {
	res, err := r.GetAllListCards(ctx, list)
	if err != nil {
		return model.Card{}, err
	}
	c, err := MatchName[model.Card](KindCard, name, res.Items)
	if err != nil {
		return model.Card{}, err
	}
	r.focusList(list)
	r.sel.SelectCard(c)
	return c, nil
}

// UpdateCard replaces card on the remote with the given fields.
func (r *Repository) UpdateCard(ctx context.Context, card model.Card) (model.Card, error) {
	return r.updateCard(ctx, OpUpdateCard, card)
}

// MoveCardToList moves card, or the selected card, to the list of the
// selected board called listName. Moving the selected card clears the card
// selection, since it no longer sits under the selected list.
func (r *Repository) MoveCardToList(ctx context.Context, card *model.Card, listName string) (model.Card, error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return model.Card{}, err
	}
	lists, err := r.GetAllBoardLists(ctx, nil)
	if err != nil {
		return model.Card{}, err
	}
	target, err := MatchName[model.BoardList](KindList, listName, lists.Items)
	if err != nil {
		return model.Card{}, err
	}

	wasSelected := r.isSelectedCard(c.ID)
	c.ListID = target.ID
	moved, err := r.updateCard(ctx, OpMoveCardToList, c)
	if err != nil {
		return model.Card{}, err
	}
	if wasSelected {
		if l, ok := r.sel.List(); !ok || !l.ID.Equal(target.ID) {
			r.sel.Clear(selection.LevelCard)
		}
	}
	return moved, nil
}

// SetCardDescription replaces the description of card, or the selected card.
func (r *Repository) SetCardDescription(ctx context.Context, card *model.Card, text string) (model.Card, error) {
	return r.editCard(ctx, OpSetCardDescription, card, func(c *model.Card) { c.Description = text })
}

// SetCardDueDate sets the due date of card, or the selected card.
func (r *Repository) SetCardDueDate(ctx context.Context, card *model.Card, due time.Time) (model.Card, error) {
	return r.editCard(ctx, OpSetCardDueDate, card, func(c *model.Card) { c.DueDateSeconds = due.Unix() })
}

// ClearCardDueDate removes the due date of card, or the selected card.
func (r *Repository) ClearCardDueDate(ctx context.Context, card *model.Card) (model.Card, error) {
	return r.editCard(ctx, OpClearCardDueDate, card, func(c *model.Card) {
		c.DueDateSeconds = 0
		c.DueComplete = false
	})
}

// SetCardDueComplete marks the due date of card, or the selected card,
// as done or not done.
func (r *Repository) SetCardDueComplete(ctx context.Context, card *model.Card, done bool) (model.Card, error) {
	return r.editCard(ctx, OpSetCardDueComplete, card, func(c *model.Card) { c.DueComplete = done })
}

// GetListCardCount returns how many cards list, or the selected list, holds.
func (r *Repository) GetListCardCount(ctx context.Context, list *model.BoardList) (int, Source, error) {
	res, err := r.GetAllListCards(ctx, list)
	if err != nil {
		return 0, 0, err
	}
	return len(res.Items), res.Source, nil
}

// GetListDueDates returns the cards of list, or the selected list, that
// have a due date, earliest first.
func (r *Repository) GetListDueDates(ctx context.Context, list *model.BoardList) ([]model.CardDueDate, Source, error) {
	res, err := r.GetAllListCards(ctx, list)
	if err != nil {
		return nil, 0, err
	}
	out := make([]model.CardDueDate, 0, len(res.Items))
	for _, c := range res.Items {
		if c.HasDueDate() {
			out = append(out, model.CardDueDate{Card: c, DueDate: c.DueDate()})
		}
	}
	slices.SortStableFunc(out, func(a, b model.CardDueDate) int {
		return cmp.Compare(a.Card.DueDateSeconds, b.Card.DueDateSeconds)
	})
	return out, res.Source, nil
}

func (r *Repository) editCard(ctx context.Context, op Op, card *model.Card, edit func(*model.Card)) (model.Card, error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return model.Card{}, err
	}
	edit(&c)
	return r.updateCard(ctx, op, c)
}

// updateCard sends the full card to the remote, mirrors the answer under
// its list and refreshes the selected card's snapshot.
func (r *Repository) updateCard(ctx context.Context, op Op, card model.Card) (model.Card, error) {
	if _, err := requireRemote(op, card.ID); err != nil {
		return model.Card{}, err
	}
	if _, err := requireRemote(op, card.ListID); err != nil {
		return model.Card{}, err
	}

	updated, err := r.remote.UpdateCard(ctx, card)
	if err != nil {
		return model.Card{}, remoteFailed(op, err)
	}
	updated.ID = updated.ID.Merge(card.ID)
	parent := sameOrReplace(card.ListID, updated.ListID)
	updated = saveMirror[model.Card](ctx, r, op, mirror.Cards, parent, updated)
	r.invalidate(op)
	r.sel.ReplaceCard(updated)
	return updated, nil
}

func (r *Repository) isSelectedCard(id model.ID) bool {
	cur, ok := r.sel.Card()
	return ok && cur.ID.Equal(id)
}
