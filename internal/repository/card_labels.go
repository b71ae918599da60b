package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/model"
)

// Card labels are resolved against the labels of the selected board, since
// a card only stores label ids.

// GetCardLabels returns the labels attached to card, or the selected card,
// in board label order.
func (r *Repository) GetCardLabels(ctx context.Context, card *model.Card) (Result[model.CardLabel], error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return Result[model.CardLabel]{}, err
	}
	res, err := r.GetAllBoardLabels(ctx, nil)
	if err != nil {
		return Result[model.CardLabel]{}, err
	}
	attached := make([]model.CardLabel, 0, len(c.LabelIDs))
	for _, l := range res.Items {
		if model.ContainsID(c.LabelIDs, l.ID) {
			attached = append(attached, l)
		}
	}
	res.Items = attached
	return res, nil
}

// AddCardLabel attaches the board label called labelName to card, or the
// selected card. Adding a label the card already has is a no-op.
func (r *Repository) AddCardLabel(ctx context.Context, card *model.Card, labelName string) (model.Card, error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return model.Card{}, err
	}
	labels, err := r.GetAllBoardLabels(ctx, nil)
	if err != nil {
		return model.Card{}, err
	}
	l, err := MatchName[model.CardLabel](KindLabel, labelName, labels.Items)
	if err != nil {
		return model.Card{}, err
	}
	if model.ContainsID(c.LabelIDs, l.ID) {
		return c, nil
	}
	c.LabelIDs = append(append([]model.ID{}, c.LabelIDs...), l.ID)
	return r.updateCard(ctx, OpAddCardLabel, c)
}

// RemoveCardLabel detaches the label called labelName from card, or the
// selected card. A label the card does not carry is reported as not found.
func (r *Repository) RemoveCardLabel(ctx context.Context, card *model.Card, labelName string) (model.Card, error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return model.Card{}, err
	}
	attached, err := r.GetCardLabels(ctx, &c)
	if err != nil {
		return model.Card{}, err
	}
	l, err := MatchName[model.CardLabel](KindLabel, labelName, attached.Items)
	if err != nil {
		return model.Card{}, err
	}
	c.LabelIDs = model.RemoveID(c.LabelIDs, l.ID)
	return r.updateCard(ctx, OpRemoveCardLabel, c)
}
