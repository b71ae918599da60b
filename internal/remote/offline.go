package remote

import (
	"context"

	"github.com/roach88/boardctl/internal/model"
)

// Offline is a Source that is never reachable. Reads fall back to the
// mirror; writes fail.
type Offline struct{}

var _ Source = Offline{}

func (Offline) ListBoards(context.Context) ([]model.Board, error) { return nil, ErrOffline }
func (Offline) CreateBoard(context.Context, string) (model.Board, error) {
	return model.Board{}, ErrOffline
}

func (Offline) ListLabels(context.Context, string) ([]model.CardLabel, error) { return nil, ErrOffline }
func (Offline) CreateLabel(context.Context, string, string, string) (model.CardLabel, error) {
	return model.CardLabel{}, ErrOffline
}
func (Offline) UpdateLabel(context.Context, model.CardLabel) (model.CardLabel, error) {
	return model.CardLabel{}, ErrOffline
}
func (Offline) DeleteLabel(context.Context, string) error { return ErrOffline }

func (Offline) ListLists(context.Context, string) ([]model.BoardList, error) { return nil, ErrOffline }
func (Offline) CreateList(context.Context, string, string) (model.BoardList, error) {
	return model.BoardList{}, ErrOffline
}

func (Offline) ListCards(context.Context, string) ([]model.Card, error) { return nil, ErrOffline }
func (Offline) CreateCard(context.Context, string, string) (model.Card, error) {
	return model.Card{}, ErrOffline
}
func (Offline) UpdateCard(context.Context, model.Card) (model.Card, error) {
	return model.Card{}, ErrOffline
}

func (Offline) ListChecklists(context.Context, string) ([]model.CardChecklist, error) {
	return nil, ErrOffline
}
func (Offline) CreateChecklist(context.Context, string, string) (model.CardChecklist, error) {
	return model.CardChecklist{}, ErrOffline
}

func (Offline) ListTasks(context.Context, string) ([]model.CardChecklistTask, error) {
	return nil, ErrOffline
}
func (Offline) CreateTask(context.Context, string, string) (model.CardChecklistTask, error) {
	return model.CardChecklistTask{}, ErrOffline
}
func (Offline) UpdateTask(context.Context, string, model.CardChecklistTask) (model.CardChecklistTask, error) {
	return model.CardChecklistTask{}, ErrOffline
}

func (Offline) ListComments(context.Context, string) ([]model.CardComment, error) {
	return nil, ErrOffline
}
func (Offline) AddComment(context.Context, string, string) (model.CardComment, error) {
	return model.CardComment{}, ErrOffline
}
