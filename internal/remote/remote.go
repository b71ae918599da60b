// Package remote defines the capability the repository needs from the
// remote source of truth.
//
// Every method addresses entities by remote id and returns entities that
// carry only the remote side of their identifier. Any call may fail; the
// repository decides what to do about it.
package remote

import (
	"context"
	"errors"

	"github.com/roach88/boardctl/internal/model"
)

// ErrNoRemoteID is returned when an entity cannot be addressed on the remote
// because it has never been assigned a remote id.
var ErrNoRemoteID = errors.New("remote: entity has no remote id")

// ErrOffline is returned by the offline source for every call.
var ErrOffline = errors.New("remote: offline")

// Source is the remote source adapter.
type Source interface {
	ListBoards(ctx context.Context) ([]model.Board, error)
	CreateBoard(ctx context.Context, name string) (model.Board, error)

	ListLabels(ctx context.Context, boardID string) ([]model.CardLabel, error)
	CreateLabel(ctx context.Context, boardID, name, color string) (model.CardLabel, error)
	UpdateLabel(ctx context.Context, label model.CardLabel) (model.CardLabel, error)
	DeleteLabel(ctx context.Context, labelID string) error

	ListLists(ctx context.Context, boardID string) ([]model.BoardList, error)
	CreateList(ctx context.Context, boardID, name string) (model.BoardList, error)

	ListCards(ctx context.Context, listID string) ([]model.Card, error)
	CreateCard(ctx context.Context, listID, name string) (model.Card, error)
	// UpdateCard replaces every mutable field of the card.
	UpdateCard(ctx context.Context, card model.Card) (model.Card, error)

	ListChecklists(ctx context.Context, cardID string) ([]model.CardChecklist, error)
	CreateChecklist(ctx context.Context, cardID, name string) (model.CardChecklist, error)

	ListTasks(ctx context.Context, checklistID string) ([]model.CardChecklistTask, error)
	CreateTask(ctx context.Context, checklistID, name string) (model.CardChecklistTask, error)
	// UpdateTask needs the owning card because the remote addresses check
	// items through their card.
	UpdateTask(ctx context.Context, cardID string, task model.CardChecklistTask) (model.CardChecklistTask, error)

	ListComments(ctx context.Context, cardID string) ([]model.CardComment, error)
	AddComment(ctx context.Context, cardID, text string) (model.CardComment, error)
}

// RequireRemote returns id.Remote, or ErrNoRemoteID when it is absent.
func RequireRemote(id model.ID) (string, error) {
	if !id.HasRemote() {
		return "", ErrNoRemoteID
	}
	return id.Remote, nil
}
