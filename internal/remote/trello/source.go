package trello

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/remote"
)

var _ remote.Source = (*Client)(nil)

func (c *Client) ListBoards(ctx context.Context) ([]model.Board, error) {
	var out []boardJSON
	if err := c.do(ctx, http.MethodGet, "/members/me/boards", url.Values{"fields": {"id,name"}}, &out); err != nil {
		return nil, err
	}
	return convert[model.Board](out), nil
}

func (c *Client) CreateBoard(ctx context.Context, name string) (model.Board, error) {
	var out boardJSON
	params := url.Values{"name": {name}, "defaultLists": {"false"}}
	if err := c.do(ctx, http.MethodPost, "/boards", params, &out); err != nil {
		return model.Board{}, err
	}
	return out.toModel(), nil
}

func (c *Client) ListLabels(ctx context.Context, boardID string) ([]model.CardLabel, error) {
	var out []labelJSON
	if err := c.do(ctx, http.MethodGet, "/boards/"+escape(boardID)+"/labels", nil, &out); err != nil {
		return nil, err
	}
	return convert[model.CardLabel](out), nil
}

func (c *Client) CreateLabel(ctx context.Context, boardID, name, color string) (model.CardLabel, error) {
	var out labelJSON
	params := url.Values{"idBoard": {boardID}, "name": {name}, "color": {color}}
	if err := c.do(ctx, http.MethodPost, "/labels", params, &out); err != nil {
		return model.CardLabel{}, err
	}
	return out.toModel(), nil
}

func (c *Client) UpdateLabel(ctx context.Context, label model.CardLabel) (model.CardLabel, error) {
	id, err := remote.RequireRemote(label.ID)
	if err != nil {
		return model.CardLabel{}, err
	}
	var out labelJSON
	params := url.Values{"name": {label.Name}, "color": {label.Color}}
	if err := c.do(ctx, http.MethodPut, "/labels/"+escape(id), params, &out); err != nil {
		return model.CardLabel{}, err
	}
	return out.toModel(), nil
}

func (c *Client) DeleteLabel(ctx context.Context, labelID string) error {
	return c.do(ctx, http.MethodDelete, "/labels/"+escape(labelID), nil, nil)
}

func (c *Client) ListLists(ctx context.Context, boardID string) ([]model.BoardList, error) {
	var out []listJSON
	if err := c.do(ctx, http.MethodGet, "/boards/"+escape(boardID)+"/lists", nil, &out); err != nil {
		return nil, err
	}
	return convert[model.BoardList](out), nil
}

func (c *Client) CreateList(ctx context.Context, boardID, name string) (model.BoardList, error) {
	var out listJSON
	params := url.Values{"idBoard": {boardID}, "name": {name}, "pos": {"bottom"}}
	if err := c.do(ctx, http.MethodPost, "/lists", params, &out); err != nil {
		return model.BoardList{}, err
	}
	return out.toModel(), nil
}

func (c *Client) ListCards(ctx context.Context, listID string) ([]model.Card, error) {
	var out []cardJSON
	if err := c.do(ctx, http.MethodGet, "/lists/"+escape(listID)+"/cards", nil, &out); err != nil {
		return nil, err
	}
	return convert[model.Card](out), nil
}

func (c *Client) CreateCard(ctx context.Context, listID, name string) (model.Card, error) {
	var out cardJSON
	params := url.Values{"idList": {listID}, "name": {name}, "pos": {"bottom"}}
	if err := c.do(ctx, http.MethodPost, "/cards", params, &out); err != nil {
		return model.Card{}, err
	}
	return out.toModel(), nil
}

// UpdateCard sends every mutable field. A zero due date clears it.
func (c *Client) UpdateCard(ctx context.Context, card model.Card) (model.Card, error) {
	id, err := remote.RequireRemote(card.ID)
	if err != nil {
		return model.Card{}, err
	}
	listID, err := remote.RequireRemote(card.ListID)
	if err != nil {
		return model.Card{}, err
	}

	params := url.Values{
		"name":        {card.Name},
		"desc":        {card.Description},
		"due":         {formatDue(card.DueDateSeconds)},
		"dueComplete": {strconv.FormatBool(card.DueComplete)},
		"idList":      {listID},
		"idLabels":    {joinRemote(card.LabelIDs)},
	}
	var out cardJSON
	if err := c.do(ctx, http.MethodPut, "/cards/"+escape(id), params, &out); err != nil {
		return model.Card{}, err
	}
	return out.toModel(), nil
}

func (c *Client) ListChecklists(ctx context.Context, cardID string) ([]model.CardChecklist, error) {
	var out []checklistJSON
	if err := c.do(ctx, http.MethodGet, "/cards/"+escape(cardID)+"/checklists", nil, &out); err != nil {
		return nil, err
	}
	return convert[model.CardChecklist](out), nil
}

func (c *Client) CreateChecklist(ctx context.Context, cardID, name string) (model.CardChecklist, error) {
	var out checklistJSON
	params := url.Values{"idCard": {cardID}, "name": {name}}
	if err := c.do(ctx, http.MethodPost, "/checklists", params, &out); err != nil {
		return model.CardChecklist{}, err
	}
	return out.toModel(), nil
}

func (c *Client) ListTasks(ctx context.Context, checklistID string) ([]model.CardChecklistTask, error) {
	var out []checkItemJSON
	if err := c.do(ctx, http.MethodGet, "/checklists/"+escape(checklistID)+"/checkItems", nil, &out); err != nil {
		return nil, err
	}
	return convert[model.CardChecklistTask](out), nil
}

func (c *Client) CreateTask(ctx context.Context, checklistID, name string) (model.CardChecklistTask, error) {
	var out checkItemJSON
	params := url.Values{"name": {name}}
	if err := c.do(ctx, http.MethodPost, "/checklists/"+escape(checklistID)+"/checkItems", params, &out); err != nil {
		return model.CardChecklistTask{}, err
	}
	return out.toModel(), nil
}

func (c *Client) UpdateTask(ctx context.Context, cardID string, task model.CardChecklistTask) (model.CardChecklistTask, error) {
	id, err := remote.RequireRemote(task.ID)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	params := url.Values{"name": {task.Name}, "state": {taskState(task.IsComplete)}}
	var out checkItemJSON
	path := "/cards/" + escape(cardID) + "/checkItem/" + escape(id)
	if err := c.do(ctx, http.MethodPut, path, params, &out); err != nil {
		return model.CardChecklistTask{}, err
	}
	return out.toModel(), nil
}

func (c *Client) ListComments(ctx context.Context, cardID string) ([]model.CardComment, error) {
	var out []actionJSON
	params := url.Values{"filter": {"commentCard"}}
	if err := c.do(ctx, http.MethodGet, "/cards/"+escape(cardID)+"/actions", params, &out); err != nil {
		return nil, err
	}
	return convert[model.CardComment](out), nil
}

func (c *Client) AddComment(ctx context.Context, cardID, text string) (model.CardComment, error) {
	var out actionJSON
	params := url.Values{"text": {text}}
	if err := c.do(ctx, http.MethodPost, "/cards/"+escape(cardID)+"/actions/comments", params, &out); err != nil {
		return model.CardComment{}, err
	}
	return out.toModel(), nil
}
