package trello

import (
	"strings"
	"time"

	"github.com/roach88/boardctl/internal/model"
)

// dueLayout is the timestamp format Trello emits and accepts.
const dueLayout = "2006-01-02T15:04:05.000Z"

type boardJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IDBoard string `json:"idBoard"`
}

type cardJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Desc         string   `json:"desc"`
	Due          *string  `json:"due"`
	DueComplete  bool     `json:"dueComplete"`
	IDLabels     []string `json:"idLabels"`
	IDChecklists []string `json:"idChecklists"`
	IDList       string   `json:"idList"`
}

type labelJSON struct {
	ID      string `json:"id"`
	IDBoard string `json:"idBoard"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

type checklistJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IDCard string `json:"idCard"`
}

type checkItemJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	IDChecklist string `json:"idChecklist"`
}

type actionJSON struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Data struct {
		Text string `json:"text"`
		Card struct {
			ID string `json:"id"`
		} `json:"card"`
	} `json:"data"`
	MemberCreator struct {
		FullName string `json:"fullName"`
	} `json:"memberCreator"`
}

const (
	stateComplete   = "complete"
	stateIncomplete = "incomplete"
)

func (b boardJSON) toModel() model.Board {
	return model.Board{ID: model.RemoteID(b.ID), Name: b.Name}
}

func (l listJSON) toModel() model.BoardList {
	return model.BoardList{ID: model.RemoteID(l.ID), Name: l.Name, BoardID: model.RemoteID(l.IDBoard)}
}

func (c cardJSON) toModel() model.Card {
	card := model.Card{
		ID:           model.RemoteID(c.ID),
		Name:         c.Name,
		Description:  c.Desc,
		DueComplete:  c.DueComplete,
		LabelIDs:     remoteIDs(c.IDLabels),
		ChecklistIDs: remoteIDs(c.IDChecklists),
		ListID:       model.RemoteID(c.IDList),
	}
	if c.Due != nil {
		card.DueDateSeconds = parseTime(*c.Due)
	}
	return card
}

func (l labelJSON) toModel() model.CardLabel {
	return model.CardLabel{
		ID:      model.RemoteID(l.ID),
		BoardID: model.RemoteID(l.IDBoard),
		Name:    l.Name,
		Color:   l.Color,
	}
}

func (c checklistJSON) toModel() model.CardChecklist {
	return model.CardChecklist{ID: model.RemoteID(c.ID), Name: c.Name, CardID: model.RemoteID(c.IDCard)}
}

func (t checkItemJSON) toModel() model.CardChecklistTask {
	return model.CardChecklistTask{
		ID:          model.RemoteID(t.ID),
		Name:        t.Name,
		IsComplete:  t.State == stateComplete,
		ChecklistID: model.RemoteID(t.IDChecklist),
	}
}

func (a actionJSON) toModel() model.CardComment {
	return model.CardComment{
		ID:                 model.RemoteID(a.ID),
		Text:               a.Data.Text,
		CommenterName:      a.MemberCreator.FullName,
		CommentTimeSeconds: parseTime(a.Date),
		CardID:             model.RemoteID(a.Data.Card.ID),
	}
}

func convert[M any, W interface{ toModel() M }](in []W) []M {
	out := make([]M, 0, len(in))
	for _, w := range in {
		out = append(out, w.toModel())
	}
	return out
}

func remoteIDs(ids []string) []model.ID {
	out := make([]model.ID, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.RemoteID(id))
	}
	return out
}

// joinRemote returns the comma-separated remote ids. Identifiers without a
// remote side cannot be sent and are skipped.
func joinRemote(ids []model.ID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id.HasRemote() {
			parts = append(parts, id.Remote)
		}
	}
	return strings.Join(parts, ",")
}

func parseTime(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0
	}
	return t.Unix()
}

func formatDue(seconds int64) string {
	if seconds == 0 {
		return "null"
	}
	return time.Unix(seconds, 0).UTC().Format(dueLayout)
}

func taskState(complete bool) string {
	if complete {
		return stateComplete
	}
	return stateIncomplete
}
