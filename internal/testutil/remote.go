package testutil

import (
	"context"
	"fmt"

	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/remote"
)

// FakeRemote is a scripted, in-memory remote.Source.
//
// Collections are keyed by the remote id of their parent. Created entities
// get ids of the form "<kind>-N". Every call is counted in Calls under its
// method name.
type FakeRemote struct {
	Boards     []model.Board
	Lists      map[string][]model.BoardList
	Labels     map[string][]model.CardLabel
	Cards      map[string][]model.Card
	Checklists map[string][]model.CardChecklist
	Tasks      map[string][]model.CardChecklistTask
	Comments   map[string][]model.CardComment

	// Err, when set, fails every call.
	Err error
	// FailOn fails individual methods by name, e.g. "ListBoards".
	FailOn map[string]error

	// Commenter is the author recorded on new comments.
	Commenter string
	// Now supplies comment timestamps in unix seconds.
	Now func() int64

	Calls map[string]int
	ids   *IDSequence
}

var _ remote.Source = (*FakeRemote)(nil)

// NewFakeRemote returns an empty remote.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		Lists:      map[string][]model.BoardList{},
		Labels:     map[string][]model.CardLabel{},
		Cards:      map[string][]model.Card{},
		Checklists: map[string][]model.CardChecklist{},
		Tasks:      map[string][]model.CardChecklistTask{},
		Comments:   map[string][]model.CardComment{},
		FailOn:     map[string]error{},
		Commenter:  "Test User",
		Now:        func() int64 { return 1700000000 },
		Calls:      map[string]int{},
		ids:        NewIDSequence(""),
	}
}

func (f *FakeRemote) call(method string) error {
	f.Calls[method]++
	if f.Err != nil {
		return f.Err
	}
	if err, ok := f.FailOn[method]; ok {
		return err
	}
	return nil
}

func (f *FakeRemote) newID(kind string) string {
	return kind + f.ids.Generate()
}

func (f *FakeRemote) ListBoards(context.Context) ([]model.Board, error) {
	if err := f.call("ListBoards"); err != nil {
		return nil, err
	}
	return clone(f.Boards), nil
}

func (f *FakeRemote) CreateBoard(_ context.Context, name string) (model.Board, error) {
	if err := f.call("CreateBoard"); err != nil {
		return model.Board{}, err
	}
	b := model.Board{ID: model.RemoteID(f.newID("board-")), Name: name}
	f.Boards = append(f.Boards, b)
	return b, nil
}

func (f *FakeRemote) ListLabels(_ context.Context, boardID string) ([]model.CardLabel, error) {
	if err := f.call("ListLabels"); err != nil {
		return nil, err
	}
	return clone(f.Labels[boardID]), nil
}

func (f *FakeRemote) CreateLabel(_ context.Context, boardID, name, color string) (model.CardLabel, error) {
	if err := f.call("CreateLabel"); err != nil {
		return model.CardLabel{}, err
	}
	l := model.CardLabel{ID: model.RemoteID(f.newID("label-")), BoardID: model.RemoteID(boardID), Name: name, Color: color}
	f.Labels[boardID] = append(f.Labels[boardID], l)
	return l, nil
}

func (f *FakeRemote) UpdateLabel(_ context.Context, label model.CardLabel) (model.CardLabel, error) {
	if err := f.call("UpdateLabel"); err != nil {
		return model.CardLabel{}, err
	}
	for board, labels := range f.Labels {
		for i, l := range labels {
			if l.ID.Remote == label.ID.Remote {
				l.Name, l.Color = label.Name, label.Color
				f.Labels[board][i] = l
				return l, nil
			}
		}
	}
	return model.CardLabel{}, notFound("label", label.ID.Remote)
}

func (f *FakeRemote) DeleteLabel(_ context.Context, labelID string) error {
	if err := f.call("DeleteLabel"); err != nil {
		return err
	}
	for board, labels := range f.Labels {
		for i, l := range labels {
			if l.ID.Remote == labelID {
				f.Labels[board] = append(labels[:i:i], labels[i+1:]...)
				f.dropLabelFromCards(labelID)
				return nil
			}
		}
	}
	return notFound("label", labelID)
}

func (f *FakeRemote) dropLabelFromCards(labelID string) {
	for list, cards := range f.Cards {
		for i := range cards {
			f.Cards[list][i].LabelIDs = model.RemoveID(cards[i].LabelIDs, model.RemoteID(labelID))
		}
	}
}

func (f *FakeRemote) ListLists(_ context.Context, boardID string) ([]model.BoardList, error) {
	if err := f.call("ListLists"); err != nil {
		return nil, err
	}
	return clone(f.Lists[boardID]), nil
}

func (f *FakeRemote) CreateList(_ context.Context, boardID, name string) (model.BoardList, error) {
	if err := f.call("CreateList"); err != nil {
		return model.BoardList{}, err
	}
	l := model.BoardList{ID: model.RemoteID(f.newID("list-")), Name: name, BoardID: model.RemoteID(boardID)}
	f.Lists[boardID] = append(f.Lists[boardID], l)
	return l, nil
}

func (f *FakeRemote) ListCards(_ context.Context, listID string) ([]model.Card, error) {
	if err := f.call("ListCards"); err != nil {
		return nil, err
	}
	return clone(f.Cards[listID]), nil
}

func (f *FakeRemote) CreateCard(_ context.Context, listID, name string) (model.Card, error) {
	if err := f.call("CreateCard"); err != nil {
		return model.Card{}, err
	}
	c := model.Card{
		ID:           model.RemoteID(f.newID("card-")),
		Name:         name,
		LabelIDs:     []model.ID{},
		ChecklistIDs: []model.ID{},
		ListID:       model.RemoteID(listID),
	}
	f.Cards[listID] = append(f.Cards[listID], c)
	return c, nil
}

// UpdateCard replaces the stored card and moves it when its list changed.
// Identifiers are reduced to their remote side, as a real remote would.
func (f *FakeRemote) UpdateCard(_ context.Context, card model.Card) (model.Card, error) {
	if err := f.call("UpdateCard"); err != nil {
		return model.Card{}, err
	}
	if !card.ID.HasRemote() || !card.ListID.HasRemote() {
		return model.Card{}, remote.ErrNoRemoteID
	}

	updated := card
	updated.ID = model.RemoteID(card.ID.Remote)
	updated.ListID = model.RemoteID(card.ListID.Remote)
	updated.LabelIDs = remoteOnly(card.LabelIDs)
	updated.ChecklistIDs = remoteOnly(card.ChecklistIDs)

	for list, cards := range f.Cards {
		for i, c := range cards {
			if c.ID.Remote != card.ID.Remote {
				continue
			}
			if list == updated.ListID.Remote {
				f.Cards[list][i] = updated
			} else {
				f.Cards[list] = append(cards[:i:i], cards[i+1:]...)
				f.Cards[updated.ListID.Remote] = append(f.Cards[updated.ListID.Remote], updated)
			}
			return updated, nil
		}
	}
	return model.Card{}, notFound("card", card.ID.Remote)
}

func (f *FakeRemote) ListChecklists(_ context.Context, cardID string) ([]model.CardChecklist, error) {
	if err := f.call("ListChecklists"); err != nil {
		return nil, err
	}
	return clone(f.Checklists[cardID]), nil
}

func (f *FakeRemote) CreateChecklist(_ context.Context, cardID, name string) (model.CardChecklist, error) {
	if err := f.call("CreateChecklist"); err != nil {
		return model.CardChecklist{}, err
	}
	c := model.CardChecklist{ID: model.RemoteID(f.newID("checklist-")), Name: name, CardID: model.RemoteID(cardID)}
	f.Checklists[cardID] = append(f.Checklists[cardID], c)
	for list, cards := range f.Cards {
		for i := range cards {
			if cards[i].ID.Remote == cardID {
				f.Cards[list][i].ChecklistIDs = append(cards[i].ChecklistIDs, c.ID)
			}
		}
	}
	return c, nil
}

func (f *FakeRemote) ListTasks(_ context.Context, checklistID string) ([]model.CardChecklistTask, error) {
	if err := f.call("ListTasks"); err != nil {
		return nil, err
	}
	return clone(f.Tasks[checklistID]), nil
}

func (f *FakeRemote) CreateTask(_ context.Context, checklistID, name string) (model.CardChecklistTask, error) {
	if err := f.call("CreateTask"); err != nil {
		return model.CardChecklistTask{}, err
	}
	t := model.CardChecklistTask{ID: model.RemoteID(f.newID("task-")), Name: name, ChecklistID: model.RemoteID(checklistID)}
	f.Tasks[checklistID] = append(f.Tasks[checklistID], t)
	return t, nil
}

func (f *FakeRemote) UpdateTask(_ context.Context, cardID string, task model.CardChecklistTask) (model.CardChecklistTask, error) {
	if err := f.call("UpdateTask"); err != nil {
		return model.CardChecklistTask{}, err
	}
	if !task.ID.HasRemote() {
		return model.CardChecklistTask{}, remote.ErrNoRemoteID
	}
	owned := false
	for _, cl := range f.Checklists[cardID] {
		if cl.ID.Remote == task.ChecklistID.Remote {
			owned = true
		}
	}
	if !owned {
		return model.CardChecklistTask{}, notFound("checklist on card "+cardID, task.ChecklistID.Remote)
	}
	for checklist, tasks := range f.Tasks {
		for i, t := range tasks {
			if t.ID.Remote == task.ID.Remote {
				t.Name, t.IsComplete = task.Name, task.IsComplete
				f.Tasks[checklist][i] = t
				return t, nil
			}
		}
	}
	return model.CardChecklistTask{}, notFound("task", task.ID.Remote)
}

func (f *FakeRemote) ListComments(_ context.Context, cardID string) ([]model.CardComment, error) {
	if err := f.call("ListComments"); err != nil {
		return nil, err
	}
	return clone(f.Comments[cardID]), nil
}

func (f *FakeRemote) AddComment(_ context.Context, cardID, text string) (model.CardComment, error) {
	if err := f.call("AddComment"); err != nil {
		return model.CardComment{}, err
	}
	c := model.CardComment{
		ID:                 model.RemoteID(f.newID("comment-")),
		Text:               text,
		CommenterName:      f.Commenter,
		CommentTimeSeconds: f.Now(),
		CardID:             model.RemoteID(cardID),
	}
	f.Comments[cardID] = append(f.Comments[cardID], c)
	return c, nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("fake remote: %s %q not found", kind, id)
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func remoteOnly(ids []model.ID) []model.ID {
	out := make([]model.ID, 0, len(ids))
	for _, id := range ids {
		if id.HasRemote() {
			out = append(out, model.RemoteID(id.Remote))
		}
	}
	return out
}
