package model

import "time"

// Entity is implemented by every tracked type.
//
// Ident and ParentIdent return pointers into the entity so that the
// reconcile engine can attach mirror identifiers in place.
type Entity interface {
	Ident() *ID
	ParentIdent() *ID // nil for root entities
	DisplayName() string
}

// Board is the root of the hierarchy.
type Board struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// BoardList is a column of cards owned by a board.
type BoardList struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	BoardID ID     `json:"board_id"`
}

// Card is owned by a list. LabelIDs and ChecklistIDs are weak references.
type Card struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DueDateSeconds int64  `json:"due_date_seconds"` // 0 = unset
	DueComplete    bool   `json:"due_complete"`
	LabelIDs       []ID   `json:"label_ids"`
	ChecklistIDs   []ID   `json:"checklist_ids"`
	ListID         ID     `json:"list_id"`
}

// CardLabel is owned by a board and referenced by cards.
type CardLabel struct {
	ID      ID     `json:"id"`
	BoardID ID     `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// CardChecklist is owned by a card.
type CardChecklist struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	CardID ID     `json:"card_id"`
}

// CardChecklistTask is an item of a checklist.
type CardChecklistTask struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	IsComplete  bool   `json:"is_complete"`
	ChecklistID ID     `json:"checklist_id"`
}

// CardComment is immutable once created, except through the remote system.
type CardComment struct {
	ID                 ID     `json:"id"`
	Text               string `json:"text"`
	CommenterName      string `json:"commenter_name"`
	CommentTimeSeconds int64  `json:"comment_time_seconds"`
	CardID             ID     `json:"card_id"`
}

func (b *Board) Ident() *ID { return &b.ID }

func (b *Board) ParentIdent() *ID { return nil }

func (b *Board) DisplayName() string { return b.Name }

func (l *BoardList) Ident() *ID { return &l.ID }

func (l *BoardList) ParentIdent() *ID { return &l.BoardID }

func (l *BoardList) DisplayName() string { return l.Name }

func (c *Card) Ident() *ID { return &c.ID }

func (c *Card) ParentIdent() *ID { return &c.ListID }

func (c *Card) DisplayName() string { return c.Name }

func (l *CardLabel) Ident() *ID { return &l.ID }

func (l *CardLabel) ParentIdent() *ID { return &l.BoardID }

func (l *CardLabel) DisplayName() string { return l.Name }

func (c *CardChecklist) Ident() *ID { return &c.ID }

func (c *CardChecklist) ParentIdent() *ID { return &c.CardID }

func (c *CardChecklist) DisplayName() string { return c.Name }

func (t *CardChecklistTask) Ident() *ID { return &t.ID }

func (t *CardChecklistTask) ParentIdent() *ID { return &t.ChecklistID }

func (t *CardChecklistTask) DisplayName() string { return t.Name }

func (c *CardComment) Ident() *ID { return &c.ID }

func (c *CardComment) ParentIdent() *ID { return &c.CardID }

func (c *CardComment) DisplayName() string { return c.Text }

// HasDueDate reports whether the card has a due date set.
func (c Card) HasDueDate() bool {
	return c.DueDateSeconds != 0
}

// DueDate returns the card's due date in UTC. The zero time means unset.
func (c Card) DueDate() time.Time {
	if c.DueDateSeconds == 0 {
		return time.Time{}
	}
	return time.Unix(c.DueDateSeconds, 0).UTC()
}

// CommentTime returns the comment's creation time in UTC.
func (c CardComment) CommentTime() time.Time {
	return time.Unix(c.CommentTimeSeconds, 0).UTC()
}

// CardDueDate pairs a card with its due date.
type CardDueDate struct {
	Card    Card      `json:"card"`
	DueDate time.Time `json:"due_date"`
}
