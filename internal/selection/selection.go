// Package selection tracks the entities a session has navigated into.
//
// Levels form a chain: board, list, card, checklist. Selecting an entity at
// one level clears every level below it, so the chain never points into a
// different parent than the one above it.
package selection

import (
	"fmt"

	"github.com/roach88/boardctl/internal/model"
)

// Level is one step of the navigation chain.
type Level int

const (
	LevelBoard Level = iota
	LevelList
	LevelCard
	LevelChecklist
)

func (l Level) String() string {
	switch l {
	case LevelBoard:
		return "board"
	case LevelList:
		return "list"
	case LevelCard:
		return "card"
	case LevelChecklist:
		return "checklist"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// NoSelectionError is returned when an operation needs an implicit target
// and nothing is selected at that level.
type NoSelectionError struct {
	Level Level
}

func (e *NoSelectionError) Error() string {
	return fmt.Sprintf("no %s selected", e.Level)
}

// State holds at most one active entity per level. The zero value is an
// empty selection.
type State struct {
	board     *model.Board
	list      *model.BoardList
	card      *model.Card
	checklist *model.CardChecklist
}

// New returns an empty selection.
func New() *State {
	return &State{}
}

func (s *State) SelectBoard(b model.Board) {
	s.board = &b
	s.Clear(LevelList)
}

func (s *State) SelectList(l model.BoardList) {
	s.list = &l
	s.Clear(LevelCard)
}

func (s *State) SelectCard(c model.Card) {
	s.card = &c
	s.Clear(LevelChecklist)
}

func (s *State) SelectChecklist(c model.CardChecklist) {
	s.checklist = &c
}

// Clear empties level and every level below it.
func (s *State) Clear(level Level) {
	switch level {
	case LevelBoard:
		s.board = nil
		fallthrough
	case LevelList:
		s.list = nil
		fallthrough
	case LevelCard:
		s.card = nil
		fallthrough
	case LevelChecklist:
		s.checklist = nil
	}
}

func (s *State) Board() (model.Board, bool) {
	if s.board == nil {
		return model.Board{}, false
	}
	return *s.board, true
}

func (s *State) List() (model.BoardList, bool) {
	if s.list == nil {
		return model.BoardList{}, false
	}
	return *s.list, true
}

func (s *State) Card() (model.Card, bool) {
	if s.card == nil {
		return model.Card{}, false
	}
	return *s.card, true
}

func (s *State) Checklist() (model.CardChecklist, bool) {
	if s.checklist == nil {
		return model.CardChecklist{}, false
	}
	return *s.checklist, true
}

// Has reports whether level has an active entity.
func (s *State) Has(level Level) bool {
	switch level {
	case LevelBoard:
		return s.board != nil
	case LevelList:
		return s.list != nil
	case LevelCard:
		return s.card != nil
	case LevelChecklist:
		return s.checklist != nil
	}
	return false
}

// Require returns a *NoSelectionError when level has no active entity.
func (s *State) Require(level Level) error {
	if !s.Has(level) {
		return &NoSelectionError{Level: level}
	}
	return nil
}

// ResolveBoard returns explicit when given, otherwise the selected board.
func (s *State) ResolveBoard(explicit *model.Board) (model.Board, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if b, ok := s.Board(); ok {
		return b, nil
	}
	return model.Board{}, &NoSelectionError{Level: LevelBoard}
}

// ResolveList returns explicit when given, otherwise the selected list.
func (s *State) ResolveList(explicit *model.BoardList) (model.BoardList, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if l, ok := s.List(); ok {
		return l, nil
	}
	return model.BoardList{}, &NoSelectionError{Level: LevelList}
}

// ResolveCard returns explicit when given, otherwise the selected card.
func (s *State) ResolveCard(explicit *model.Card) (model.Card, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if c, ok := s.Card(); ok {
		return c, nil
	}
	return model.Card{}, &NoSelectionError{Level: LevelCard}
}

// ResolveChecklist returns explicit when given, otherwise the selected checklist.
func (s *State) ResolveChecklist(explicit *model.CardChecklist) (model.CardChecklist, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if c, ok := s.Checklist(); ok {
		return c, nil
	}
	return model.CardChecklist{}, &NoSelectionError{Level: LevelChecklist}
}

// The Replace methods refresh the snapshot of an already selected entity
// after it changed. Nothing happens unless the identifiers are equal, and
// descendants are kept. They report whether the snapshot was replaced.

func (s *State) ReplaceBoard(b model.Board) bool {
	if s.board == nil || !s.board.ID.Equal(b.ID) {
		return false
	}
	b.ID = b.ID.Merge(s.board.ID)
	s.board = &b
	return true
}

func (s *State) ReplaceList(l model.BoardList) bool {
	if s.list == nil || !s.list.ID.Equal(l.ID) {
		return false
	}
	l.ID = l.ID.Merge(s.list.ID)
	s.list = &l
	return true
}

func (s *State) ReplaceCard(c model.Card) bool {
	if s.card == nil || !s.card.ID.Equal(c.ID) {
		return false
	}
	c.ID = c.ID.Merge(s.card.ID)
	s.card = &c
	return true
}

func (s *State) ReplaceChecklist(c model.CardChecklist) bool {
	if s.checklist == nil || !s.checklist.ID.Equal(c.ID) {
		return false
	}
	c.ID = c.ID.Merge(s.checklist.ID)
	s.checklist = &c
	return true
}

// Path returns the display names of the active chain, outermost first.
func (s *State) Path() []string {
	var path []string
	if s.board == nil {
		return path
	}
	path = append(path, s.board.Name)
	if s.list == nil {
		return path
	}
	path = append(path, s.list.Name)
	if s.card == nil {
		return path
	}
	path = append(path, s.card.Name)
	if s.checklist == nil {
		return path
	}
	return append(path, s.checklist.Name)
}
