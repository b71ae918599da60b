package repository

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/boardctl/internal/model"
)

// Entity kinds used in NotFoundError and AmbiguousNameError.
const (
	KindBoard     = "board"
	KindList      = "list"
	KindCard      = "card"
	KindLabel     = "label"
	KindChecklist = "checklist"
	KindTask      = "task"
)

// MatchName picks the entity called name from items.
//
// Names compare equal after NFC normalization and Unicode case folding.
// Among those, a single exact (case-sensitive) match wins; several exact
// matches are ambiguous; otherwise the first folded match in collection
// order is taken.
func MatchName[T any, P interface {
	*T
	model.Entity
}](kind, name string, items []T) (T, error) {
	var zero T
	fold := cases.Fold()
	wantExact := norm.NFC.String(name)
	wantFolded := fold.String(wantExact)

	firstFolded, exactIdx, exactCount := -1, -1, 0
	for i := range items {
		got := norm.NFC.String(P(&items[i]).DisplayName())
		if fold.String(got) != wantFolded {
			continue
		}
		if firstFolded < 0 {
			firstFolded = i
		}
		if got == wantExact {
			exactCount++
			if exactIdx < 0 {
				exactIdx = i
			}
		}
	}

	switch {
	case exactCount > 1:
		return zero, &AmbiguousNameError{Kind: kind, Name: name, Count: exactCount}
	case exactCount == 1:
		return items[exactIdx], nil
	case firstFolded >= 0:
		return items[firstFolded], nil
	default:
		return zero, &NotFoundError{Kind: kind, Name: name}
	}
}
