// Package cache holds the short-lived per-entity collections read during a
// session.
//
// Each slot holds at most one collection together with the parent it was
// read for. Entries never expire on their own; a mutation invalidates the
// slots it affects and the next read fetches fresh data. An invalidated
// entry is kept only as a last-resort fallback (see Last).
//
// The Manager is not safe for concurrent use. One session owns one Manager.
package cache

import (
	"fmt"
	"slices"

	"github.com/roach88/boardctl/internal/model"
)

// Slot names one cached collection.
type Slot int

const (
	Boards Slot = iota
	Lists
	Cards
	Checklists
	Tasks
	Labels
	Comments
)

// AllSlots lists every slot in declaration order.
var AllSlots = []Slot{Boards, Lists, Cards, Checklists, Tasks, Labels, Comments}

var slotNames = map[Slot]string{
	Boards:     "boards",
	Lists:      "lists",
	Cards:      "cards",
	Checklists: "checklists",
	Tasks:      "tasks",
	Labels:     "labels",
	Comments:   "comments",
}

func (s Slot) String() string {
	if name, ok := slotNames[s]; ok {
		return name
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// Stats counts cache traffic since the Manager was created.
type Stats struct {
	Hits          int
	Misses        int
	Invalidations int
}

type entry struct {
	parent model.ID
	items  any
	valid  bool
}

// Manager owns every slot.
type Manager struct {
	entries map[Slot]*entry
	stats   Stats
}

// New returns a Manager with every slot empty.
func New() *Manager {
	return &Manager{entries: make(map[Slot]*entry, len(AllSlots))}
}

// Invalidate marks the given slots stale. Their last value stays available
// through Last.
func (m *Manager) Invalidate(slots ...Slot) {
	for _, s := range slots {
		if e, ok := m.entries[s]; ok && e.valid {
			e.valid = false
		}
		m.stats.Invalidations++
	}
}

// isValid reports whether slot currently holds a valid collection for parent.
func (m *Manager) isValid(slot Slot, parent model.ID) bool {
	e, ok := m.entries[slot]
	return ok && e.valid && sameParent(e.parent, parent)
}

// Stats returns a snapshot of the counters.
func (m *Manager) Stats() Stats {
	return m.stats
}

// Lookup returns the cached collection for parent. It is a hit only when the
// slot is valid and was filled for an equal parent.
func Lookup[T any](m *Manager, slot Slot, parent model.ID) ([]T, bool) {
	e, ok := m.entries[slot]
	if !ok || !e.valid || !sameParent(e.parent, parent) {
		m.stats.Misses++
		return nil, false
	}
	items, ok := e.items.([]T)
	if !ok {
		m.stats.Misses++
		return nil, false
	}
	m.stats.Hits++
	return slices.Clone(items), true
}

// Store fills slot with items read for parent and marks it valid.
func Store[T any](m *Manager, slot Slot, parent model.ID, items []T) {
	if items == nil {
		items = []T{}
	}
	m.entries[slot] = &entry{parent: parent, items: slices.Clone(items), valid: true}
}

// Last returns the most recent collection stored for parent, valid or not.
func Last[T any](m *Manager, slot Slot, parent model.ID) ([]T, bool) {
	e, ok := m.entries[slot]
	if !ok || !sameParent(e.parent, parent) {
		return nil, false
	}
	items, ok := e.items.([]T)
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}

// GetOrFetch returns the cached collection for parent, or calls fetch and
// stores its result. hit reports whether fetch was skipped. A failed fetch
// leaves the slot untouched.
func GetOrFetch[T any](m *Manager, slot Slot, parent model.ID, fetch func() ([]T, error)) (items []T, hit bool, err error) {
	if cached, ok := Lookup[T](m, slot, parent); ok {
		return cached, true, nil
	}
	items, err = fetch()
	if err != nil {
		return nil, false, err
	}
	Store(m, slot, parent, items)
	return items, false, nil
}

// sameParent treats two root parents as equal; otherwise identifier
// equality applies.
func sameParent(a, b model.ID) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	return a.Equal(b)
}
