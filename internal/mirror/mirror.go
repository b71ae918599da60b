// Package mirror defines the durable local document store that shadows the
// remote source.
//
// A mirror holds one collection per entity type. Each document is keyed by
// the local side of its identifier and remembers its parent identifier, so
// that Find can return "all lists of board X" while the remote is offline.
//
// Backends live in subpackages:
//   - mirror/sqlite: single-file SQLite database (default)
//   - mirror/redis:  one Redis hash per collection
//   - mirror/mongo:  one MongoDB collection per entity type
package mirror

import (
	"context"
	"errors"

	"github.com/roach88/boardctl/internal/model"
)

// Collection names a mirror collection.
type Collection string

// Mirror collections, one per entity type.
const (
	Boards     Collection = "boards"
	Lists      Collection = "lists"
	Cards      Collection = "cards"
	Labels     Collection = "labels"
	Checklists Collection = "checklists"
	Tasks      Collection = "tasks"
	Comments   Collection = "comments"
)

// AllCollections lists every collection in a stable order.
var AllCollections = []Collection{Boards, Lists, Cards, Labels, Checklists, Tasks, Comments}

var (
	// ErrNoLocalID is returned when a write targets a document without a local id.
	ErrNoLocalID = errors.New("mirror: document has no local id")

	// ErrDuplicate is returned by Insert when the local id is already taken.
	ErrDuplicate = errors.New("mirror: duplicate document")

	// ErrUnknownCollection is returned for collection names outside AllCollections.
	ErrUnknownCollection = errors.New("mirror: unknown collection")
)

// Fields is the document body. For UpsertByID it may be partial.
type Fields map[string]any

// Document is a single stored entity.
type Document struct {
	ID     model.ID
	Parent model.ID
	Fields Fields
}

// Store is the capability the repository needs from a mirror backend.
//
// Parent filters follow ParentMatches: a zero filter matches everything,
// otherwise identifier equality applies.
type Store interface {
	// Find returns every document in the collection whose parent matches.
	// A zero parent returns the whole collection.
	Find(ctx context.Context, c Collection, parent model.ID) ([]Document, error)

	// Insert adds a new document. doc.ID.Local must be set, and nil fields
	// are not stored.
	Insert(ctx context.Context, c Collection, doc Document) error

	// UpsertByID merges doc.Fields into the document keyed by doc.ID.Local,
	// creating it if absent. Merging follows MergeFields, so a nil field
	// removes the key from the stored body. Identifier and parent columns are
	// replaced with the non-empty sides of doc.ID and doc.Parent.
	UpsertByID(ctx context.Context, c Collection, doc Document) error

	// Delete removes the document keyed by id.Local, or by id.Remote when
	// the local side is absent. Deleting a missing document is not an error.
	Delete(ctx context.Context, c Collection, id model.ID) error

	// Close releases backend resources.
	Close() error
}

// Valid reports whether c is one of AllCollections.
func (c Collection) Valid() bool {
	for _, known := range AllCollections {
		if c == known {
			return true
		}
	}
	return false
}

// ParentMatches applies identifier semantics to a parent filter.
// A zero filter matches everything; otherwise at least one present side
// must be equal on both and no present side may disagree.
func ParentMatches(filter, parent model.ID) bool {
	if filter.IsZero() {
		return true
	}
	return filter.Equal(parent)
}
