package testutil

import (
	"context"
	"fmt"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// MemStore is an in-memory mirror.Store with the same matching and
// duplicate rules as the real backends, plus failure injection.
//
// Not safe for concurrent use.
type MemStore struct {
	docs map[mirror.Collection][]mirror.Document

	// FindErr, when set, is returned by every Find.
	FindErr error
	// WriteErr, when set, is consulted before every Insert and UpsertByID.
	// A non-nil result rejects that write.
	WriteErr func(c mirror.Collection, doc mirror.Document) error

	Finds   int
	Inserts int
	Upserts int
	Deletes int
}

var _ mirror.Store = (*MemStore)(nil)

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[mirror.Collection][]mirror.Document)}
}

func (m *MemStore) Find(_ context.Context, c mirror.Collection, parent model.ID) ([]mirror.Document, error) {
	m.Finds++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if !c.Valid() {
		return nil, mirror.ErrUnknownCollection
	}
	out := []mirror.Document{}
	for _, d := range m.docs[c] {
		if mirror.ParentMatches(parent, d.Parent) {
			out = append(out, copyDoc(d))
		}
	}
	return out, nil
}

func (m *MemStore) Insert(_ context.Context, c mirror.Collection, doc mirror.Document) error {
	if err := m.checkWrite(c, doc); err != nil {
		return err
	}
	for _, d := range m.docs[c] {
		if d.ID.Local == doc.ID.Local || (doc.ID.HasRemote() && d.ID.Remote == doc.ID.Remote) {
			return fmt.Errorf("insert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
		}
	}
	m.Inserts++
	m.docs[c] = append(m.docs[c], copyDoc(doc))
	return nil
}

func (m *MemStore) UpsertByID(_ context.Context, c mirror.Collection, doc mirror.Document) error {
	if err := m.checkWrite(c, doc); err != nil {
		return err
	}
	for i, d := range m.docs[c] {
		if d.ID.Local != doc.ID.Local {
			continue
		}
		if doc.ID.HasRemote() {
			for j, other := range m.docs[c] {
				if j != i && other.ID.Remote == doc.ID.Remote {
					return fmt.Errorf("upsert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
				}
			}
		}
		m.Upserts++
		d.ID = doc.ID.Merge(d.ID)
		d.Parent = doc.Parent.Merge(d.Parent)
		d.Fields = mirror.MergeFields(d.Fields, doc.Fields)
		m.docs[c][i] = d
		return nil
	}
	m.Upserts++
	m.docs[c] = append(m.docs[c], copyDoc(doc))
	return nil
}

func (m *MemStore) Delete(_ context.Context, c mirror.Collection, id model.ID) error {
	if id.IsZero() {
		return mirror.ErrNoLocalID
	}
	m.Deletes++
	kept := m.docs[c][:0]
	for _, d := range m.docs[c] {
		if id.HasLocal() && d.ID.Local == id.Local {
			continue
		}
		if !id.HasLocal() && d.ID.Remote == id.Remote {
			continue
		}
		kept = append(kept, d)
	}
	m.docs[c] = kept
	return nil
}

func (m *MemStore) Close() error { return nil }

// All returns every document of c in insertion order.
func (m *MemStore) All(c mirror.Collection) []mirror.Document {
	out := make([]mirror.Document, 0, len(m.docs[c]))
	for _, d := range m.docs[c] {
		out = append(out, copyDoc(d))
	}
	return out
}

// Seed encodes entities and inserts them directly, bypassing failure
// injection and counters.
func (m *MemStore) Seed(c mirror.Collection, entities ...model.Entity) error {
	for _, e := range entities {
		doc, err := mirror.Encode(e)
		if err != nil {
			return err
		}
		if !doc.ID.HasLocal() {
			return fmt.Errorf("seed %s %s: %w", c, doc.ID.Key(), mirror.ErrNoLocalID)
		}
		m.docs[c] = append(m.docs[c], doc)
	}
	return nil
}

func (m *MemStore) checkWrite(c mirror.Collection, doc mirror.Document) error {
	if !c.Valid() {
		return mirror.ErrUnknownCollection
	}
	if !doc.ID.HasLocal() {
		return mirror.ErrNoLocalID
	}
	if m.WriteErr != nil {
		return m.WriteErr(c, doc)
	}
	return nil
}

// copyDoc copies the top-level field map so callers never share it with the store.
func copyDoc(d mirror.Document) mirror.Document {
	d.Fields = mirror.MergeFields(nil, d.Fields)
	return d
}
