package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// Insert adds a new document. Returns mirror.ErrDuplicate when the local id
// or remote id is already present in the collection.
func (s *Store) Insert(ctx context.Context, c mirror.Collection, doc mirror.Document) error {
	if !c.Valid() {
		return fmt.Errorf("insert %s: %w", c, mirror.ErrUnknownCollection)
	}
	if !doc.ID.HasLocal() {
		return fmt.Errorf("insert %s: %w", c, mirror.ErrNoLocalID)
	}

	body, err := marshalBody(doc.Fields)
	if err != nil {
		return fmt.Errorf("insert %s: %w", c, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents
		(collection, local_id, remote_id, parent_remote_id, parent_local_id, body, seq)
		VALUES (?, ?, ?, ?, ?, json_patch('{}', ?),
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM documents))
	`,
		string(c),
		doc.ID.Local,
		doc.ID.Remote,
		doc.Parent.Remote,
		doc.Parent.Local,
		body,
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("insert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", c, err)
	}

	return nil
}

// UpsertByID merges doc.Fields into the stored body with json_patch, which
// drops keys whose patch value is null. Identifier and parent columns keep their stored value when the incoming
// side is empty.
func (s *Store) UpsertByID(ctx context.Context, c mirror.Collection, doc mirror.Document) error {
	if !c.Valid() {
		return fmt.Errorf("upsert %s: %w", c, mirror.ErrUnknownCollection)
	}
	if !doc.ID.HasLocal() {
		return fmt.Errorf("upsert %s: %w", c, mirror.ErrNoLocalID)
	}

	patch, err := marshalBody(doc.Fields)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", c, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents
		(collection, local_id, remote_id, parent_remote_id, parent_local_id, body, seq)
		VALUES (?, ?, ?, ?, ?, json_patch('{}', ?),
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM documents))
		ON CONFLICT(collection, local_id) DO UPDATE SET
			remote_id = CASE WHEN excluded.remote_id != '' THEN excluded.remote_id ELSE remote_id END,
			parent_remote_id = CASE WHEN excluded.parent_remote_id != '' THEN excluded.parent_remote_id ELSE parent_remote_id END,
			parent_local_id = CASE WHEN excluded.parent_local_id != '' THEN excluded.parent_local_id ELSE parent_local_id END,
			body = json_patch(body, excluded.body)
	`,
		string(c),
		doc.ID.Local,
		doc.ID.Remote,
		doc.Parent.Remote,
		doc.Parent.Local,
		patch,
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("upsert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
		}
		return fmt.Errorf("upsert %s: %w", c, err)
	}

	return nil
}

// Delete removes a document by local id, or by remote id when the local
// side is absent. A zero id is rejected; a missing document is not an error.
func (s *Store) Delete(ctx context.Context, c mirror.Collection, id model.ID) error {
	if !c.Valid() {
		return fmt.Errorf("delete %s: %w", c, mirror.ErrUnknownCollection)
	}

	var err error
	switch {
	case id.HasLocal():
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ? AND local_id = ?`,
			string(c), id.Local)
	case id.HasRemote():
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ? AND remote_id = ?`,
			string(c), id.Remote)
	default:
		return fmt.Errorf("delete %s: %w", c, mirror.ErrNoLocalID)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", c, err)
	}
	return nil
}

func marshalBody(fields mirror.Fields) (string, error) {
	if len(fields) == 0 {
		return "{}", nil
	}
	return marshalCanonical(fields)
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
