package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// Find returns every document in the collection whose parent matches.
// A zero parent returns the whole collection.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Find(ctx context.Context, c mirror.Collection, parent model.ID) ([]mirror.Document, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("find %s: %w", c, mirror.ErrUnknownCollection)
	}

	// Absent parent sides bind to a value no row can hold, so they never
	// match. At least one side must match and no present side may differ.
	query := `
		SELECT local_id, remote_id, parent_remote_id, parent_local_id, body
		FROM documents
		WHERE collection = ?
	`
	args := []any{string(c)}
	if !parent.IsZero() {
		query += `
		AND (
			(? != '' AND parent_remote_id = ?) OR
			(? != '' AND parent_local_id = ?)
		)
		AND NOT (? != '' AND parent_remote_id != '' AND parent_remote_id != ?)
		AND NOT (? != '' AND parent_local_id != '' AND parent_local_id != ?)
		`
		args = append(args,
			parent.Remote, parent.Remote,
			parent.Local, parent.Local,
			parent.Remote, parent.Remote,
			parent.Local, parent.Local,
		)
	}
	query += ` ORDER BY seq ASC, local_id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}
	defer rows.Close()

	docs := []mirror.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c, err)
	}

	return docs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (mirror.Document, error) {
	var (
		localID, remoteID             string
		parentRemoteID, parentLocalID string
		body                          string
	)
	if err := row.Scan(&localID, &remoteID, &parentRemoteID, &parentLocalID, &body); err != nil {
		if err == sql.ErrNoRows {
			return mirror.Document{}, err
		}
		return mirror.Document{}, fmt.Errorf("scan document: %w", err)
	}

	fields := mirror.Fields{}
	if body != "" && body != "{}" {
		if err := json.Unmarshal([]byte(body), &fields); err != nil {
			return mirror.Document{}, fmt.Errorf("unmarshal body of %s: %w", localID, err)
		}
	}

	return mirror.Document{
		ID:     model.NewID(remoteID, localID),
		Parent: model.NewID(parentRemoteID, parentLocalID),
		Fields: fields,
	}, nil
}
