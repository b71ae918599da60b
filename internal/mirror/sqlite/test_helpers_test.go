package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirror.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestDocument creates a document with a name field.
func createTestDocument(remoteID, localID, name string, parent model.ID) mirror.Document {
	return mirror.Document{
		ID:     model.NewID(remoteID, localID),
		Parent: parent,
		Fields: mirror.Fields{"name": name},
	}
}

// getDocument retrieves a single document by local id.
// Returns sql.ErrNoRows if not found.
func getDocument(ctx context.Context, s *Store, c mirror.Collection, localID string) (mirror.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT local_id, remote_id, parent_remote_id, parent_local_id, body
		FROM documents
		WHERE collection = ? AND local_id = ?
	`, string(c), localID)

	return scanDocument(row)
}

// countDocuments returns the number of documents in a collection.
func countDocuments(ctx context.Context, s *Store, c mirror.Collection) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, string(c),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c, err)
	}
	return n, nil
}
