package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// newTestStore connects to the server named by BOARDCTL_TEST_MONGO_URI and
// uses a throwaway database dropped on cleanup.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("BOARDCTL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BOARDCTL_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(ctx, uri, fmt.Sprintf("boardctl_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func TestParentFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, parentFilter(model.ID{}))

	f := parentFilter(model.RemoteID("rA"))
	and, ok := f["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, bson.M{"parent_remote_id": bson.M{"$in": bson.A{"", "rA"}}}, and[0])
	assert.Equal(t, bson.M{"$or": []bson.M{{"parent_remote_id": "rA"}}}, and[1])
}

func TestDocumentToMirror(t *testing.T) {
	body, err := bson.Marshal(bson.M{
		"name":      "Ship",
		"label_ids": bson.A{bson.M{"remote_id": "lab"}},
		"due":       int64(1700000000),
	})
	require.NoError(t, err)

	d := document{LocalID: "lC", RemoteID: "rC", ParentRemoteID: "rL", Body: body}
	out, err := d.toMirror()
	require.NoError(t, err)

	assert.Equal(t, model.NewID("rC", "lC"), out.ID)
	assert.Equal(t, model.RemoteID("rL"), out.Parent)
	assert.Equal(t, "Ship", out.Fields["name"])
	assert.Equal(t, float64(1700000000), out.Fields["due"])
	assert.Equal(t, []any{map[string]any{"remote_id": "lab"}}, out.Fields["label_ids"])
}

func TestStore_InsertFindUpsertDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	board := model.NewID("rB", "lB")
	require.NoError(t, s.Insert(ctx, mirror.Labels, mirror.Document{
		ID: model.NewID("r1", "l1"), Parent: board,
		Fields: mirror.Fields{"name": "Bug", "color": "red"},
	}))
	require.NoError(t, s.Insert(ctx, mirror.Labels, mirror.Document{
		ID: model.LocalID("l2"), Parent: model.LocalID("lB"),
		Fields: mirror.Fields{"name": "Feature"},
	}))

	err := s.Insert(ctx, mirror.Labels, mirror.Document{ID: model.NewID("r1", "l9"), Parent: board})
	assert.ErrorIs(t, err, mirror.ErrDuplicate)

	require.NoError(t, s.UpsertByID(ctx, mirror.Labels, mirror.Document{
		ID: model.LocalID("l1"), Fields: mirror.Fields{"color": "green"},
	}))

	docs, err := s.Find(ctx, mirror.Labels, board)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Bug", docs[0].Fields["name"])
	assert.Equal(t, "green", docs[0].Fields["color"])
	assert.Equal(t, "Feature", docs[1].Fields["name"])

	require.NoError(t, s.Delete(ctx, mirror.Labels, model.RemoteID("r1")))
	docs, err = s.Find(ctx, mirror.Labels, model.RemoteID("rB"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}
