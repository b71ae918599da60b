package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

func TestInsertAndFind_AllOfCollection(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, mirror.Boards, createTestDocument("rA", "lA", "Alpha", model.ID{})))
	require.NoError(t, s.Insert(ctx, mirror.Boards, createTestDocument("rB", "lB", "Beta", model.ID{})))

	docs, err := s.Find(ctx, mirror.Boards, model.ID{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, model.NewID("rA", "lA"), docs[0].ID)
	assert.Equal(t, "Alpha", docs[0].Fields["name"])
	assert.Equal(t, "Beta", docs[1].Fields["name"])
}

func TestFind_EmptyReturnsNonNil(t *testing.T) {
	s := createTestStore(t)

	docs, err := s.Find(context.Background(), mirror.Cards, model.RemoteID("nope"))
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestFind_FiltersByParentSides(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	boardA := model.NewID("rA", "lA")
	boardB := model.NewID("rB", "lB")
	require.NoError(t, s.Insert(ctx, mirror.Lists, createTestDocument("r1", "l1", "Todo", boardA)))
	require.NoError(t, s.Insert(ctx, mirror.Lists, createTestDocument("r2", "l2", "Done", boardB)))
	require.NoError(t, s.Insert(ctx, mirror.Lists, createTestDocument("", "l3", "Offline", model.LocalID("lA"))))

	byRemote, err := s.Find(ctx, mirror.Lists, model.RemoteID("rA"))
	require.NoError(t, err)
	require.Len(t, byRemote, 1)
	assert.Equal(t, "Todo", byRemote[0].Fields["name"])

	byBoth, err := s.Find(ctx, mirror.Lists, boardA)
	require.NoError(t, err)
	assert.Len(t, byBoth, 2, "full parent id matches remote-keyed and local-keyed children")

	conflicting, err := s.Find(ctx, mirror.Lists, model.NewID("rA", "lB"))
	require.NoError(t, err)
	assert.Empty(t, conflicting, "a disagreeing side rules a row out")
}

func TestFind_UnknownCollection(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Find(context.Background(), mirror.Collection("widgets"), model.ID{})
	assert.ErrorIs(t, err, mirror.ErrUnknownCollection)
}

func TestInsert_RequiresLocalID(t *testing.T) {
	s := createTestStore(t)
	err := s.Insert(context.Background(), mirror.Boards, createTestDocument("rA", "", "Alpha", model.ID{}))
	assert.ErrorIs(t, err, mirror.ErrNoLocalID)
}

func TestInsert_DuplicateLocalID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, mirror.Boards, createTestDocument("rA", "lA", "Alpha", model.ID{})))
	err := s.Insert(ctx, mirror.Boards, createTestDocument("rX", "lA", "Other", model.ID{}))
	assert.ErrorIs(t, err, mirror.ErrDuplicate)
}

func TestInsert_DuplicateRemoteID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, mirror.Boards, createTestDocument("rA", "lA", "Alpha", model.ID{})))
	err := s.Insert(ctx, mirror.Boards, createTestDocument("rA", "lZ", "Alpha again", model.ID{}))
	assert.ErrorIs(t, err, mirror.ErrDuplicate)
}

func TestInsert_SameLocalIDAcrossCollections(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, mirror.Boards, createTestDocument("", "shared", "Board", model.ID{})))
	require.NoError(t, s.Insert(ctx, mirror.Lists, createTestDocument("", "shared", "List", model.LocalID("shared"))))
}

func TestUpsertByID_MergesPartialFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	doc := mirror.Document{
		ID:     model.NewID("rL", "lL"),
		Parent: model.RemoteID("rB"),
		Fields: mirror.Fields{"name": "Bug", "color": "red"},
	}
	require.NoError(t, s.Insert(ctx, mirror.Labels, doc))

	require.NoError(t, s.UpsertByID(ctx, mirror.Labels, mirror.Document{
		ID:     model.LocalID("lL"),
		Parent: model.LocalID("lB"),
		Fields: mirror.Fields{"color": "green"},
	}))

	got, err := getDocument(ctx, s, mirror.Labels, "lL")
	require.NoError(t, err)
	assert.Equal(t, model.NewID("rL", "lL"), got.ID, "empty incoming remote keeps stored remote")
	assert.Equal(t, model.NewID("rB", "lB"), got.Parent, "parent sides are filled, not cleared")
	assert.Equal(t, "Bug", got.Fields["name"])
	assert.Equal(t, "green", got.Fields["color"])
}

func TestUpsertByID_NullRemovesField(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, mirror.Cards, mirror.Document{
		ID:     model.NewID("rC", "lC"),
		Fields: mirror.Fields{"name": "Ship", "label_ids": []any{"lab1"}},
	}))
	require.NoError(t, s.UpsertByID(ctx, mirror.Cards, mirror.Document{
		ID:     model.LocalID("lC"),
		Fields: mirror.Fields{"label_ids": nil},
	}))
	require.NoError(t, s.UpsertByID(ctx, mirror.Cards, mirror.Document{
		ID:     model.LocalID("lD"),
		Fields: mirror.Fields{"name": "Polish", "label_ids": nil},
	}))

	got, err := getDocument(ctx, s, mirror.Cards, "lC")
	require.NoError(t, err)
	assert.Equal(t, mirror.Fields{"name": "Ship"}, got.Fields)

	created, err := getDocument(ctx, s, mirror.Cards, "lD")
	require.NoError(t, err)
	assert.Equal(t, mirror.Fields{"name": "Polish"}, created.Fields)
}

func TestUpsertByID_CreatesMissing(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertByID(ctx, mirror.Boards, createTestDocument("rA", "lA", "Alpha", model.ID{})))

	n, err := countDocuments(ctx, s, mirror.Boards)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertByID_KeepsInsertionOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, mirror.Boards, createTestDocument("r1", "z-first", "First", model.ID{})))
	require.NoError(t, s.Insert(ctx, mirror.Boards, createTestDocument("r2", "a-second", "Second", model.ID{})))
	require.NoError(t, s.UpsertByID(ctx, mirror.Boards, createTestDocument("", "z-first", "First renamed", model.ID{})))

	docs, err := s.Find(ctx, mirror.Boards, model.ID{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "First renamed", docs[0].Fields["name"])
	assert.Equal(t, "Second", docs[1].Fields["name"])
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, mirror.Labels, createTestDocument("r1", "l1", "Bug", model.RemoteID("rB"))))
	require.NoError(t, s.Insert(ctx, mirror.Labels, createTestDocument("r2", "l2", "Feature", model.RemoteID("rB"))))

	require.NoError(t, s.Delete(ctx, mirror.Labels, model.LocalID("l1")))
	require.NoError(t, s.Delete(ctx, mirror.Labels, model.RemoteID("r2")))
	require.NoError(t, s.Delete(ctx, mirror.Labels, model.RemoteID("missing")), "missing document is not an error")

	_, err := getDocument(ctx, s, mirror.Labels, "l1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	n, err := countDocuments(ctx, s, mirror.Labels)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, s.Delete(ctx, mirror.Labels, model.ID{}), mirror.ErrNoLocalID)
}

func TestRoundTrip_EntityThroughStore(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	card := model.Card{
		ID:             model.NewID("rC", "lC"),
		Name:           "R&D <review>",
		DueDateSeconds: 1700000000,
		LabelIDs:       []model.ID{model.RemoteID("lab")},
		ListID:         model.NewID("rL", "lL"),
	}
	doc, err := mirror.Encode(&card)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, mirror.Cards, doc))

	docs, err := s.Find(ctx, mirror.Cards, model.RemoteID("rL"))
	require.NoError(t, err)
	cards, err := mirror.DecodeAll[model.Card](docs)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, card.Name, cards[0].Name)
	assert.Equal(t, card.DueDateSeconds, cards[0].DueDateSeconds)
	assert.Equal(t, card.LabelIDs, cards[0].LabelIDs)
	assert.Equal(t, card.ListID, cards[0].ListID)
}
