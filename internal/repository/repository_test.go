package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/remote"
	"github.com/roach88/boardctl/internal/selection"
	"github.com/roach88/boardctl/internal/testutil"
)

var errDown = errors.New("connection refused")

func newTestRepo(t *testing.T, src *testutil.FakeRemote) (*Repository, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	return New(src, store, WithIDGenerator(testutil.NewIDSequence("local-"))), store
}

func newFixtureRepo(t *testing.T) (*Repository, *testutil.FakeRemote, *testutil.MemStore) {
	t.Helper()
	src, err := testutil.LoadFixture(filepath.Join("..", "testutil", "testdata", "board.yaml"))
	require.NoError(t, err)
	repo, store := newTestRepo(t, src)
	return repo, src, store
}

// selectShip selects Alpha / Todo / Ship / Steps and warms every slot.
func selectShip(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	_, err := repo.SelectBoard(ctx, "Alpha")
	require.NoError(t, err)
	_, err = repo.SelectBoardList(ctx, "Todo", nil)
	require.NoError(t, err)
	_, err = repo.SelectListCard(ctx, "Ship", nil)
	require.NoError(t, err)
	_, err = repo.SelectCardChecklist(ctx, "Steps", nil)
	require.NoError(t, err)
	_, err = repo.GetChecklistTasks(ctx, nil)
	require.NoError(t, err)
	_, err = repo.GetAllBoardLabels(ctx, nil)
	require.NoError(t, err)
	_, err = repo.GetCardComments(ctx, nil)
	require.NoError(t, err)
}

func TestNew_PanicsOnNilAdapters(t *testing.T) {
	assert.Panics(t, func() { New(nil, testutil.NewMemStore()) })
	assert.Panics(t, func() { New(testutil.NewFakeRemote(), nil) })
}

func TestNew_UsesGivenCacheAndSelection(t *testing.T) {
	m := cache.New()
	sel := selection.New()
	repo := New(testutil.NewFakeRemote(), testutil.NewMemStore(), WithCache(m), WithSelection(sel))

	assert.Same(t, m, repo.Cache())
	assert.Same(t, sel, repo.Selection())
}

func TestGetAllBoards_AlphaScenario(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewFakeRemote()
	src.Boards = []model.Board{{ID: model.RemoteID("rA"), Name: "Alpha"}}
	repo, store := newTestRepo(t, src)

	first, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)
	assert.Equal(t, FromRemote, first.Source)
	assert.Nil(t, first.Sync)

	docs := store.All(mirror.Boards)
	require.Len(t, docs, 1)
	assert.Equal(t, model.NewID("rA", "local-1"), docs[0].ID)
	assert.Equal(t, model.NewID("rA", "local-1"), first.Items[0].ID)

	second, err := repo.RefreshBoards(ctx)
	require.NoError(t, err)
	assert.Equal(t, FromRemote, second.Source)

	docs = store.All(mirror.Boards)
	require.Len(t, docs, 1, "second sync must update in place")
	assert.Equal(t, "local-1", docs[0].ID.Local)
	assert.Equal(t, "Alpha", docs[0].Fields["name"])
	assert.Equal(t, 1, store.Inserts)
	assert.Equal(t, 1, store.Upserts)
}

func TestGetAllBoards_SecondReadHitsCache(t *testing.T) {
	ctx := context.Background()
	repo, src, _ := newFixtureRepo(t)

	_, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)
	res, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)

	assert.Equal(t, FromCache, res.Source)
	assert.False(t, res.Stale)
	assert.Equal(t, 1, src.Calls["ListBoards"])
	assert.Len(t, res.Items, 2)
}

func TestGetAllBoards_GoesThroughCacheManager(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)

	_, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)
	_, err = repo.GetAllBoards(ctx)
	require.NoError(t, err)

	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1}, repo.Cache().Stats())
}

func TestGetAllBoards_MirrorResultIsCached(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewFakeRemote()
	src.Err = errDown
	repo, store := newTestRepo(t, src)
	alpha := model.Board{ID: model.NewID("rA", "m1"), Name: "Alpha"}
	require.NoError(t, store.Seed(mirror.Boards, &alpha))

	_, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)
	res, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)

	assert.Equal(t, FromCache, res.Source)
	assert.Nil(t, res.RemoteErr)
	assert.Equal(t, []model.Board{alpha}, res.Items)
	assert.Equal(t, 1, src.Calls["ListBoards"])
}

func TestGetAllBoards_FallsBackToMirror(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewFakeRemote()
	src.Err = errDown
	repo, store := newTestRepo(t, src)
	alpha := model.Board{ID: model.NewID("rA", "m1"), Name: "Alpha"}
	require.NoError(t, store.Seed(mirror.Boards, &alpha))

	res, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)

	assert.Equal(t, FromMirror, res.Source)
	assert.Equal(t, []model.Board{alpha}, res.Items)
	assert.True(t, IsRemoteUnavailable(res.RemoteErr))
	assert.ErrorIs(t, res.RemoteErr, errDown)
}

func TestGetAllBoards_FallsBackToCacheWhenBothFail(t *testing.T) {
	ctx := context.Background()
	repo, src, store := newFixtureRepo(t)

	first, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)

	src.Err = errDown
	store.FindErr = errors.New("disk I/O error")

	res, err := repo.RefreshBoards(ctx)
	require.NoError(t, err)
	assert.Equal(t, FromCache, res.Source)
	assert.True(t, res.Stale)
	assert.Equal(t, first.Items, res.Items)
	assert.True(t, IsRemoteUnavailable(res.RemoteErr))
}

func TestGetAllBoards_BothFailWithoutCache(t *testing.T) {
	src := testutil.NewFakeRemote()
	src.Err = errDown
	repo, store := newTestRepo(t, src)
	store.FindErr = errors.New("disk I/O error")

	_, err := repo.GetAllBoards(context.Background())
	require.Error(t, err)

	assert.True(t, IsRemoteUnavailable(err))
	assert.True(t, IsMirrorUnavailable(err))
	assert.ErrorIs(t, err, errDown, "the remote failure must not be masked")
	assert.Equal(t, ErrCodeRemoteUnavailable, CodeOf(err))
}

func TestGetAllBoards_ReportsMirrorRejections(t *testing.T) {
	ctx := context.Background()
	repo, _, store := newFixtureRepo(t)
	store.WriteErr = func(_ mirror.Collection, doc mirror.Document) error {
		if doc.ID.Remote == "b2" {
			return errors.New("disk full")
		}
		return nil
	}

	res, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)

	assert.Len(t, res.Items, 2, "rejected entities are still returned")
	require.NotNil(t, res.Sync)
	require.Len(t, res.Sync.Failed, 1)
	assert.Equal(t, "Beta", res.Sync.Failed[0].Name)
}

func TestGetAllBoards_MirrorReadFailsDuringSync(t *testing.T) {
	ctx := context.Background()
	repo, _, store := newFixtureRepo(t)
	store.FindErr = errors.New("locked")

	res, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)

	assert.Equal(t, FromRemote, res.Source)
	assert.Len(t, res.Items, 2)
	require.NotNil(t, res.Sync)
	assert.Len(t, res.Sync.Failed, 2)
}

func TestGetAllBoardLists_NoSelection(t *testing.T) {
	repo, src, _ := newFixtureRepo(t)

	_, err := repo.GetAllBoardLists(context.Background(), nil)
	require.Error(t, err)

	assert.True(t, IsNoSelection(err))
	var nse *NoSelectionError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, selection.LevelBoard, nse.Level)
	assert.Zero(t, src.Calls["ListLists"])
}

func TestGetAllBoardLists_ExplicitBoard(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)

	boards, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)

	res, err := repo.GetAllBoardLists(ctx, &boards.Items[0])
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Todo", res.Items[0].Name)
	assert.Equal(t, boards.Items[0].ID, res.Items[0].BoardID, "lists carry the full board id")
	assert.False(t, repo.Selection().Has(selection.LevelBoard), "reads never change the selection")
}

func TestGetAllBoardLists_ParentWithoutRemoteIDUsesMirror(t *testing.T) {
	ctx := context.Background()
	repo, src, store := newFixtureRepo(t)
	local := model.Board{ID: model.LocalID("m9"), Name: "Offline"}
	todo := model.BoardList{ID: model.LocalID("m10"), Name: "Later", BoardID: local.ID}
	require.NoError(t, store.Seed(mirror.Lists, &todo))

	res, err := repo.GetAllBoardLists(ctx, &local)
	require.NoError(t, err)

	assert.Equal(t, FromMirror, res.Source)
	assert.ErrorIs(t, res.RemoteErr, remote.ErrNoRemoteID)
	assert.Equal(t, []model.BoardList{todo}, res.Items)
	assert.Zero(t, src.Calls["ListLists"])
}

func TestCreateBoardLabel_ThenListIncludesIt(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)
	_, err := repo.SelectBoard(ctx, "Beta")
	require.NoError(t, err)

	before, err := repo.GetAllBoardLabels(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, before.Items)

	created, err := repo.CreateBoardLabel(ctx, nil, "Bug", "red")
	require.NoError(t, err)
	assert.True(t, created.ID.HasRemote())
	assert.True(t, created.ID.HasLocal())

	after, err := repo.GetAllBoardLabels(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, FromRemote, after.Source)
	require.Len(t, after.Items, 1)
	assert.Equal(t, "Bug", after.Items[0].Name)
	assert.Equal(t, created.ID, after.Items[0].ID)
}

func TestSelect_CascadingClear(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)
	selectShip(t, repo)
	require.Equal(t, []string{"Alpha", "Todo", "Ship", "Steps"}, repo.Selection().Path())

	_, err := repo.SelectBoard(ctx, "Beta")
	require.NoError(t, err)

	sel := repo.Selection()
	assert.True(t, sel.Has(selection.LevelBoard))
	assert.False(t, sel.Has(selection.LevelList))
	assert.False(t, sel.Has(selection.LevelCard))
	assert.False(t, sel.Has(selection.LevelChecklist))
}

func TestSelect_NotFoundIsDistinguishable(t *testing.T) {
	repo, _, _ := newFixtureRepo(t)

	_, err := repo.SelectBoard(context.Background(), "Gamma")
	require.Error(t, err)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsRemoteUnavailable(err))
	assert.False(t, repo.Selection().Has(selection.LevelBoard))
}

func TestSelect_CaseInsensitive(t *testing.T) {
	repo, _, _ := newFixtureRepo(t)

	b, err := repo.SelectBoard(context.Background(), "aLPHA")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", b.Name)
}

func TestSelect_RemoteFailureBubblesUp(t *testing.T) {
	repo, src, store := newFixtureRepo(t)
	src.Err = errDown
	store.FindErr = errDown

	_, err := repo.SelectBoard(context.Background(), "Alpha")
	assert.True(t, IsRemoteUnavailable(err))
}

func TestSelectBoardList_ExplicitBoardIsFocused(t *testing.T) {
	ctx := context.Background()
	repo, src, _ := newFixtureRepo(t)
	selectShip(t, repo)

	boards, err := repo.GetAllBoards(ctx)
	require.NoError(t, err)
	beta := boards.Items[1]
	src.Lists["b2"] = []model.BoardList{{ID: model.RemoteID("l9"), Name: "Icebox", BoardID: model.RemoteID("b2")}}

	l, err := repo.SelectBoardList(ctx, "Icebox", &beta)
	require.NoError(t, err)

	assert.Equal(t, "Icebox", l.Name)
	assert.Equal(t, []string{"Beta", "Icebox"}, repo.Selection().Path())
}
