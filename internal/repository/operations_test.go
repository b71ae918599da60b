package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/remote"
	"github.com/roach88/boardctl/internal/selection"
)

func TestCreateBoard(t *testing.T) {
	ctx := context.Background()
	repo, src, store := newFixtureRepo(t)

	b, err := repo.CreateBoard(ctx, "Gamma")
	require.NoError(t, err)

	assert.Equal(t, "Gamma", b.Name)
	assert.Equal(t, "board-1", b.ID.Remote)
	assert.Equal(t, "local-1", b.ID.Local)
	assert.Len(t, src.Boards, 3)
	require.Len(t, store.All(mirror.Boards), 1)
}

func TestCreateBoard_RemoteFailure(t *testing.T) {
	repo, src, store := newFixtureRepo(t)
	src.FailOn["CreateBoard"] = errDown

	_, err := repo.CreateBoard(context.Background(), "Gamma")

	assert.True(t, IsRemoteUnavailable(err))
	assert.ErrorIs(t, err, errDown)
	assert.Empty(t, store.All(mirror.Boards), "failed writes never reach the mirror")
}

func TestCreateBoard_MirrorFailureIsNotAnError(t *testing.T) {
	repo, _, store := newFixtureRepo(t)
	store.WriteErr = func(mirror.Collection, mirror.Document) error { return errors.New("read-only") }

	b, err := repo.CreateBoard(context.Background(), "Gamma")
	require.NoError(t, err)
	assert.Equal(t, "board-1", b.ID.Remote)
	assert.False(t, b.ID.HasLocal())
}

func TestBoardLabels(t *testing.T) {
	ctx := context.Background()
	repo, src, store := newFixtureRepo(t)
	selectShip(t, repo)

	t.Run("update renames and keeps ids", func(t *testing.T) {
		l, err := repo.UpdateBoardLabel(ctx, nil, "bug", "Defect", "")
		require.NoError(t, err)
		assert.Equal(t, "Defect", l.Name)
		assert.Equal(t, "red", l.Color)
		assert.True(t, l.ID.HasLocal())
		assert.Equal(t, "Defect", src.Labels["b1"][0].Name)
	})

	t.Run("delete removes from remote, mirror and selected card", func(t *testing.T) {
		_, err := repo.DeleteBoardLabel(ctx, nil, "Defect")
		require.NoError(t, err)

		res, err := repo.GetAllBoardLabels(ctx, nil)
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Feature", res.Items[0].Name)
		for _, d := range store.All(mirror.Labels) {
			assert.NotEqual(t, "lab1", d.ID.Remote)
		}

		card, ok := repo.Selection().Card()
		require.True(t, ok)
		assert.Empty(t, card.LabelIDs)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := repo.DeleteBoardLabel(ctx, nil, "Nope")
		assert.True(t, IsNotFound(err))
	})
}

func TestCreateBoardList(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)

	_, err := repo.CreateBoardList(ctx, nil, "Doing")
	assert.True(t, IsNoSelection(err))

	_, err = repo.SelectBoard(ctx, "Alpha")
	require.NoError(t, err)
	l, err := repo.CreateBoardList(ctx, nil, "Doing")
	require.NoError(t, err)
	assert.Equal(t, "b1", l.BoardID.Remote)
	assert.True(t, l.BoardID.HasLocal())

	lists, err := repo.GetAllBoardLists(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, lists.Items, 3)
}

func TestCreateBoardList_ParentWithoutRemoteID(t *testing.T) {
	repo, src, _ := newFixtureRepo(t)
	offline := model.Board{ID: model.LocalID("m1"), Name: "Offline"}

	_, err := repo.CreateBoardList(context.Background(), &offline, "Doing")

	assert.True(t, IsRemoteUnavailable(err))
	assert.ErrorIs(t, err, remote.ErrNoRemoteID)
	assert.Zero(t, src.Calls["CreateList"])
}

func TestCreateListCard(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)
	selectShip(t, repo)

	c, err := repo.CreateListCard(ctx, nil, "Launch")
	require.NoError(t, err)
	assert.Equal(t, "l1", c.ListID.Remote)

	cards, err := repo.GetAllListCards(ctx, nil)
	require.NoError(t, err)
	require.Len(t, cards.Items, 3)
	assert.Equal(t, c.ID, cards.Items[2].ID)
}

func TestEditCard(t *testing.T) {
	ctx := context.Background()
	repo, src, _ := newFixtureRepo(t)
	selectShip(t, repo)
	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.SetCardDescription(ctx, nil, "changelog first")
	require.NoError(t, err)
	_, err = repo.SetCardDueDate(ctx, nil, due)
	require.NoError(t, err)
	c, err := repo.SetCardDueComplete(ctx, nil, true)
	require.NoError(t, err)

	assert.Equal(t, "changelog first", c.Description)
	assert.Equal(t, due, c.DueDate())
	assert.True(t, c.DueComplete)
	assert.True(t, c.ID.HasLocal(), "the mirror id survives the update")

	sel, ok := repo.Selection().Card()
	require.True(t, ok)
	assert.Equal(t, c, sel, "the selection sees the updated card")
	assert.True(t, repo.Selection().Has(selection.LevelChecklist), "editing keeps descendants")
	assert.Equal(t, "changelog first", src.Cards["l1"][0].Description)

	c, err = repo.ClearCardDueDate(ctx, nil)
	require.NoError(t, err)
	assert.False(t, c.HasDueDate())
	assert.False(t, c.DueComplete)
}

func TestEditCard_NoSelection(t *testing.T) {
	repo, _, _ := newFixtureRepo(t)

	_, err := repo.SetCardDescription(context.Background(), nil, "x")

	var nse *NoSelectionError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, selection.LevelCard, nse.Level)
}

func TestMoveCardToList(t *testing.T) {
	ctx := context.Background()
	repo, src, store := newFixtureRepo(t)
	selectShip(t, repo)
	before, _ := repo.Selection().Card()

	moved, err := repo.MoveCardToList(ctx, nil, "done")
	require.NoError(t, err)

	assert.Equal(t, "l2", moved.ListID.Remote)
	assert.Equal(t, before.ID, moved.ID)
	assert.Len(t, src.Cards["l1"], 1)
	assert.Len(t, src.Cards["l2"], 1)

	assert.False(t, repo.Selection().Has(selection.LevelCard))
	assert.False(t, repo.Selection().Has(selection.LevelChecklist))
	assert.True(t, repo.Selection().Has(selection.LevelList))

	var shipDocs []mirror.Document
	for _, d := range store.All(mirror.Cards) {
		if d.ID.Remote == "c1" {
			shipDocs = append(shipDocs, d)
		}
	}
	require.Len(t, shipDocs, 1, "a moved card is updated, not duplicated")
	assert.Equal(t, "l2", shipDocs[0].Parent.Remote)
}

func TestMoveCardToList_UnknownList(t *testing.T) {
	repo, src, _ := newFixtureRepo(t)
	selectShip(t, repo)

	_, err := repo.MoveCardToList(context.Background(), nil, "Archive")

	assert.True(t, IsNotFound(err))
	assert.Zero(t, src.Calls["UpdateCard"])
	assert.True(t, repo.Selection().Has(selection.LevelCard))
}

func TestListCardCountAndDueDates(t *testing.T) {
	ctx := context.Background()
	repo, src, _ := newFixtureRepo(t)
	early := time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC).Unix()
	src.Cards["l1"] = append(src.Cards["l1"], model.Card{
		ID: model.RemoteID("c3"), Name: "Hotfix", DueDateSeconds: early, ListID: model.RemoteID("l1"),
	})
	selectShip(t, repo)

	n, from, err := repo.GetListCardCount(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, FromCache, from)

	dues, _, err := repo.GetListDueDates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dues, 2)
	assert.Equal(t, "Hotfix", dues[0].Card.Name)
	assert.Equal(t, "Ship", dues[1].Card.Name)
	assert.Equal(t, time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), dues[1].DueDate)
}

func TestCardLabels(t *testing.T) {
	ctx := context.Background()
	repo, src, _ := newFixtureRepo(t)
	selectShip(t, repo)

	labels, err := repo.GetCardLabels(ctx, nil)
	require.NoError(t, err)
	require.Len(t, labels.Items, 1)
	assert.Equal(t, "Bug", labels.Items[0].Name)

	c, err := repo.AddCardLabel(ctx, nil, "Feature")
	require.NoError(t, err)
	assert.Len(t, c.LabelIDs, 2)

	calls := src.Calls["UpdateCard"]
	_, err = repo.AddCardLabel(ctx, nil, "feature")
	require.NoError(t, err)
	assert.Equal(t, calls, src.Calls["UpdateCard"], "adding an attached label is a no-op")

	c, err = repo.RemoveCardLabel(ctx, nil, "Bug")
	require.NoError(t, err)
	require.Len(t, c.LabelIDs, 1)
	assert.Equal(t, "lab2", c.LabelIDs[0].Remote)

	_, err = repo.RemoveCardLabel(ctx, nil, "Bug")
	assert.True(t, IsNotFound(err))
}

func TestCardComments(t *testing.T) {
	ctx := context.Background()
	repo, _, store := newFixtureRepo(t)
	selectShip(t, repo)

	res, err := repo.GetCardComments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Sam Doe", res.Items[0].CommenterName)

	cm, err := repo.AddCardComment(ctx, nil, "ship it")
	require.NoError(t, err)
	assert.Equal(t, "Test User", cm.CommenterName)
	assert.Equal(t, "c1", cm.CardID.Remote)

	res, err = repo.GetCardComments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, FromRemote, res.Source)
	assert.Len(t, res.Items, 2)
	assert.Len(t, store.All(mirror.Comments), 2)
}

func TestChecklists(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)
	selectShip(t, repo)

	cl, err := repo.CreateCardChecklist(ctx, nil, "Rollout")
	require.NoError(t, err)

	card, _ := repo.Selection().Card()
	assert.True(t, model.ContainsID(card.ChecklistIDs, cl.ID))
	assert.True(t, repo.Selection().Has(selection.LevelChecklist), "creating keeps the selected checklist")

	got, err := repo.SelectCardChecklist(ctx, "rollout", nil)
	require.NoError(t, err)
	assert.Equal(t, cl.ID, got.ID)
	assert.Equal(t, []string{"Alpha", "Todo", "Ship", "Rollout"}, repo.Selection().Path())
}

func TestChecklistTasks(t *testing.T) {
	ctx := context.Background()
	repo, src, _ := newFixtureRepo(t)
	selectShip(t, repo)

	task, err := repo.CreateChecklistTask(ctx, nil, "Deploy")
	require.NoError(t, err)
	assert.Equal(t, "cl1", task.ChecklistID.Remote)

	done, err := repo.CompleteChecklistTask(ctx, nil, "Deploy")
	require.NoError(t, err)
	assert.True(t, done.IsComplete)
	assert.Equal(t, task.ID, done.ID)
	assert.True(t, src.Tasks["cl1"][2].IsComplete)

	done.Name = "Deploy to prod"
	renamed, err := repo.UpdateChecklistTask(ctx, nil, done)
	require.NoError(t, err)
	assert.Equal(t, "Deploy to prod", renamed.Name)

	res, err := repo.GetChecklistTasks(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, "Deploy to prod", res.Items[2].Name)
}

func TestUpdateChecklistTask_WrongCard(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newFixtureRepo(t)
	selectShip(t, repo)
	tasks, err := repo.GetChecklistTasks(ctx, nil)
	require.NoError(t, err)

	_, err = repo.SelectListCard(ctx, "Polish", nil)
	require.NoError(t, err)

	_, err = repo.UpdateChecklistTask(ctx, nil, tasks.Items[0])
	assert.True(t, IsRemoteUnavailable(err))
}
