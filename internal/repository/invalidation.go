package repository

import "github.com/roach88/boardctl/internal/cache"

// Op names a mutating operation.
type Op string

const (
	OpCreateBoard           Op = "CreateBoard"
	OpRefreshBoards         Op = "RefreshBoards"
	OpCreateBoardLabel      Op = "CreateBoardLabel"
	OpUpdateBoardLabel      Op = "UpdateBoardLabel"
	OpDeleteBoardLabel      Op = "DeleteBoardLabel"
	OpCreateBoardList       Op = "CreateBoardList"
	OpCreateListCard        Op = "CreateListCard"
	OpUpdateCard            Op = "UpdateCard"
	OpMoveCardToList        Op = "MoveCardToList"
	OpSetCardDescription    Op = "SetCardDescription"
	OpSetCardDueDate        Op = "SetCardDueDate"
	OpClearCardDueDate      Op = "ClearCardDueDate"
	OpSetCardDueComplete    Op = "SetCardDueComplete"
	OpAddCardLabel          Op = "AddCardLabel"
	OpRemoveCardLabel       Op = "RemoveCardLabel"
	OpAddCardComment        Op = "AddCardComment"
	OpCreateCardChecklist   Op = "CreateCardChecklist"
	OpCreateChecklistTask   Op = "CreateChecklistTask"
	OpUpdateChecklistTask   Op = "UpdateChecklistTask"
	OpCompleteChecklistTask Op = "CompleteChecklistTask"
)

// MutatingOps lists every operation that must declare an invalidation set.
var MutatingOps = []Op{
	OpCreateBoard,
	OpRefreshBoards,
	OpCreateBoardLabel,
	OpUpdateBoardLabel,
	OpDeleteBoardLabel,
	OpCreateBoardList,
	OpCreateListCard,
	OpUpdateCard,
	OpMoveCardToList,
	OpSetCardDescription,
	OpSetCardDueDate,
	OpClearCardDueDate,
	OpSetCardDueComplete,
	OpAddCardLabel,
	OpRemoveCardLabel,
	OpAddCardComment,
	OpCreateCardChecklist,
	OpCreateChecklistTask,
	OpUpdateChecklistTask,
	OpCompleteChecklistTask,
}

// Invalidations maps each mutating operation to the cache slots it can
// make stale, following ownership: a write to an entity invalidates the
// collection that holds it, plus any collection whose entities reference it.
var Invalidations = map[Op][]cache.Slot{
	OpCreateBoard:   {cache.Boards},
	OpRefreshBoards: {cache.Boards},

	OpCreateBoardLabel: {cache.Labels},
	OpUpdateBoardLabel: {cache.Labels},
	// Cards drop the deleted label from their label ids.
	OpDeleteBoardLabel: {cache.Labels, cache.Cards},

	OpCreateBoardList: {cache.Lists},

	// A new card is not the card whose checklists are cached.
	OpCreateListCard:     {cache.Cards, cache.Checklists},
	OpUpdateCard:         {cache.Cards},
	OpMoveCardToList:     {cache.Cards},
	OpSetCardDescription: {cache.Cards},
	OpSetCardDueDate:     {cache.Cards},
	OpClearCardDueDate:   {cache.Cards},
	OpSetCardDueComplete: {cache.Cards},
	OpAddCardLabel:       {cache.Cards},
	OpRemoveCardLabel:    {cache.Cards},

	OpAddCardComment: {cache.Comments},

	// The owning card gains a checklist id.
	OpCreateCardChecklist: {cache.Checklists, cache.Cards},

	OpCreateChecklistTask:   {cache.Tasks},
	OpUpdateChecklistTask:   {cache.Tasks},
	OpCompleteChecklistTask: {cache.Tasks},
}

func (r *Repository) invalidate(op Op) {
	slots, ok := Invalidations[op]
	if !ok {
		// Every op is listed; reaching here is a programming error.
		panic("repository: no invalidation set for " + string(op))
	}
	r.cache.Invalidate(slots...)
	r.logger.Debug("cache invalidated", "op", string(op), "slots", slots)
}
