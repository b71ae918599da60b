package repository

import (
	"context"

	"github.com/roach88/boardctl/internal/cache"
	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// GetChecklistTasks returns the tasks of checklist, or the selected checklist.
func (r *Repository) GetChecklistTasks(ctx context.Context, checklist *model.CardChecklist) (Result[model.CardChecklistTask], error) {
	cl, err := r.sel.ResolveChecklist(checklist)
	if err != nil {
		return Result[model.CardChecklistTask]{}, err
	}
	return readAll[model.CardChecklistTask](ctx, r, collectionRead[model.CardChecklistTask]{
		op:         "GetChecklistTasks",
		slot:       cache.Tasks,
		collection: mirror.Tasks,
		parent:     cl.ID,
		fetch:      r.remote.ListTasks,
	})
}

// CreateChecklistTask adds a task to checklist, or the selected checklist.
func (r *Repository) CreateChecklistTask(ctx context.Context, checklist *model.CardChecklist, name string) (model.CardChecklistTask, error) {
	cl, err := r.sel.ResolveChecklist(checklist)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	checklistID, err := requireRemote(OpCreateChecklistTask, cl.ID)
	if err != nil {
		return model.CardChecklistTask{}, err
	}

	t, err := r.remote.CreateTask(ctx, checklistID, name)
	if err != nil {
		return model.CardChecklistTask{}, remoteFailed(OpCreateChecklistTask, err)
	}
	t = saveMirror[model.CardChecklistTask](ctx, r, OpCreateChecklistTask, mirror.Tasks, cl.ID, t)
	r.invalidate(OpCreateChecklistTask)
	return t, nil
}

// UpdateChecklistTask writes task's name and completion through card, or
// the selected card, which must own the task's checklist.
func (r *Repository) UpdateChecklistTask(ctx context.Context, card *model.Card, task model.CardChecklistTask) (model.CardChecklistTask, error) {
	c, err := r.sel.ResolveCard(card)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	return r.updateTask(ctx, OpUpdateChecklistTask, c.ID, task)
}

// CompleteChecklistTask marks the task called name on checklist, or the
// selected checklist, as complete.
func (r *Repository) CompleteChecklistTask(ctx context.Context, checklist *model.CardChecklist, name string) (model.CardChecklistTask, error) {
	cl, err := r.sel.ResolveChecklist(checklist)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	res, err := r.GetChecklistTasks(ctx, &cl)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	t, err := MatchName[model.CardChecklistTask](KindTask, name, res.Items)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	t.IsComplete = true
	return r.updateTask(ctx, OpCompleteChecklistTask, cl.CardID, t)
}

func (r *Repository) updateTask(ctx context.Context, op Op, card model.ID, task model.CardChecklistTask) (model.CardChecklistTask, error) {
	cardID, err := requireRemote(op, card)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	if _, err := requireRemote(op, task.ID); err != nil {
		return model.CardChecklistTask{}, err
	}

	t, err := r.remote.UpdateTask(ctx, cardID, task)
	if err != nil {
		return model.CardChecklistTask{}, remoteFailed(op, err)
	}
	t.ID = t.ID.Merge(task.ID)
	parent := sameOrReplace(task.ChecklistID, t.ChecklistID)
	t = saveMirror[model.CardChecklistTask](ctx, r, op, mirror.Tasks, parent, t)
	r.invalidate(op)
	return t, nil
}
