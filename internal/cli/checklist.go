package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/repository"
)

// NewChecklistCommand creates the checklist command group.
func NewChecklistCommand(app *App, path *PathOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "List, create and select checklists of the selected card",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-all",
		Short: "List the card's checklists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetCardChecklists(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindChecklist, res, v.checklist), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Add a checklist to the card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				cl, err := repo.CreateCardChecklist(ctx, nil, joinArgs(args))
				if err != nil {
					return Report{}, err
				}
				return entityReport("Created", repository.KindChecklist, cl, v.checklist), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Select a checklist of the card by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				cl, err := repo.SelectCardChecklist(ctx, joinArgs(args), nil)
				if err != nil {
					return Report{}, err
				}
				return entityReport("Selected", repository.KindChecklist, cl, v.checklist), nil
			})
		},
	})

	return cmd
}

// NewTaskCommand creates the task command group. Tasks belong to the
// selected checklist.
func NewTaskCommand(app *App, path *PathOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks of the selected checklist",
	}

	taskAction := func(verb string, do func(ctx context.Context, repo *repository.Repository, args []string) (model.CardChecklistTask, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				t, err := do(ctx, repo, args)
				if err != nil {
					return Report{}, err
				}
				return entityReport(verb, repository.KindTask, t, v.task), nil
			})
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-all",
		Short: "List the checklist's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetChecklistTasks(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindTask, res, v.task), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Add a task to the checklist",
		Args:  cobra.MinimumNArgs(1),
		RunE: taskAction("Created", func(ctx context.Context, repo *repository.Repository, args []string) (model.CardChecklistTask, error) {
			return repo.CreateChecklistTask(ctx, nil, joinArgs(args))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "complete <name>",
		Short: "Mark a task complete",
		Args:  cobra.MinimumNArgs(1),
		RunE: taskAction("Completed", func(ctx context.Context, repo *repository.Repository, args []string) (model.CardChecklistTask, error) {
			return repo.CompleteChecklistTask(ctx, nil, joinArgs(args))
		}),
	})

	var (
		rename   string
		complete bool
		update   *cobra.Command
	)
	update = &cobra.Command{
		Use:   "update <name>",
		Short: "Rename a task or set its completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: taskAction("Updated", func(ctx context.Context, repo *repository.Repository, args []string) (model.CardChecklistTask, error) {
			task, err := findTask(ctx, repo, joinArgs(args))
			if err != nil {
				return model.CardChecklistTask{}, err
			}
			if rename != "" {
				task.Name = rename
			}
			if update.Flags().Changed("complete") {
				task.IsComplete = complete
			}
			return repo.UpdateChecklistTask(ctx, nil, task)
		}),
	}
	update.Flags().StringVar(&rename, "name", "", "new task name")
	update.Flags().BoolVar(&complete, "complete", false, "completion state to set")
	cmd.AddCommand(update)

	return cmd
}

// findTask looks name up among the selected checklist's tasks.
func findTask(ctx context.Context, repo *repository.Repository, name string) (model.CardChecklistTask, error) {
	res, err := repo.GetChecklistTasks(ctx, nil)
	if err != nil {
		return model.CardChecklistTask{}, err
	}
	return repository.MatchName[model.CardChecklistTask](repository.KindTask, name, res.Items)
}
