package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/repository"
)

// NewListCommand creates the list command group.
func NewListCommand(app *App, path *PathOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List, create and select lists of the selected board",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-all",
		Short: "List the board's lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetAllBoardLists(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindList, res, v.list), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a list on the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				l, err := repo.CreateBoardList(ctx, nil, joinArgs(args))
				if err != nil {
					return Report{}, err
				}
				return entityReport("Created", repository.KindList, l, v.list), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Select a list of the board by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				l, err := repo.SelectBoardList(ctx, joinArgs(args), nil)
				if err != nil {
					return Report{}, err
				}
				return entityReport("Selected", repository.KindList, l, v.list), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Count the cards in the selected list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				n, src, err := repo.GetListCardCount(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return Report{
					Message: fmt.Sprintf("List has %s (from %s)", plural(n, repository.KindCard), src),
					Source:  src.String(),
					Items:   n,
				}, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "due-dates",
		Short: "Show the due dates of the list's cards, soonest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				dates, src, err := repo.GetListDueDates(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				r := Report{
					Message: fmt.Sprintf("Retrieved %s (from %s)", plural(len(dates), "due date"), src),
					Source:  src.String(),
					Items:   dates,
				}
				for _, d := range dates {
					r.Lines = append(r.Lines, v.dueDate(d))
				}
				return r, nil
			})
		},
	})

	return cmd
}
