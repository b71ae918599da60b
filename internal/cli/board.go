package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/repository"
)

// NewBoardCommand creates the board command group.
func NewBoardCommand(app *App, path *PathOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "List, create and select boards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-all",
		Short: "List every board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetAllBoards(ctx)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindBoard, res, v.board), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Drop cached boards and fetch them again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.RefreshBoards(ctx)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindBoard, res, v.board), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				b, err := repo.CreateBoard(ctx, joinArgs(args))
				if err != nil {
					return Report{}, err
				}
				return entityReport("Created", repository.KindBoard, b, v.board), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Select a board by name",
		Long: `Select a board by name. Selecting a board clears the selected list,
card and checklist.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				b, err := repo.SelectBoard(ctx, joinArgs(args))
				if err != nil {
					return Report{}, err
				}
				return entityReport("Selected", repository.KindBoard, b, v.board), nil
			})
		},
	})

	return cmd
}
