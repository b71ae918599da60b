package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/repository"
)

// NewLabelCommand creates the label command group. Labels belong to the
// selected board.
func NewLabelCommand(app *App, path *PathOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage the labels of the selected board",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-all",
		Short: "List the board's labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetAllBoardLabels(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindLabel, res, v.label), nil
			})
		},
	})

	var createColor string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a label on the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				l, err := repo.CreateBoardLabel(ctx, nil, joinArgs(args), createColor)
				if err != nil {
					return Report{}, err
				}
				return entityReport("Created", repository.KindLabel, l, v.label), nil
			})
		},
	}
	create.Flags().StringVar(&createColor, "color", "", "label colour (green, yellow, orange, red, purple, blue, sky, lime, pink, black)")
	cmd.AddCommand(create)

	var newName, newColor string
	update := &cobra.Command{
		Use:   "update <name>",
		Short: "Rename or recolour a label",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				l, err := repo.UpdateBoardLabel(ctx, nil, joinArgs(args), newName, newColor)
				if err != nil {
					return Report{}, err
				}
				return entityReport("Updated", repository.KindLabel, l, v.label), nil
			})
		},
	}
	update.Flags().StringVar(&newName, "name", "", "new label name")
	update.Flags().StringVar(&newColor, "color", "", "new label colour")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a label and detach it from every card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				l, err := repo.DeleteBoardLabel(ctx, nil, joinArgs(args))
				if err != nil {
					return Report{}, err
				}
				return entityReport("Deleted", repository.KindLabel, l, v.label), nil
			})
		},
	})

	return cmd
}
