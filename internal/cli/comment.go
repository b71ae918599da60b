package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/repository"
)

// NewCommentCommand creates the comment command group.
func NewCommentCommand(app *App, path *PathOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Read and add comments on the selected card",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-all",
		Short: "List the card's comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetCardComments(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return readReport("comment", res, v.comment), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Comment on the card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				c, err := repo.AddCardComment(ctx, nil, joinArgs(args))
				if err != nil {
					return Report{}, err
				}
				return Report{
					Message: "Added comment",
					Items:   c,
					Lines:   []string{v.comment(c)},
				}, nil
			})
		},
	})

	return cmd
}
