package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/repository"
	"github.com/roach88/boardctl/internal/selection"
)

// NewCardCommand creates the card command group. Reads and creation act on
// the selected list; edits act on the selected card.
func NewCardCommand(app *App, path *PathOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Browse and edit cards",
	}

	// cardAction runs an edit of the selected card and reports the result.
	cardAction := func(verb string, edit func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				c, err := edit(ctx, repo, args)
				if err != nil {
					return Report{}, err
				}
				return entityReport(verb, repository.KindCard, c, v.card), nil
			})
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-all",
		Short: "List the cards of the selected list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetAllListCards(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindCard, res, v.card), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a card in the selected list",
		Args:  cobra.MinimumNArgs(1),
		RunE: cardAction("Created", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			return repo.CreateListCard(ctx, nil, joinArgs(args))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Select a card of the list by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: cardAction("Selected", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			return repo.SelectListCard(ctx, joinArgs(args), nil)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the selected card",
		Args:  cobra.MinimumNArgs(1),
		RunE: cardAction("Renamed", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			c, ok := repo.Selection().Card()
			if !ok {
				return model.Card{}, &repository.NoSelectionError{Level: selection.LevelCard}
			}
			c.Name = joinArgs(args)
			return repo.UpdateCard(ctx, c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <list>",
		Short: "Move the selected card to another list of the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: cardAction("Moved", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			return repo.MoveCardToList(ctx, nil, joinArgs(args))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "describe <text>",
		Short: "Set the selected card's description",
		Args:  cobra.ArbitraryArgs,
		RunE: cardAction("Described", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			return repo.SetCardDescription(ctx, nil, joinArgs(args))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "due <when>",
		Short: "Set the selected card's due date",
		Long: `Set the selected card's due date. Accepts a date ("2024-05-01"),
a date and time ("2024-05-01 17:00") or a phrase ("tomorrow 5pm", "next friday").`,
		Args: cobra.MinimumNArgs(1),
		RunE: cardAction("Scheduled", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			due, err := parseDue(joinArgs(args), app.now())
			if err != nil {
				return model.Card{}, err
			}
			return repo.SetCardDueDate(ctx, nil, due)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "due-clear",
		Short: "Remove the selected card's due date",
		Args:  cobra.NoArgs,
		RunE: cardAction("Unscheduled", func(ctx context.Context, repo *repository.Repository, _ []string) (model.Card, error) {
			return repo.ClearCardDueDate(ctx, nil)
		}),
	})

	var undo bool
	done := &cobra.Command{
		Use:   "due-done",
		Short: "Mark the selected card's due date complete",
		Args:  cobra.NoArgs,
		RunE: cardAction("Updated", func(ctx context.Context, repo *repository.Repository, _ []string) (model.Card, error) {
			return repo.SetCardDueComplete(ctx, nil, !undo)
		}),
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark the due date incomplete instead")
	cmd.AddCommand(done)

	cmd.AddCommand(&cobra.Command{
		Use:   "labels",
		Short: "List the labels on the selected card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, path, func(ctx context.Context, repo *repository.Repository, v *view) (Report, error) {
				res, err := repo.GetCardLabels(ctx, nil)
				if err != nil {
					return Report{}, err
				}
				return readReport(repository.KindLabel, res, v.label), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-label <label>",
		Short: "Attach a board label to the selected card",
		Args:  cobra.MinimumNArgs(1),
		RunE: cardAction("Labelled", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			return repo.AddCardLabel(ctx, nil, joinArgs(args))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-label <label>",
		Short: "Detach a label from the selected card",
		Args:  cobra.MinimumNArgs(1),
		RunE: cardAction("Unlabelled", func(ctx context.Context, repo *repository.Repository, args []string) (model.Card, error) {
			return repo.RemoveCardLabel(ctx, nil, joinArgs(args))
		}),
	})

	return cmd
}
