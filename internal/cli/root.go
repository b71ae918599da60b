package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // empty means config.DefaultPath()
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the boardctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	return newRootCommand(newApp(opts, openSession))
}

func newRootCommand(app *App) *cobra.Command {
	opts := app.opts
	path := &PathOptions{}

	cmd := &cobra.Command{
		Use:   "boardctl",
		Short: "boardctl - Trello boards from the terminal",
		Long: `Browse and edit Trello boards, lists, cards and checklists.

Every read is mirrored to a local store, so boards stay readable while
Trello is unreachable. Run without arguments to start the interactive shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				out := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}
				_ = out.Error("USAGE", msg, nil)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.shell(cmd, path)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/boardctl/config.yaml)")
	path.bind(cmd)

	// Add subcommands
	addDomainCommands(cmd, app, path)
	cmd.AddCommand(NewShellCommand(app, path))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// addDomainCommands attaches the entity commands shared by the one-shot CLI
// and the interactive shell.
func addDomainCommands(cmd *cobra.Command, app *App, path *PathOptions) {
	cmd.AddCommand(NewBoardCommand(app, path))
	cmd.AddCommand(NewLabelCommand(app, path))
	cmd.AddCommand(NewListCommand(app, path))
	cmd.AddCommand(NewCardCommand(app, path))
	cmd.AddCommand(NewCommentCommand(app, path))
	cmd.AddCommand(NewChecklistCommand(app, path))
	cmd.AddCommand(NewTaskCommand(app, path))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
