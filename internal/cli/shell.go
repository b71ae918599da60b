package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

// NewShellCommand creates the shell command.
func NewShellCommand(app *App, path *PathOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Long: `Start the interactive shell.

The prompt shows the selected board, list, card and checklist. Commands are
the same as on the command line without the "boardctl" prefix:

  >board select Alpha
  Alpha>list select Todo
  Alpha/Todo>card get-all
  Alpha/Todo>exit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.shell(cmd, path)
		},
	}
}

// shell runs the read-eval-print loop until "exit" or end of input. The
// session stays open for the whole loop.
func (a *App) shell(cmd *cobra.Command, path *PathOptions) error {
	out := a.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a.keep = true
	defer func() {
		a.keep = false
		a.closeSession()
	}()

	s, err := a.ensureSession(ctx)
	if err != nil {
		return out.Fail(err)
	}
	if err := path.apply(ctx, s.Repo); err != nil {
		_ = out.Fail(err)
	}

	w := cmd.OutOrStdout()
	promptStyle := lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color("#0079bf"))
	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(w, promptStyle.Render(prompt(s.Repo.Selection().Path())))
		if !in.Scan() {
			fmt.Fprintln(w)
			return in.Err()
		}

		args, err := splitLine(in.Text())
		if err != nil {
			_ = out.Error("USAGE", err.Error(), nil)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		line := a.lineCommand()
		line.SetArgs(args)
		line.SetIn(cmd.InOrStdin())
		line.SetOut(w)
		line.SetErr(cmd.ErrOrStderr())
		if err := line.ExecuteContext(ctx); err != nil {
			// Domain failures were already reported by App.run.
			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				_ = out.Error("USAGE", err.Error(), nil)
			}
			a.logger().Debug("shell command failed", "line", in.Text(), "error", err)
		}
	}
}

// lineCommand builds a fresh command tree for one shell line, so flag
// values never leak from one line into the next.
func (a *App) lineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	path := &PathOptions{}
	path.bind(cmd)
	addDomainCommands(cmd, a, path)
	return cmd
}

// prompt renders the selection chain as "Alpha/Todo/Ship>".
func prompt(path []string) string {
	return strings.Join(path, "/") + ">"
}

// splitLine splits a shell line into words with POSIX quoting rules.
// Operators such as ";" or "|" are rejected rather than silently ending the
// line early.
func splitLine(line string) ([]string, error) {
	p := shellwords.NewParser()
	words, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("unbalanced quotes or trailing backslash: %w", err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("unexpected %q; quote it to use it in a name", line[p.Position])
	}
	return words, nil
}
