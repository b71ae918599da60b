package cli

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/repository"
)

// opener builds a session from the global options.
type opener func(ctx context.Context, opts *RootOptions) (*Session, error)

// App ties the command tree to one repository session.
//
// One-shot commands open the session, run, and close it. The shell opens it
// once and keeps it, so selections and the cache survive between lines.
type App struct {
	opts    *RootOptions
	open    opener
	session *Session
	keep    bool
	now     func() time.Time
}

func newApp(opts *RootOptions, open opener) *App {
	return &App{opts: opts, open: open, now: time.Now}
}

// PathOptions selects entities by name before a command runs, so one-shot
// invocations can address a card without an interactive session.
type PathOptions struct {
	Board     string
	List      string
	Card      string
	Checklist string
}

func (p *PathOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&p.Board, "board", "", "select this board first")
	flags.StringVar(&p.List, "list", "", "select this list of the board first")
	flags.StringVar(&p.Card, "card", "", "select this card of the list first")
	flags.StringVar(&p.Checklist, "checklist", "", "select this checklist of the card first")
}

// apply selects the named path in hierarchy order.
func (p *PathOptions) apply(ctx context.Context, repo *repository.Repository) error {
	if p.Board != "" {
		if _, err := repo.SelectBoard(ctx, p.Board); err != nil {
			return err
		}
	}
	if p.List != "" {
		if _, err := repo.SelectBoardList(ctx, p.List, nil); err != nil {
			return err
		}
	}
	if p.Card != "" {
		if _, err := repo.SelectListCard(ctx, p.Card, nil); err != nil {
			return err
		}
	}
	if p.Checklist != "" {
		if _, err := repo.SelectCardChecklist(ctx, p.Checklist, nil); err != nil {
			return err
		}
	}
	return nil
}

// action is the body of a domain command.
type action func(ctx context.Context, repo *repository.Repository, v *view) (Report, error)

func (a *App) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    a.opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   a.opts.Verbose,
	}
}

// run opens the session if needed, applies the path flags and reports the
// outcome of fn.
func (a *App) run(cmd *cobra.Command, path *PathOptions, fn action) error {
	out := a.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := a.ensureSession(ctx)
	if err != nil {
		return out.Fail(err)
	}
	if !a.keep {
		defer a.closeSession()
	}

	if err := path.apply(ctx, s.Repo); err != nil {
		return out.Fail(err)
	}
	report, err := fn(ctx, s.Repo, newView(cmd.OutOrStdout()))
	if err != nil {
		s.Logger.Debug("command failed", "command", cmd.CommandPath(), "error", err)
		return out.Fail(err)
	}
	out.VerboseLog("selection: %s", strings.Join(s.Repo.Selection().Path(), "/"))
	return out.Report(report)
}

func (a *App) ensureSession(ctx context.Context) (*Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	s, err := a.open(ctx, a.opts)
	if err != nil {
		return nil, err
	}
	a.session = s
	return s, nil
}

func (a *App) closeSession() {
	if a.session == nil {
		return
	}
	if err := a.session.Close(); err != nil {
		a.session.Logger.Error("error closing session", "error", err)
	}
	a.session = nil
}

// logger returns the session logger, or a discarding one before the session
// exists.
func (a *App) logger() *slog.Logger {
	if a.session != nil {
		return a.session.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// joinArgs rebuilds a multi-word name split by the shell.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
