package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/boardctl/internal/model"
	"github.com/roach88/boardctl/internal/repository"
)

// labelColors maps Trello label colour names to terminal colours.
var labelColors = map[string]lipgloss.Color{
	"green":  "#61bd4f",
	"yellow": "#f2d600",
	"orange": "#ff9f1a",
	"red":    "#eb5a46",
	"purple": "#c377e0",
	"blue":   "#0079bf",
	"sky":    "#00c2e0",
	"lime":   "#51e898",
	"pink":   "#ff78cb",
	"black":  "#344563",
}

// view renders entities as single text lines. Styles degrade to plain text
// when the writer is not a terminal.
type view struct {
	r     *lipgloss.Renderer
	dim   lipgloss.Style
	done  lipgloss.Style
	alert lipgloss.Style
}

func newView(w io.Writer) *view {
	r := lipgloss.NewRenderer(w)
	return &view{
		r:     r,
		dim:   r.NewStyle().Faint(true),
		done:  r.NewStyle().Foreground(lipgloss.Color("#61bd4f")),
		alert: r.NewStyle().Foreground(lipgloss.Color("#eb5a46")),
	}
}

func (v *view) board(b model.Board) string { return b.Name }

func (v *view) list(l model.BoardList) string { return l.Name }

func (v *view) checklist(c model.CardChecklist) string { return c.Name }

func (v *view) card(c model.Card) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.HasDueDate() {
		due := "due " + c.DueDate().Format("2006-01-02 15:04")
		if c.DueComplete {
			b.WriteString(" " + v.done.Render(due+" (done)"))
		} else {
			b.WriteString(" " + v.dim.Render(due))
		}
	}
	if n := len(c.LabelIDs); n > 0 {
		b.WriteString(" " + v.dim.Render(plural(n, "label")))
	}
	return b.String()
}

func (v *view) label(l model.CardLabel) string {
	if l.Color == "" {
		return l.Name
	}
	swatch := v.r.NewStyle().Foreground(labelColors[l.Color]).Render("●")
	return fmt.Sprintf("%s %s %s", swatch, l.Name, v.dim.Render("("+l.Color+")"))
}

func (v *view) task(t model.CardChecklistTask) string {
	if t.IsComplete {
		return v.done.Render("[x]") + " " + t.Name
	}
	return "[ ] " + t.Name
}

func (v *view) comment(c model.CardComment) string {
	at := c.CommentTime().Format("2006-01-02 15:04")
	return fmt.Sprintf("%s %s: %s", v.dim.Render(at), c.CommenterName, c.Text)
}

func (v *view) dueDate(d model.CardDueDate) string {
	return fmt.Sprintf("%s %s", d.DueDate.Format("2006-01-02 15:04"), d.Card.Name)
}

// plural renders "1 board" or "3 boards".
func plural(n int, kind string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", kind)
	}
	return fmt.Sprintf("%d %ss", n, kind)
}

// readReport describes a read-all result, including where it came from.
func readReport[T any](kind string, res repository.Result[T], line func(T) string) Report {
	r := Report{
		Message: fmt.Sprintf("Retrieved %s (from %s)", plural(len(res.Items), kind), res.Source),
		Source:  res.Source.String(),
		Stale:   res.Stale,
		Items:   res.Items,
	}
	switch {
	case res.Stale:
		r.Warning = "remote and mirror unavailable; showing the last cached copy"
	case res.RemoteErr != nil:
		r.Warning = fmt.Sprintf("%v; showing the mirror copy", res.RemoteErr)
	}
	if res.Sync != nil {
		sync := fmt.Sprintf("mirror did not save %s", plural(len(res.Sync.Failed), kind))
		if r.Warning != "" {
			r.Warning += "; " + sync
		} else {
			r.Warning = sync
		}
	}
	for _, item := range res.Items {
		r.Lines = append(r.Lines, line(item))
	}
	return r
}

// entityReport describes a single created, selected or updated entity.
func entityReport[T any, P interface {
	*T
	model.Entity
}](verb, kind string, item T, line func(T) string) Report {
	return Report{
		Message: fmt.Sprintf("%s %s %s", verb, kind, P(&item).DisplayName()),
		Items:   item,
		Lines:   []string{line(item)},
	}
}
