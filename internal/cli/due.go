package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// dueLayouts are tried before natural language parsing.
var dueLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

var dueParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseDue turns "2024-05-01", "tomorrow 5pm" or "next friday" into an
// instant relative to now.
func parseDue(phrase string, now time.Time) (time.Time, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, phrase, now.Location()); err == nil {
			return t, nil
		}
	}

	r, err := dueParser.Parse(phrase, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse due date %q: %w", phrase, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("cannot understand due date %q", phrase)
	}
	return r.Time, nil
}
