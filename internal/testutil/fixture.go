package testutil

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/boardctl/internal/model"
)

// Fixture describes remote data as a nested tree of boards.
//
//	boards:
//	  - id: b1
//	    name: Alpha
//	    labels:
//	      - {id: lab1, name: Bug, color: red}
//	    lists:
//	      - id: l1
//	        name: Todo
//	        cards:
//	          - id: c1
//	            name: Ship
//	            labels: [lab1]
//	            checklists:
//	              - id: cl1
//	                name: Steps
//	                tasks:
//	                  - {id: t1, name: Write, complete: true}
type Fixture struct {
	Boards []FixtureBoard `yaml:"boards"`
}

// FixtureBoard is a board with its labels and lists.
type FixtureBoard struct {
	ID     string         `yaml:"id"`
	Name   string         `yaml:"name"`
	Labels []FixtureLabel `yaml:"labels,omitempty"`
	Lists  []FixtureList  `yaml:"lists,omitempty"`
}

// FixtureLabel is a board label.
type FixtureLabel struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color,omitempty"`
}

// FixtureList is a list with its cards.
type FixtureList struct {
	ID    string        `yaml:"id"`
	Name  string        `yaml:"name"`
	Cards []FixtureCard `yaml:"cards,omitempty"`
}

// FixtureCard is a card with its checklists and comments. Labels reference
// board label ids.
type FixtureCard struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Due         *time.Time         `yaml:"due,omitempty"`
	DueComplete bool               `yaml:"due_complete,omitempty"`
	Labels      []string           `yaml:"labels,omitempty"`
	Checklists  []FixtureChecklist `yaml:"checklists,omitempty"`
	Comments    []FixtureComment   `yaml:"comments,omitempty"`
}

// FixtureChecklist is a checklist with its tasks.
type FixtureChecklist struct {
	ID    string        `yaml:"id"`
	Name  string        `yaml:"name"`
	Tasks []FixtureTask `yaml:"tasks,omitempty"`
}

// FixtureTask is a checklist item.
type FixtureTask struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Complete bool   `yaml:"complete,omitempty"`
}

// FixtureComment is a card comment.
type FixtureComment struct {
	ID   string    `yaml:"id"`
	Text string    `yaml:"text"`
	By   string    `yaml:"by,omitempty"`
	At   time.Time `yaml:"at,omitempty"`
}

// LoadFixture reads a fixture file and returns a FakeRemote holding it.
func LoadFixture(path string) (*FakeRemote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML. Unknown fields are rejected.
func ParseFixture(data []byte) (*FakeRemote, error) {
	var fx Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateFixture(&fx); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return fx.Remote(), nil
}

// Remote builds a FakeRemote populated with the fixture's data.
func (fx *Fixture) Remote() *FakeRemote {
	f := NewFakeRemote()
	for _, b := range fx.Boards {
		boardID := model.RemoteID(b.ID)
		f.Boards = append(f.Boards, model.Board{ID: boardID, Name: b.Name})

		for _, l := range b.Labels {
			f.Labels[b.ID] = append(f.Labels[b.ID], model.CardLabel{
				ID: model.RemoteID(l.ID), BoardID: boardID, Name: l.Name, Color: l.Color,
			})
		}

		for _, l := range b.Lists {
			listID := model.RemoteID(l.ID)
			f.Lists[b.ID] = append(f.Lists[b.ID], model.BoardList{ID: listID, Name: l.Name, BoardID: boardID})

			for _, c := range l.Cards {
				f.Cards[l.ID] = append(f.Cards[l.ID], c.card(listID))
				cardID := model.RemoteID(c.ID)

				for _, cl := range c.Checklists {
					f.Checklists[c.ID] = append(f.Checklists[c.ID], model.CardChecklist{
						ID: model.RemoteID(cl.ID), Name: cl.Name, CardID: cardID,
					})
					for _, t := range cl.Tasks {
						f.Tasks[cl.ID] = append(f.Tasks[cl.ID], model.CardChecklistTask{
							ID: model.RemoteID(t.ID), Name: t.Name, IsComplete: t.Complete,
							ChecklistID: model.RemoteID(cl.ID),
						})
					}
				}

				for _, cm := range c.Comments {
					comment := model.CardComment{
						ID: model.RemoteID(cm.ID), Text: cm.Text, CommenterName: cm.By, CardID: cardID,
					}
					if !cm.At.IsZero() {
						comment.CommentTimeSeconds = cm.At.Unix()
					}
					f.Comments[c.ID] = append(f.Comments[c.ID], comment)
				}
			}
		}
	}
	return f
}

func (c FixtureCard) card(listID model.ID) model.Card {
	card := model.Card{
		ID:           model.RemoteID(c.ID),
		Name:         c.Name,
		Description:  c.Description,
		DueComplete:  c.DueComplete,
		LabelIDs:     []model.ID{},
		ChecklistIDs: []model.ID{},
		ListID:       listID,
	}
	if c.Due != nil {
		card.DueDateSeconds = c.Due.Unix()
	}
	for _, l := range c.Labels {
		card.LabelIDs = append(card.LabelIDs, model.RemoteID(l))
	}
	for _, cl := range c.Checklists {
		card.ChecklistIDs = append(card.ChecklistIDs, model.RemoteID(cl.ID))
	}
	return card
}

// validateFixture checks that every entity has an id and a name and that
// card labels reference labels of their board.
func validateFixture(fx *Fixture) error {
	for _, b := range fx.Boards {
		if b.ID == "" || b.Name == "" {
			return fmt.Errorf("board %q: id and name are required", b.Name)
		}
		labels := make(map[string]bool, len(b.Labels))
		for _, l := range b.Labels {
			if l.ID == "" {
				return fmt.Errorf("board %q: label %q has no id", b.Name, l.Name)
			}
			labels[l.ID] = true
		}
		for _, l := range b.Lists {
			if l.ID == "" || l.Name == "" {
				return fmt.Errorf("board %q: list id and name are required", b.Name)
			}
			for _, c := range l.Cards {
				if c.ID == "" || c.Name == "" {
					return fmt.Errorf("list %q: card id and name are required", l.Name)
				}
				for _, ref := range c.Labels {
					if !labels[ref] {
						return fmt.Errorf("card %q: unknown label %q", c.Name, ref)
					}
				}
			}
		}
	}
	return nil
}
