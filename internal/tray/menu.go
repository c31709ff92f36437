// Package tray builds the tray menu and routes tray icon and menu events to
// the handlers registered for them.
package tray

import (
	"errors"
	"fmt"
)

// Menu item identifiers. Handlers are keyed by these exact strings.
const (
	IDShow      = "show"
	IDDashboard = "dashboard"
	IDQuit      = "quit"
)

var ErrInvalidMenu = errors.New("invalid tray menu")

type MenuItem struct {
	ID      string
	Label   string
	Enabled bool
}

// Entry is either an item or a separator.
type Entry struct {
	Item      MenuItem
	Separator bool
}

// Menu is the ordered, immutable content of the tray menu.
type Menu struct {
	entries []Entry
}

type MenuOptions struct {
	ShowLabel      string
	QuitLabel      string
	DashboardLabel string
	// Dashboard adds the navigation item between show and the separator.
	Dashboard bool
}

func DefaultMenuOptions() MenuOptions {
	return MenuOptions{
		ShowLabel:      "Show Window",
		QuitLabel:      "Quit",
		DashboardLabel: "Open Dashboard",
	}
}

// BuildMenu assembles show, the optional dashboard item, a separator and quit.
func BuildMenu(opts MenuOptions) (*Menu, error) {
	entries := []Entry{
		{Item: MenuItem{ID: IDShow, Label: opts.ShowLabel, Enabled: true}},
	}
	if opts.Dashboard {
		entries = append(entries, Entry{Item: MenuItem{ID: IDDashboard, Label: opts.DashboardLabel, Enabled: true}})
	}
	entries = append(entries,
		Entry{Separator: true},
		Entry{Item: MenuItem{ID: IDQuit, Label: opts.QuitLabel, Enabled: true}},
	)
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return &Menu{entries: entries}, nil
}

// Validate checks that ids are unique and that show and quit are present
// with labels.
func Validate(entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Separator {
			continue
		}
		if e.Item.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidMenu, i)
		}
		if e.Item.Label == "" {
			return fmt.Errorf("%w: item %q has no label", ErrInvalidMenu, e.Item.ID)
		}
		if seen[e.Item.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidMenu, e.Item.ID)
		}
		seen[e.Item.ID] = true
	}
	for _, id := range []string{IDShow, IDQuit} {
		if !seen[id] {
			return fmt.Errorf("%w: missing %q item", ErrInvalidMenu, id)
		}
	}
	return nil
}

// Entries returns a copy of the menu content.
func (m *Menu) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Menu) Item(id string) (MenuItem, bool) {
	for _, e := range m.entries {
		if !e.Separator && e.Item.ID == id {
			return e.Item, true
		}
	}
	return MenuItem{}, false
}

// IDs lists the item identifiers in menu order.
func (m *Menu) IDs() []string {
	ids := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.Separator {
			ids = append(ids, e.Item.ID)
		}
	}
	return ids
}
