// Package commands is the command palette: typed command names mapped to
// editor actions.
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCommand is returned by Run for text that names no command.
var ErrUnknownCommand = errors.New("command not found")

// Actions holds callbacks for the palette commands. Nil actions leave the
// command unregistered.
type Actions struct {
	OpenFile   func() error
	OpenFolder func() error
	NewTab     func() error
	CloseTab   func() error
	SaveFile   func() error
}

// Command is one palette entry.
type Command struct {
	ID       string `json:"id"`
	Name     string `json:"name"` // what the user types, lowercase
	Shortcut string `json:"shortcut,omitempty"`
	Category string `json:"category"`
	run      func() error
}

// Table maps command names to commands.
type Table struct {
	byName map[string]Command
}

// NewTable builds the palette for a.
func NewTable(a Actions) *Table {
	all := []Command{
		{ID: "file.open", Name: "open file", Shortcut: "Ctrl+O", Category: "File", run: a.OpenFile},
		{ID: "folder.open", Name: "open folder", Category: "File", run: a.OpenFolder},
		{ID: "tab.new", Name: "new tab", Shortcut: "Ctrl+N", Category: "File", run: a.NewTab},
		{ID: "tab.close", Name: "close tab", Shortcut: "Ctrl+W", Category: "File", run: a.CloseTab},
		{ID: "file.save", Name: "save file", Shortcut: "Ctrl+S", Category: "File", run: a.SaveFile},
	}
	t := &Table{byName: make(map[string]Command, len(all))}
	for _, c := range all {
		if c.run != nil {
			t.byName[c.Name] = c
		}
	}
	return t
}

// Run executes the command named by text, matched case-insensitively after
// trimming surrounding space.
func (t *Table) Run(text string) error {
	name := strings.ToLower(strings.TrimSpace(text))
	c, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return c.run()
}

// List returns the registered commands sorted by name.
func (t *Table) List() []Command {
	out := make([]Command, 0, len(t.byName))
	for _, c := range t.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
