// Package keymap declares the dashboard's key bindings per view so the
// update loop and the help line share one definition.
package keymap

import "strings"

// Command is a named action triggered by a key.
type Command string

const (
	CmdQuit       Command = "quit"
	CmdBack       Command = "back"
	CmdUp         Command = "up"
	CmdDown       Command = "down"
	CmdNextPage   Command = "next_page"
	CmdPrevPage   Command = "prev_page"
	CmdOpen       Command = "open"
	CmdRefresh    Command = "refresh"
	CmdSearch     Command = "search"
	CmdFilter     Command = "cycle_filter"
	CmdNew        Command = "new"
	CmdEdit       Command = "edit"
	CmdDelete     Command = "delete"
	CmdComments   Command = "comments"
	CmdSignOut    Command = "sign_out"
	CmdNextField  Command = "next_field"
	CmdPrevField  Command = "prev_field"
	CmdSubmit     Command = "submit"
	CmdCycleValue Command = "cycle_value"
)

// Binding ties keys to a command with help text.
type Binding struct {
	Keys    []string
	Command Command
	Help    string
}

// View names a binding set.
type View string

const (
	ViewSignIn   View = "sign_in"
	ViewList     View = "list"
	ViewDetail   View = "detail"
	ViewForm     View = "form"
	ViewComments View = "comments"
)

// Map holds the bindings for every view.
type Map map[View][]Binding

// Default returns the dashboard's standard bindings.
func Default() Map {
	return Map{
		ViewSignIn: {
			{Keys: []string{"tab", "down"}, Command: CmdNextField, Help: "next field"},
			{Keys: []string{"shift+tab", "up"}, Command: CmdPrevField, Help: "prev field"},
			{Keys: []string{"enter"}, Command: CmdSubmit, Help: "sign in"},
			{Keys: []string{"ctrl+c"}, Command: CmdQuit, Help: "quit"},
		},
		ViewList: {
			{Keys: []string{"up", "k"}, Command: CmdUp, Help: "up"},
			{Keys: []string{"down", "j"}, Command: CmdDown, Help: "down"},
			{Keys: []string{"right", "l"}, Command: CmdNextPage, Help: "next page"},
			{Keys: []string{"left", "h"}, Command: CmdPrevPage, Help: "prev page"},
			{Keys: []string{"enter"}, Command: CmdOpen, Help: "open"},
			{Keys: []string{"/"}, Command: CmdSearch, Help: "search"},
			{Keys: []string{"f"}, Command: CmdFilter, Help: "filter status"},
			{Keys: []string{"r"}, Command: CmdRefresh, Help: "refresh"},
			{Keys: []string{"n"}, Command: CmdNew, Help: "new project"},
			{Keys: []string{"s"}, Command: CmdSignOut, Help: "sign out"},
			{Keys: []string{"q", "ctrl+c"}, Command: CmdQuit, Help: "quit"},
		},
		ViewDetail: {
			{Keys: []string{"up", "k"}, Command: CmdUp, Help: "scroll"},
			{Keys: []string{"down", "j"}, Command: CmdDown, Help: "scroll"},
			{Keys: []string{"c"}, Command: CmdComments, Help: "comments"},
			{Keys: []string{"e"}, Command: CmdEdit, Help: "edit"},
			{Keys: []string{"d"}, Command: CmdDelete, Help: "delete"},
			{Keys: []string{"esc"}, Command: CmdBack, Help: "back"},
			{Keys: []string{"q", "ctrl+c"}, Command: CmdQuit, Help: "quit"},
		},
		ViewForm: {
			{Keys: []string{"tab", "down"}, Command: CmdNextField, Help: "next field"},
			{Keys: []string{"shift+tab", "up"}, Command: CmdPrevField, Help: "prev field"},
			{Keys: []string{"left", "right"}, Command: CmdCycleValue, Help: "change value"},
			{Keys: []string{"enter"}, Command: CmdSubmit, Help: "save"},
			{Keys: []string{"esc"}, Command: CmdBack, Help: "cancel"},
			{Keys: []string{"ctrl+c"}, Command: CmdQuit, Help: "quit"},
		},
		ViewComments: {
			{Keys: []string{"up", "k"}, Command: CmdUp, Help: "up"},
			{Keys: []string{"down", "j"}, Command: CmdDown, Help: "down"},
			{Keys: []string{"a"}, Command: CmdNew, Help: "add comment"},
			{Keys: []string{"esc"}, Command: CmdBack, Help: "back"},
			{Keys: []string{"q", "ctrl+c"}, Command: CmdQuit, Help: "quit"},
		},
	}
}

// Lookup resolves a key press in a view to a command.
func (m Map) Lookup(view View, key string) (Command, bool) {
	for _, b := range m[view] {
		for _, k := range b.Keys {
			if k == key {
				return b.Command, true
			}
		}
	}
	return "", false
}

// HelpLine renders a "key help" summary for a view.
func (m Map) HelpLine(view View) string {
	parts := make([]string, 0, len(m[view]))
	for _, b := range m[view] {
		parts = append(parts, b.Keys[0]+" "+b.Help)
	}
	return strings.Join(parts, "  •  ")
}
