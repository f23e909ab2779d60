package tui

import bkey "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       bkey.Binding
	Down     bkey.Binding
	Enter    bkey.Binding
	Tab      bkey.Binding
	PrevPage bkey.Binding
	NextPage bkey.Binding

	// Views
	GoCatalog bkey.Binding
	GoLoans   bkey.Binding
	GoUsers   bkey.Binding
	GoBooks   bkey.Binding
	GoHome    bkey.Binding
	GoProfile bkey.Binding

	// Actions
	Quit    bkey.Binding
	Escape  bkey.Binding
	Filter  bkey.Binding
	Refresh bkey.Binding
	Approve bkey.Binding
	Reject  bkey.Binding
	Return  bkey.Binding
	Request bkey.Binding
	New     bkey.Binding
	Edit    bkey.Binding
	Delete  bkey.Binding
	Role    bkey.Binding
	Logout  bkey.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: bkey.NewBinding(
			bkey.WithKeys("k", "up"),
			bkey.WithHelp("k/↑", "up"),
		),
		Down: bkey.NewBinding(
			bkey.WithKeys("j", "down"),
			bkey.WithHelp("j/↓", "down"),
		),
		Enter: bkey.NewBinding(
			bkey.WithKeys("enter"),
			bkey.WithHelp("enter", "select"),
		),
		Tab: bkey.NewBinding(
			bkey.WithKeys("tab"),
			bkey.WithHelp("tab", "next field"),
		),
		PrevPage: bkey.NewBinding(
			bkey.WithKeys("h", "left"),
			bkey.WithHelp("h/←", "prev page"),
		),
		NextPage: bkey.NewBinding(
			bkey.WithKeys("l", "right"),
			bkey.WithHelp("l/→", "next page"),
		),

		GoCatalog: bkey.NewBinding(
			bkey.WithKeys("1"),
			bkey.WithHelp("1", "catalog"),
		),
		GoLoans: bkey.NewBinding(
			bkey.WithKeys("2"),
			bkey.WithHelp("2", "loans"),
		),
		GoUsers: bkey.NewBinding(
			bkey.WithKeys("3"),
			bkey.WithHelp("3", "users"),
		),
		GoBooks: bkey.NewBinding(
			bkey.WithKeys("4"),
			bkey.WithHelp("4", "books"),
		),
		GoHome: bkey.NewBinding(
			bkey.WithKeys("0"),
			bkey.WithHelp("0", "home"),
		),
		GoProfile: bkey.NewBinding(
			bkey.WithKeys("p"),
			bkey.WithHelp("p", "profile"),
		),

		Quit: bkey.NewBinding(
			bkey.WithKeys("ctrl+c", "q"),
			bkey.WithHelp("q", "quit"),
		),
		Escape: bkey.NewBinding(
			bkey.WithKeys("esc"),
			bkey.WithHelp("esc", "back"),
		),
		Filter: bkey.NewBinding(
			bkey.WithKeys("/"),
			bkey.WithHelp("/", "search"),
		),
		Refresh: bkey.NewBinding(
			bkey.WithKeys("R"),
			bkey.WithHelp("R", "refresh"),
		),
		Approve: bkey.NewBinding(
			bkey.WithKeys("a"),
			bkey.WithHelp("a", "approve"),
		),
		Reject: bkey.NewBinding(
			bkey.WithKeys("x"),
			bkey.WithHelp("x", "reject"),
		),
		Return: bkey.NewBinding(
			bkey.WithKeys("d"),
			bkey.WithHelp("d", "return"),
		),
		Request: bkey.NewBinding(
			bkey.WithKeys("r"),
			bkey.WithHelp("r", "request"),
		),
		New: bkey.NewBinding(
			bkey.WithKeys("n"),
			bkey.WithHelp("n", "new"),
		),
		Edit: bkey.NewBinding(
			bkey.WithKeys("e"),
			bkey.WithHelp("e", "edit"),
		),
		Delete: bkey.NewBinding(
			bkey.WithKeys("D"),
			bkey.WithHelp("D", "delete"),
		),
		Role: bkey.NewBinding(
			bkey.WithKeys("t"),
			bkey.WithHelp("t", "toggle role"),
		),
		Logout: bkey.NewBinding(
			bkey.WithKeys("L"),
			bkey.WithHelp("L", "logout"),
		),
	}
}
