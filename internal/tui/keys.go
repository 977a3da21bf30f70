package tui

import (
	"github.com/charmbracelet/bubbles/key"

	listview "github.com/rshade/contactdeck/internal/tui/list"
)

type keyMap struct {
	nav      listview.KeyMap
	Toggle   key.Binding
	LoadMore key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap(nav listview.KeyMap) keyMap {
	return keyMap{
		nav: nav,
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "select"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "fetch next page"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x/esc", "close error"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nav.Up, k.nav.Down, k.Toggle, k.LoadMore, k.Dismiss, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nav.Up, k.nav.Down, k.nav.PageUp, k.nav.PageDown, k.nav.Home, k.nav.End},
		{k.Toggle, k.LoadMore, k.Dismiss},
		{k.Help, k.Quit},
	}
}
