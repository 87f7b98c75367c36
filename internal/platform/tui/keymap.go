package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the key bindings for a round.
type KeyMap struct {
	Option1   key.Binding
	Option2   key.Binding
	Option3   key.Binding
	SlowTimer key.Binding
	Continue  key.Binding
	Start     key.Binding
	Restart   key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Option1, k.Option2, k.Option3, k.SlowTimer, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Option1, k.Option2, k.Option3},
		{k.SlowTimer, k.Continue, k.Restart},
		{k.Start, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Option1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "first"),
		),
		Option2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "second"),
		),
		Option3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "third"),
		),
		SlowTimer: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "slow timer"),
		),
		Continue: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "watch ad for an extra life"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "start"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "play again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// optionIndex returns which answer option a key selects, or -1.
func (k KeyMap) optionIndex(msg tea.KeyMsg) int {
	for i, b := range []key.Binding{k.Option1, k.Option2, k.Option3} {
		if key.Matches(msg, b) {
			return i
		}
	}
	return -1
}
