// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Search runs the query against the active index.
	Search key.Binding

	// NextIndex switches to the next index.
	NextIndex key.Binding

	// PrevIndex switches to the previous index.
	PrevIndex key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Open shows the selected document.
	Open key.Binding

	// Back returns from the document view.
	Back key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		NextIndex: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next index"),
		),
		PrevIndex: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous index"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns the bindings shown while searching.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextIndex, k.Quit}
}

// ResultsHelp returns the bindings shown when results are listed.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Search, k.Up, k.Open, k.NextIndex, k.Quit}
}

// DocumentHelp returns the bindings shown in the document view.
func (k *KeyMap) DocumentHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
