package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings.
type keyMap struct {
	Quit    key.Binding
	Sort    key.Binding
	Reverse key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reverse"),
		),
	}
}

// ShortHelp returns bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Reverse, k.Quit}
}
