package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Focus      key.Binding
	Blur       key.Binding
	Submit     key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	ShowAll    key.Binding
	ShowActive key.Binding
	ShowDone   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch input/list")),
		Blur:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave input")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add todo")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle")),
		ShowAll:    key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1/a", "show all")),
		ShowActive: key.NewBinding(key.WithKeys("2", "v"), key.WithHelp("2/v", "show active")),
		ShowDone:   key.NewBinding(key.WithKeys("3", "c"), key.WithHelp("3/c", "show completed")),
	}
}

// helpBindings lists the bindings shown on the help screen, in order.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Submit, k.Focus, k.Blur, k.Up, k.Down, k.Toggle,
		k.ShowAll, k.ShowActive, k.ShowDone, k.Help, k.Quit,
	}
}
