package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Scan      key.Binding
	LoadLast  key.Binding
	BulkTrash key.Binding
	Trash     key.Binding
	Keep      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
	Scan:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
	LoadLast:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load last")),
	BulkTrash: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trash suggested")),
	Trash:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "trash email")),
	Keep:      key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "keep email")),
	Confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Cancel:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
