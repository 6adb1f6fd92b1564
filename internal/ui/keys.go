package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Search  key.Binding
	Submit  key.Binding
	Escape  key.Binding
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	NextCat key.Binding
	PrevCat key.Binding
	Refresh key.Binding
	Reset   key.Binding
	Debug   key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Search:  key.NewBinding(key.WithKeys("/")),
	Submit:  key.NewBinding(key.WithKeys("enter")),
	Escape:  key.NewBinding(key.WithKeys("esc")),
	Up:      key.NewBinding(key.WithKeys("k", "up")),
	Down:    key.NewBinding(key.WithKeys("j", "down")),
	Top:     key.NewBinding(key.WithKeys("g", "home")),
	Bottom:  key.NewBinding(key.WithKeys("G", "end")),
	NextCat: key.NewBinding(key.WithKeys("tab", "]")),
	PrevCat: key.NewBinding(key.WithKeys("shift+tab", "[")),
	Refresh: key.NewBinding(key.WithKeys("r")),
	Reset:   key.NewBinding(key.WithKeys("x")),
	Debug:   key.NewBinding(key.WithKeys("D")),
}
