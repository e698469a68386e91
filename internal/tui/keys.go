package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type keyMap struct {
	ToggleFiles key.Binding
	Theme       key.Binding
	Quit        key.Binding
	Help        key.Binding

	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Collapse key.Binding
	Hidden   key.Binding
	Reload   key.Binding

	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Left         key.Binding
	Right        key.Binding
	Top          key.Binding
	Bottom       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleFiles: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle files")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),

		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Open:     key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter/l", "open")),
		Collapse: key.NewBinding(key.WithKeys("h", "backspace"), key.WithHelp("h", "collapse")),
		Hidden:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden files")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

		PageUp:       key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("^u", "½ page up")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^d", "½ page down")),
		Left:         key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "scroll left")),
		Right:        key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll right")),
		Top:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	}
}

// contentKeys maps scrolling bindings onto the viewport. Up and Down are only
// live while the tree is hidden.
func (k keyMap) contentKeys(treeVisible bool) viewport.KeyMap {
	km := viewport.KeyMap{
		PageDown:     k.PageDown,
		PageUp:       k.PageUp,
		HalfPageUp:   k.HalfPageUp,
		HalfPageDown: k.HalfPageDown,
		Left:         k.Left,
		Right:        k.Right,
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
	if !treeVisible {
		km.Up = k.Up
		km.Down = k.Down
	}
	return km
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.ToggleFiles, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Collapse},
		{k.PageUp, k.PageDown, k.HalfPageUp, k.HalfPageDown},
		{k.Left, k.Right, k.Top, k.Bottom},
		{k.ToggleFiles, k.Theme, k.Hidden, k.Reload},
		{k.Help, k.Quit},
	}
}
