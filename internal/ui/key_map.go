package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of every view. enter doubles as "open setlist" and "build".
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	build   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show songs")),
		build:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "build playlist")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "setlists")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "build")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "pick another setlist")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) setlistHelp() []key.Binding { return []key.Binding{k.up, k.down, k.enter, k.quit} }
func (k keyMap) songHelp() []key.Binding    { return []key.Binding{k.build, k.back, k.quit} }
func (k keyMap) confirmHelp() []key.Binding { return []key.Binding{k.yes, k.no} }
func (k keyMap) resultHelp() []key.Binding  { return []key.Binding{k.restart, k.quit} }
