// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open    key.Binding
	Reverse key.Binding
	Play    key.Binding
	Pause   key.Binding
	Stop    key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "load")),
		Reverse: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		Play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Faster:  key.NewBinding(key.WithKeys("+", "=", "right"), key.WithHelp("+", "faster")),
		Slower:  key.NewBinding(key.WithKeys("-", "_", "left"), key.WithHelp("-", "slower")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Reverse, k.Play, k.Pause, k.Stop, k.Faster, k.Slower, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
