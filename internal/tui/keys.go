// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	tab     key.Binding
	backtab key.Binding
	esc     key.Binding
	quit    key.Binding
	sync    key.Binding
	delete  key.Binding
	undo    key.Binding
	copy    key.Binding
	version key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next collection")),
	backtab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous collection")),
	esc:     key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "close")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	sync:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now")),
	delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	undo:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo delete")),
	copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy status")),
	version: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "about")),
}

// hotKeys renders the help line of the dashboard.
func (k keyMap) hotKeys() string {
	bindings := []key.Binding{k.sync, k.tab, k.delete, k.undo, k.copy, k.version, k.quit}
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += h.Key + ": " + h.Desc
	}
	return out
}
