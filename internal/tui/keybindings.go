package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vivi-ia/vivi/internal/chat"
)

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Submit   key.Binding
	NewLine  key.Binding
	Copy     key.Binding
	Download key.Binding
	NewQuery key.Binding
	Clear    key.Binding
	Retry    key.Binding
	Quit     key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys(KeyEnter),
		key.WithHelp("enter", "enviar"),
	),
	NewLine: key.NewBinding(
		key.WithKeys("ctrl+j", "alt+enter"),
		key.WithHelp("ctrl+j", "nova linha"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copiar"),
	),
	Download: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "baixar"),
	),
	NewQuery: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "nova consulta"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "limpar"),
	),
	Retry: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "tentar novamente"),
	),
	Quit: key.NewBinding(
		key.WithKeys(KeyCtrlC),
		key.WithHelp("ctrl+c", "sair"),
	),
}

// EventKey pairs a key binding with the chat event it raises.
type EventKey struct {
	Binding key.Binding
	Event   chat.Event
}

// EventKeys returns the key-to-event table for km, checked in order.
func EventKeys(km KeyMap) []EventKey {
	return []EventKey{
		{km.Submit, chat.EventEnter},
		{km.Copy, chat.EventCopy},
		{km.Download, chat.EventDownload},
		{km.NewQuery, chat.EventNewQuery},
		{km.Clear, chat.EventClear},
		{km.Retry, chat.EventRetry},
	}
}
