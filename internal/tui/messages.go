package tui

import "github.com/vivi-ia/vivi/internal/chat"

// PhaseMsg switches the visible panel.
type PhaseMsg struct {
	Phase chat.Phase
	View  chat.View
}

// AckMsg turns an action's acknowledgment label on or off.
type AckMsg struct {
	Action chat.Action
	Active bool
}

// NoticeMsg shows a notice that stays until the next key press.
type NoticeMsg struct {
	Text string
}

// ClearInputMsg empties the entry field.
type ClearInputMsg struct{}

// FocusInputMsg focuses the entry field.
type FocusInputMsg struct{}

// DispatchErrorMsg reports an event the bindings could not handle.
type DispatchErrorMsg struct {
	Err error
}
