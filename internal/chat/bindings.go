package chat

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnboundEvent is returned by Dispatch for an event with no handler.
var ErrUnboundEvent = errors.New("unbound event")

// Event is a user interaction a UI can report.
type Event string

const (
	EventLoad     Event = "load"
	EventSubmit   Event = "submit"
	EventEnter    Event = "enter"
	EventRetry    Event = "retry"
	EventCopy     Event = "copy"
	EventDownload Event = "download"
	EventNewQuery Event = "new_query"
	EventClear    Event = "clear"
)

// Handler reacts to an event. input is the entry field's current text.
type Handler func(ctx context.Context, input string)

// Bindings maps events to controller handlers.
type Bindings map[Event]Handler

// NewBindings builds the event table for c. New query and clear share the
// same reset; submit, enter and retry all go through Submit with the input
// text.
func NewBindings(c *Controller) Bindings {
	submit := func(ctx context.Context, input string) { c.Submit(ctx, input) }
	reset := func(context.Context, string) { c.Reset() }

	return Bindings{
		EventLoad:     func(context.Context, string) { c.Start() },
		EventSubmit:   submit,
		EventEnter:    submit,
		EventRetry:    submit,
		EventCopy:     func(ctx context.Context, _ string) { c.Copy(ctx) },
		EventDownload: func(ctx context.Context, _ string) { c.Download(ctx) },
		EventNewQuery: reset,
		EventClear:    reset,
	}
}

// Dispatch runs the handler bound to ev.
func (b Bindings) Dispatch(ctx context.Context, ev Event, input string) error {
	h, ok := b[ev]
	if !ok || h == nil {
		return fmt.Errorf("%q: %w", ev, ErrUnboundEvent)
	}
	h(ctx, input)
	return nil
}
