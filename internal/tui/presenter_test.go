package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vivi-ia/vivi/internal/chat"
)

type captureSender struct{ msgs []tea.Msg }

func (c *captureSender) Send(msg tea.Msg) { c.msgs = append(c.msgs, msg) }

func TestPresenterForwardsMessages(t *testing.T) {
	capture := &captureSender{}
	p := NewPresenter()
	p.attach(capture)

	p.ShowPhase(chat.PhaseResultShown, chat.View{Rendered: "ok"})
	p.ShowAck(chat.ActionCopy)
	p.HideAck(chat.ActionCopy)
	p.ShowNotice(chat.MsgDownloadFailed)
	p.ClearInput()
	p.FocusInput()

	assert.Equal(t, []tea.Msg{
		PhaseMsg{Phase: chat.PhaseResultShown, View: chat.View{Rendered: "ok"}},
		AckMsg{Action: chat.ActionCopy, Active: true},
		AckMsg{Action: chat.ActionCopy, Active: false},
		NoticeMsg{Text: chat.MsgDownloadFailed},
		ClearInputMsg{},
		FocusInputMsg{},
	}, capture.msgs)
}

func TestDetachedPresenterDropsMessages(t *testing.T) {
	capture := &captureSender{}
	p := NewPresenter()
	p.ShowPhase(chat.PhaseLoading, chat.View{})

	p.attach(capture)
	p.Detach()
	p.FocusInput()

	assert.Empty(t, capture.msgs)
}

func TestEventKeysCoverUserActions(t *testing.T) {
	events := map[chat.Event]bool{}
	for _, ek := range EventKeys(DefaultKeyMap) {
		events[ek.Event] = true
	}
	for _, ev := range []chat.Event{
		chat.EventEnter, chat.EventCopy, chat.EventDownload,
		chat.EventNewQuery, chat.EventClear, chat.EventRetry,
	} {
		assert.True(t, events[ev], "missing key for %s", ev)
	}
}
