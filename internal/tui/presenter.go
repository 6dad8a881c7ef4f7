package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vivi-ia/vivi/internal/chat"
)

// sender is the part of *tea.Program the presenter uses.
type sender interface {
	Send(msg tea.Msg)
}

// Presenter implements chat.Presenter by forwarding each call to a running
// Bubble Tea program as a message. Calls made while detached are dropped.
// It must not be called from inside a model's Update: Send blocks until the
// event loop receives the message.
type Presenter struct {
	mu   sync.RWMutex
	prog sender
}

var _ chat.Presenter = (*Presenter)(nil)

// NewPresenter returns a detached presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Attach starts forwarding to prog.
func (p *Presenter) Attach(prog *tea.Program) {
	p.attach(prog)
}

func (p *Presenter) attach(s sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prog = s
}

// Detach stops forwarding.
func (p *Presenter) Detach() {
	p.attach(nil)
}

func (p *Presenter) send(msg tea.Msg) {
	p.mu.RLock()
	prog := p.prog
	p.mu.RUnlock()
	if prog != nil {
		prog.Send(msg)
	}
}

func (p *Presenter) ShowPhase(phase chat.Phase, view chat.View) {
	p.send(PhaseMsg{Phase: phase, View: view})
}

func (p *Presenter) ShowAck(action chat.Action) {
	p.send(AckMsg{Action: action, Active: true})
}

func (p *Presenter) HideAck(action chat.Action) {
	p.send(AckMsg{Action: action, Active: false})
}

func (p *Presenter) ShowNotice(message string) {
	p.send(NoticeMsg{Text: message})
}

func (p *Presenter) ClearInput() {
	p.send(ClearInputMsg{})
}

func (p *Presenter) FocusInput() {
	p.send(FocusInputMsg{})
}
