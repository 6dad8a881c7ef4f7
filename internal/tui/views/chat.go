// Package views provides TUI view components for the Vivi application.
package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vivi-ia/vivi/internal/chat"
	"github.com/vivi-ia/vivi/internal/tui"
)

// AnswerRenderer renders answer markdown to fit a given number of columns.
type AnswerRenderer interface {
	RenderWidth(markdown string, width int) (string, error)
}

// ChatModel is the Bubble Tea model of the question/answer screen. It keeps
// only what it needs to draw; session state lives in the chat controller,
// which reaches this model through tui.Presenter messages.
type ChatModel struct {
	ctx       context.Context
	bindings  chat.Bindings
	renderer  AnswerRenderer
	keys      tui.KeyMap
	eventKeys []tui.EventKey

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	phase    chat.Phase
	markdown string
	rendered string
	errMsg   string
	acks     map[chat.Action]bool
	notice   string

	width  int
	height int
}

// NewChatModel creates the chat screen. Events are dispatched to bindings
// with ctx. When renderer is set, answers are re-rendered to the viewport
// width; otherwise the controller's rendering is shown as is.
func NewChatModel(ctx context.Context, bindings chat.Bindings, renderer AnswerRenderer, keys tui.KeyMap, width, height int) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Digite sua pergunta sobre SIAPE ou gestão pública..."
	ta.CharLimit = 5000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	// Enter is intercepted as submit before the textarea sees it.
	ta.KeyMap.InsertNewline = keys.NewLine

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.TitleStyle

	vp := viewport.New(20, 5)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	m := ChatModel{
		ctx:       ctx,
		bindings:  bindings,
		renderer:  renderer,
		keys:      keys,
		eventKeys: tui.EventKeys(keys),
		textarea:  ta,
		viewport:  vp,
		spinner:   sp,
		phase:     chat.PhaseIdle,
		acks:      make(map[chat.Action]bool),
	}
	m.resize(width, height)
	return m
}

// Init dispatches the load event, which focuses the input.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.dispatch(chat.EventLoad, ""))
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""

		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		for _, ek := range m.eventKeys {
			if key.Matches(msg, ek.Binding) {
				return m, m.dispatch(ek.Event, m.textarea.Value())
			}
		}

	case tui.PhaseMsg:
		m.phase = msg.Phase
		switch msg.Phase {
		case chat.PhaseLoading:
			return m, m.spinner.Tick
		case chat.PhaseResultShown:
			m.markdown = msg.View.Markdown
			m.rendered = msg.View.Rendered
			m.fitAnswer()
			m.viewport.GotoTop()
		case chat.PhaseErrorShown:
			m.errMsg = msg.View.Message
		}
		return m, nil

	case tui.AckMsg:
		m.acks[msg.Action] = msg.Active
		return m, nil

	case tui.NoticeMsg:
		m.notice = msg.Text
		return m, nil

	case tui.DispatchErrorMsg:
		m.notice = msg.Err.Error()
		return m, nil

	case tui.ClearInputMsg:
		m.textarea.Reset()
		return m, nil

	case tui.FocusInputMsg:
		return m, m.textarea.Focus()

	case spinner.TickMsg:
		if m.phase != chat.PhaseLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.fitAnswer()
		return m, nil
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	if m.phase == chat.PhaseResultShown {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// dispatch runs an event handler off the event loop; the controller
// reports back through the presenter.
func (m ChatModel) dispatch(ev chat.Event, input string) tea.Cmd {
	ctx, bindings := m.ctx, m.bindings
	return func() tea.Msg {
		if err := bindings.Dispatch(ctx, ev, input); err != nil {
			return tui.DispatchErrorMsg{Err: err}
		}
		return nil
	}
}

// fitAnswer re-renders the answer at the viewport width so no line is cut.
// On failure the previous rendering is kept.
func (m *ChatModel) fitAnswer() {
	if m.renderer != nil && m.markdown != "" {
		if out, err := m.renderer.RenderWidth(m.markdown, m.viewport.Width); err == nil {
			m.rendered = out
		}
	}
	m.viewport.SetContent(m.rendered)
}

func (m *ChatModel) resize(width, height int) {
	m.width = width
	m.height = height

	// Reserve space for header, input, action row, notice and footer.
	vpHeight := height - 16
	if vpHeight < 5 {
		vpHeight = 5
	}
	vpWidth := width - 8
	if vpWidth < 20 {
		vpWidth = 20
	}

	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.textarea.SetWidth(vpWidth)
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Vivi IA"))
	b.WriteString(tui.DimStyle.Render(" · Assistente em SIAPE e Gestão Pública"))
	b.WriteString("\n\n")

	b.WriteString(m.textarea.View())
	b.WriteString("\n\n")

	switch m.phase {
	case chat.PhaseLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Consultando a base de conhecimento...")
		b.WriteString("\n\n")
	case chat.PhaseResultShown:
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(m.actionRow())
		b.WriteString("\n\n")
	case chat.PhaseErrorShown:
		panel := tui.ErrorStyle.Render(m.errMsg) + "\n" +
			tui.DimStyle.Render(m.keys.Retry.Help().Key+": "+m.keys.Retry.Help().Desc)
		b.WriteString(tui.ErrorBoxStyle.Render(panel))
		b.WriteString("\n\n")
	}

	if m.notice != "" {
		b.WriteString(tui.WarningStyle.Render("! " + m.notice))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render(m.footer()))

	boxed := tui.BoxStyle.
		Width(m.width - 4).
		Render(b.String())

	contentHeight := lipgloss.Height(boxed)
	if m.height > contentHeight {
		padding := (m.height - contentHeight) / 3
		if padding > 0 {
			boxed = strings.Repeat("\n", padding) + boxed
		}
	}

	return boxed
}

func (m ChatModel) actionRow() string {
	button := func(action chat.Action, binding key.Binding) string {
		style := tui.ButtonStyle
		if m.acks[action] {
			style = tui.ButtonAckStyle
		}
		return style.Render(tui.AckLabel(action, m.acks[action])) + " " +
			tui.DimStyle.Render(binding.Help().Key)
	}
	return strings.Join([]string{
		button(chat.ActionCopy, m.keys.Copy),
		button(chat.ActionDownload, m.keys.Download),
		tui.ButtonStyle.Render("Nova consulta") + " " + tui.DimStyle.Render(m.keys.NewQuery.Help().Key),
	}, "   ")
}

func (m ChatModel) footer() string {
	bindings := []key.Binding{m.keys.Submit, m.keys.NewLine, m.keys.Clear, m.keys.Quit}
	parts := make([]string, 0, len(bindings)+1)
	for _, kb := range bindings {
		parts = append(parts, kb.Help().Key+": "+kb.Help().Desc)
	}
	if m.phase == chat.PhaseResultShown {
		parts = append(parts, "pgup/pgdown: rolar")
	}
	return strings.Join(parts, " · ")
}
