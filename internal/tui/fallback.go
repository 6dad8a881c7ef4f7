package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vivi-ia/vivi/internal/chat"
)

// ErrQuestionRequired is returned when a question is required but empty.
var ErrQuestionRequired = errors.New("question required")

// ErrAnswerFailed is returned by Ask when the error panel was shown.
var ErrAnswerFailed = errors.New("answer failed")

// Line commands understood by FallbackRunner.Run.
var fallbackCommands = map[string]chat.Event{
	":copy":     chat.EventCopy,
	":download": chat.EventDownload,
	":new":      chat.EventNewQuery,
	":clear":    chat.EventClear,
	":retry":    chat.EventRetry,
}

// FallbackRunner is the line-oriented UI used when no terminal is attached.
// Answers go to out; phases, acknowledgments and notices go to errOut.
type FallbackRunner struct {
	out      io.Writer
	errOut   io.Writer
	bindings chat.Bindings

	mu        sync.Mutex
	lastInput string
	lastError string
}

var _ chat.Presenter = (*FallbackRunner)(nil)

// NewFallbackRunner creates a runner writing to out and errOut.
// Call Bind before Run or Ask.
func NewFallbackRunner(out, errOut io.Writer) *FallbackRunner {
	return &FallbackRunner{out: out, errOut: errOut}
}

// Bind sets the event table the runner dispatches to.
func (f *FallbackRunner) Bind(b chat.Bindings) {
	f.bindings = b
}

// Ask submits a single question and reports ErrAnswerFailed when the
// backend or rendering failed.
func (f *FallbackRunner) Ask(ctx context.Context, question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrQuestionRequired
	}

	f.mu.Lock()
	f.lastInput = question
	f.lastError = ""
	f.mu.Unlock()

	if err := f.bindings.Dispatch(ctx, chat.EventSubmit, question); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastError != "" {
		return fmt.Errorf("%w: %s", ErrAnswerFailed, f.lastError)
	}
	return nil
}

// Do raises ev with the last typed question as input.
func (f *FallbackRunner) Do(ctx context.Context, ev chat.Event) error {
	f.mu.Lock()
	input := f.lastInput
	f.mu.Unlock()
	return f.bindings.Dispatch(ctx, ev, input)
}

// Run reads lines from in until EOF or ":quit". Command lines raise their
// event; any other non-blank line is submitted as a question.
func (f *FallbackRunner) Run(ctx context.Context, in io.Reader) error {
	if err := f.bindings.Dispatch(ctx, chat.EventLoad, ""); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ":quit":
			return nil
		}

		if ev, ok := fallbackCommands[line]; ok {
			if err := f.Do(ctx, ev); err != nil {
				return err
			}
			continue
		}

		f.mu.Lock()
		f.lastInput = line
		f.mu.Unlock()
		if err := f.bindings.Dispatch(ctx, chat.EventSubmit, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func (f *FallbackRunner) ShowPhase(phase chat.Phase, view chat.View) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch phase {
	case chat.PhaseLoading:
		f.lastError = ""
		fmt.Fprintln(f.errOut, "Consultando...")
	case chat.PhaseResultShown:
		fmt.Fprint(f.out, view.Rendered)
		if !strings.HasSuffix(view.Rendered, "\n") {
			fmt.Fprintln(f.out)
		}
	case chat.PhaseErrorShown:
		f.lastError = view.Message
		fmt.Fprintf(f.errOut, "Erro: %s\n", view.Message)
	}
}

func (f *FallbackRunner) ShowAck(action chat.Action) {
	fmt.Fprintln(f.errOut, SuccessStyle.Render(AckLabel(action, true)))
}

// HideAck is a no-op: printed acknowledgments cannot be withdrawn.
func (f *FallbackRunner) HideAck(chat.Action) {}

func (f *FallbackRunner) ShowNotice(message string) {
	fmt.Fprintf(f.errOut, "! %s\n", message)
}

func (f *FallbackRunner) ClearInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInput = ""
}

func (f *FallbackRunner) FocusInput() {}

// AckLabel returns the label of an action button, acknowledged or not.
func AckLabel(action chat.Action, acked bool) string {
	switch {
	case action == chat.ActionCopy && acked:
		return "✓ Copiado!"
	case action == chat.ActionCopy:
		return "Copiar"
	case action == chat.ActionDownload && acked:
		return "✓ Baixado!"
	default:
		return "Baixar"
	}
}
