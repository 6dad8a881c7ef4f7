package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	vlog "github.com/vivi-ia/vivi/internal/log"
)

// DefaultAckDuration is how long an action acknowledgment stays visible.
const DefaultAckDuration = 2000 * time.Millisecond

// Deps are the capabilities the controller drives.
type Deps struct {
	Search    SearchClient
	Renderer  Renderer
	Clipboard Clipboard
	Saver     FileSaver
	Presenter Presenter
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for session events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides time.Now, used for download names and footers.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAckDuration overrides DefaultAckDuration.
func WithAckDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.ackDuration = d
		}
	}
}

// Controller is the single authority for phase transitions and the request
// lifecycle. Its methods are safe to call from multiple goroutines; only
// the response of the latest submission is ever shown.
type Controller struct {
	deps        Deps
	logger      *zap.Logger
	now         func() time.Time
	ackDuration time.Duration

	mu         sync.Mutex
	session    Session
	generation uint64
	ackSeq     map[Action]uint64
	ackTimers  map[Action]*time.Timer
}

// New creates a Controller in PhaseIdle.
func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		deps:        deps,
		logger:      zap.NewNop(),
		now:         time.Now,
		ackDuration: DefaultAckDuration,
		ackSeq:      make(map[Action]uint64),
		ackTimers:   make(map[Action]*time.Timer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the session.
func (c *Controller) State() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Start performs the initial-load work: focus the entry field.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Debug("input focused", vlog.Event(vlog.EventInputFocused))
	c.deps.Presenter.FocusInput()
}

// Submit sends text to the backend and shows the outcome. Whitespace-only
// text is ignored. The search call is made without holding the state lock;
// if another Submit or a Reset happens meanwhile, this response is dropped.
func (c *Controller) Submit(ctx context.Context, text string) {
	question := strings.TrimSpace(text)
	if question == "" {
		return
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.setPhase(PhaseLoading, View{})
	c.mu.Unlock()

	c.logger.Info("question submitted",
		vlog.Event(vlog.EventQuestionSubmitted),
		zap.Uint64("generation", gen),
		zap.Int("length", len(question)))

	resp, err := c.search(ctx, question)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Info("stale response discarded",
			vlog.Event(vlog.EventStaleResponse),
			zap.Uint64("generation", gen),
			zap.Uint64("current", c.generation))
		return
	}

	c.setPhase(PhaseIdle, View{})
	if err != nil {
		c.logger.Error("search call failed", vlog.Event(vlog.EventSearchFailed), zap.Error(err))
		c.setPhase(PhaseErrorShown, View{Message: MsgSystemError})
		return
	}
	c.handleResponse(question, resp)
}

// search calls the SearchClient, turning a panic into an error.
func (c *Controller) search(ctx context.Context, question string) (resp SearchResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search panicked: %v", r)
		}
	}()
	return c.deps.Search.Search(ctx, question), nil
}

// handleResponse applies a completed search. Caller holds c.mu.
func (c *Controller) handleResponse(question string, resp SearchResponse) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("response handling panicked",
				vlog.Event(vlog.EventRenderFailed),
				zap.Any("panic", r))
			c.setPhase(PhaseErrorShown, View{Message: MsgInternalError})
		}
	}()

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = MsgUnknownError
		}
		c.logger.Warn("backend reported failure",
			vlog.Event(vlog.EventSearchFailed),
			zap.String("error", msg))
		c.setPhase(PhaseErrorShown, View{Message: msg})
		return
	}

	c.session.CurrentQuestion = question
	c.session.LastAnswer = resp.Answer

	rendered, err := c.deps.Renderer.Render(resp.Answer)
	if err != nil {
		c.logger.Error("render answer", vlog.Event(vlog.EventRenderFailed), zap.Error(err))
		c.setPhase(PhaseErrorShown, View{Message: MsgInternalError})
		return
	}

	c.logger.Info("answer received",
		vlog.Event(vlog.EventAnswerReceived),
		zap.Int("length", len(resp.Answer)))
	c.setPhase(PhaseResultShown, View{Rendered: rendered, Markdown: resp.Answer})
}

// Reset clears the input and the session, returns to PhaseIdle and focuses
// the input. Any in-flight response is discarded when it arrives.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.session.CurrentQuestion = ""
	c.session.LastAnswer = ""
	c.deps.Presenter.ClearInput()
	c.setPhase(PhaseIdle, View{})
	c.deps.Presenter.FocusInput()
	c.logger.Info("chat reset", vlog.Event(vlog.EventChatReset))
}

// Copy writes the raw markdown of the last answer to the clipboard.
func (c *Controller) Copy(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	answer := c.session.LastAnswer
	if answer == "" {
		return
	}

	if err := c.deps.Clipboard.WriteAll(answer); err != nil {
		c.logger.Warn("copy to clipboard", vlog.Event(vlog.EventActionFailed), zap.Error(err))
		c.deps.Presenter.ShowNotice(MsgCopyFailed)
		return
	}

	c.logger.Info("answer copied", vlog.Event(vlog.EventAnswerCopied))
	c.armAck(ActionCopy)
}

// Download saves the last question and answer as a dated text file.
func (c *Controller) Download(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	question, answer := c.session.CurrentQuestion, c.session.LastAnswer
	if answer == "" || question == "" {
		return
	}

	now := c.now()
	path, err := c.deps.Saver.Save(TranscriptFileName(now), []byte(FormatTranscript(question, answer, now)))
	if err != nil {
		c.logger.Warn("save download", vlog.Event(vlog.EventActionFailed), zap.Error(err))
		c.deps.Presenter.ShowNotice(MsgDownloadFailed)
		return
	}

	c.logger.Info("answer downloaded", vlog.Event(vlog.EventAnswerDownloaded), zap.String("path", path))
	c.armAck(ActionDownload)
}

// armAck shows the acknowledgment for action and schedules its removal.
// Re-arming before expiry restarts the countdown. Caller holds c.mu.
func (c *Controller) armAck(action Action) {
	if t := c.ackTimers[action]; t != nil {
		t.Stop()
	}
	c.ackSeq[action]++
	seq := c.ackSeq[action]

	c.deps.Presenter.ShowAck(action)
	c.ackTimers[action] = time.AfterFunc(c.ackDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.ackSeq[action] != seq {
			return
		}
		delete(c.ackTimers, action)
		c.deps.Presenter.HideAck(action)
	})
}

// setPhase records and presents a phase. Caller holds c.mu.
func (c *Controller) setPhase(phase Phase, view View) {
	c.session.Phase = phase
	c.deps.Presenter.ShowPhase(phase, view)
}
