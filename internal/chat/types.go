// Package chat owns the question/answer cycle of the Vivi chat: session
// state, UI phase transitions and the actions offered on an answer.
// Concrete UIs drive it through Bindings and receive updates through a
// Presenter.
package chat

import "context"

// Phase is the mutually exclusive UI state driving panel visibility.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseResultShown
	PhaseErrorShown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseResultShown:
		return "result"
	case PhaseErrorShown:
		return "error"
	default:
		return "unknown"
	}
}

// Action identifies an answer action that gets a transient acknowledgment.
type Action int

const (
	ActionCopy Action = iota
	ActionDownload
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionDownload:
		return "download"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgConnectionError = "Erro de conexão"
	MsgUnknownError    = "Erro desconhecido"
	MsgInternalError   = "Erro interno ao processar resposta"
	MsgSystemError     = "Erro interno do sistema"
	MsgCopyFailed      = "Erro ao copiar para a área de transferência"
	MsgDownloadFailed  = "Erro ao fazer download do arquivo"
)

// SearchResponse is the backend's answer to a question. Answer is
// meaningful only when Success is set, Error only when it is not.
type SearchResponse struct {
	Success bool
	Answer  string
	Error   string
}

// Session is a snapshot of the controller's state.
type Session struct {
	CurrentQuestion string
	LastAnswer      string
	Phase           Phase
}

// View carries what a presenter needs to draw a phase.
type View struct {
	Rendered string // ResultShown: renderer output
	Markdown string // ResultShown: the answer as received, for UIs that re-render
	Message  string // ErrorShown: message for the error panel
}

// SearchClient sends a question to the backend. Implementations never
// fail: transport problems come back as an unsuccessful SearchResponse.
type SearchClient interface {
	Search(ctx context.Context, question string) SearchResponse
}

// Renderer turns markdown into display text.
type Renderer interface {
	Render(markdown string) (string, error)
}

// Clipboard receives copied answers.
type Clipboard interface {
	WriteAll(text string) error
}

// FileSaver stores a downloaded file and reports where it went.
type FileSaver interface {
	Save(name string, data []byte) (string, error)
}

// Presenter is implemented by a concrete UI.
type Presenter interface {
	ShowPhase(phase Phase, view View)
	ShowAck(action Action)
	HideAck(action Action)
	ShowNotice(message string)
	ClearInput()
	FocusInput()
}
