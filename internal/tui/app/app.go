// Package app wires configuration, adapters and the chat controller into
// the terminal front ends.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vivi-ia/vivi/internal/chat"
	"github.com/vivi-ia/vivi/internal/config"
	"github.com/vivi-ia/vivi/internal/desktop"
	"github.com/vivi-ia/vivi/internal/render"
	"github.com/vivi-ia/vivi/internal/search"
	"github.com/vivi-ia/vivi/internal/tui"
	"github.com/vivi-ia/vivi/internal/tui/views"
)

// NewController builds a controller talking to the configured backend,
// the system clipboard and the download directory.
func NewController(cfg *config.Config, presenter chat.Presenter, renderer chat.Renderer, logger *zap.Logger) *chat.Controller {
	return chat.New(chat.Deps{
		Search:    search.New(cfg.Backend, search.WithLogger(logger)),
		Renderer:  renderer,
		Clipboard: desktop.Clipboard{},
		Saver:     desktop.Saver{Dir: cfg.Download.Dir},
		Presenter: presenter,
	},
		chat.WithLogger(logger),
		chat.WithAckDuration(time.Duration(cfg.UI.AckMillis)*time.Millisecond),
	)
}

// App is the interactive chat application.
type App struct {
	presenter *tui.Presenter
	renderer  *render.Terminal
	bindings  chat.Bindings
}

// New creates the interactive application. Answers are rendered with
// glamour using the configured style and re-wrapped to the window.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	renderer, err := render.NewTerminal(cfg.Render.Style, cfg.Render.WordWrap)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	presenter := tui.NewPresenter()
	ctrl := NewController(cfg, presenter, renderer, logger)

	return &App{
		presenter: presenter,
		renderer:  renderer,
		bindings:  chat.NewBindings(ctrl),
	}, nil
}

// Run shows the chat screen until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	model := views.NewChatModel(ctx, a.bindings, a.renderer, tui.DefaultKeyMap, 80, 24)
	return tui.Run(ctx, model, a.presenter)
}
