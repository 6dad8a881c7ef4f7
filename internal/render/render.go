// Package render turns answer markdown into display text: ANSI for the
// terminal, sanitized HTML, or the markdown itself.
package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Output formats accepted by New.
const (
	FormatTerminal = "terminal"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Renderer is satisfied by every renderer in this package.
type Renderer interface {
	Render(markdown string) (string, error)
}

// New returns the renderer for format. style and wrap only apply to the
// terminal renderer.
func New(format, style string, wrap int) (Renderer, error) {
	switch format {
	case FormatTerminal, "":
		t, err := NewTerminal(style, wrap)
		if err != nil {
			return nil, err
		}
		return t, nil
	case FormatHTML:
		return NewHTML(), nil
	case FormatMarkdown:
		return Markdown{}, nil
	default:
		return nil, fmt.Errorf("unknown render format %q", format)
	}
}

// Terminal renders markdown with glamour. Renderers for other widths are
// built on demand and cached. Renders are serialized because a glamour
// renderer keeps per-document state.
type Terminal struct {
	style string
	wrap  int
	tr    *glamour.TermRenderer

	mu      sync.Mutex
	byWidth map[int]*glamour.TermRenderer
}

// NewTerminal creates a glamour renderer. style "auto" (or empty) picks a
// style from the terminal background; wrap <= 0 disables wrapping.
func NewTerminal(style string, wrap int) (*Terminal, error) {
	tr, err := newTermRenderer(style, wrap)
	if err != nil {
		return nil, err
	}
	return &Terminal{
		style:   style,
		wrap:    wrap,
		tr:      tr,
		byWidth: map[int]*glamour.TermRenderer{},
	}, nil
}

func newTermRenderer(style string, wrap int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}
	return tr, nil
}

// Render converts markdown to ANSI text wrapped at the configured width.
func (t *Terminal) Render(markdown string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return renderSafely(t.tr, markdown)
}

// RenderWidth converts markdown to ANSI text no wider than width columns.
// The configured wrap still applies when it is narrower.
func (t *Terminal) RenderWidth(markdown string, width int) (string, error) {
	if width <= 0 || (t.wrap > 0 && t.wrap <= width) {
		return t.Render(markdown)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.byWidth[width]
	if !ok {
		var err error
		tr, err = newTermRenderer(t.style, width)
		if err != nil {
			return "", err
		}
		t.byWidth[width] = tr
	}
	return renderSafely(tr, markdown)
}

// renderSafely returns a panic inside glamour as an error.
func renderSafely(tr *glamour.TermRenderer, markdown string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("glamour panicked: %v", r)
		}
	}()

	out, err = tr.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// HTML renders markdown to sanitized HTML. Raw HTML in the source is
// allowed through goldmark and then filtered by bluemonday; bare URLs are
// linked and single newlines become <br>.
type HTML struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTML creates an HTML renderer.
func NewHTML() *HTML {
	return &HTML{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML.
func (h *HTML) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return string(h.policy.SanitizeBytes(buf.Bytes())), nil
}

// Markdown returns the input unchanged.
type Markdown struct{}

// Render returns markdown as is.
func (Markdown) Render(markdown string) (string, error) {
	return markdown, nil
}
