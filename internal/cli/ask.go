// ask.go implements the one-shot "vivi ask" command.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vivi-ia/vivi/internal/chat"
	"github.com/vivi-ia/vivi/internal/render"
	"github.com/vivi-ia/vivi/internal/tui"
	"github.com/vivi-ia/vivi/internal/tui/app"
)

func newAskCmd() *cobra.Command {
	var (
		format     string
		copyAnswer bool
		saveAnswer bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a single question and print the answer",
		Long: `Send one question to the backend and print the formatted answer.
Exits non-zero when the backend reports an error.`,
		Example: `  vivi ask "Como consultar a margem consignável no SIAPE?"
  vivi ask --format markdown --download O que é o SIGEPE`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newFallback(cmd, format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := runner.Ask(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			if copyAnswer {
				if err := runner.Do(ctx, chat.EventCopy); err != nil {
					return err
				}
			}
			if saveAnswer {
				if err := runner.Do(ctx, chat.EventDownload); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", render.FormatTerminal, "Output format: terminal, html or markdown")
	cmd.Flags().BoolVar(&copyAnswer, "copy", false, "Copy the answer to the clipboard")
	cmd.Flags().BoolVar(&saveAnswer, "download", false, "Save the question and answer to resposta_vivi_<date>.txt")
	return cmd
}

// newFallback builds a line-oriented runner bound to a controller that
// renders answers in format.
func newFallback(cmd *cobra.Command, format string) (*tui.FallbackRunner, error) {
	renderer, err := render.New(format, cfg.Render.Style, cfg.Render.WordWrap)
	if err != nil {
		return nil, err
	}

	runner := tui.NewFallbackRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctrl := app.NewController(cfg, runner, renderer, logger)
	runner.Bind(chat.NewBindings(ctrl))
	return runner, nil
}
