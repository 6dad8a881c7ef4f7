// Package cli defines Cobra command definitions for the vivi CLI.
// This file contains the root command, persistent flags and shared setup.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vivi-ia/vivi/internal/config"
	vlog "github.com/vivi-ia/vivi/internal/log"
	"github.com/vivi-ia/vivi/internal/tui"
	"github.com/vivi-ia/vivi/internal/tui/app"
)

var (
	configRoot string
	debug      bool
	version    = "dev" // set via ldflags at build time
)

// Populated by PersistentPreRunE for every subcommand.
var (
	projectRoot string
	cfg         *config.Config
	logger      = zap.NewNop()
	settings    = config.NewViper()
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vivi",
		Short: "Terminal chat for the Vivi IA knowledge base",
		Long: `Vivi IA answers questions about SIAPE and public administration.
Ask a question, read the formatted answer, and copy it to the clipboard
or save it as a text file.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
		RunE: runChat,
	}

	cmd.PersistentFlags().StringVar(&configRoot, "config", "", "Directory holding .vivi/config.yaml (default: current directory)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug entries to the log file")
	cmd.PersistentFlags().String("base-url", "", "Backend base URL (overrides config and VIVI_BACKEND_BASE_URL)")
	_ = settings.BindPFlag("backend.base_url", cmd.PersistentFlags().Lookup("base-url"))

	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newInitCmd())
	return cmd
}

// Execute runs the root command. Called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads .env, the config file and VIVI_* overrides, then opens the
// log file.
func setup(cmd *cobra.Command, _ []string) error {
	root := configRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		root = wd
	}
	projectRoot = root

	// A missing .env is normal; anything else is worth reporting.
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load .env: %v\n", err)
	}

	loaded, err := config.Load(root, settings)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if debug {
		loaded.Log.Debug = true
	}
	cfg = loaded

	l, err := vlog.New(root, cfg.Log)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
		l = zap.NewNop()
	}
	logger = l.With(zap.String("command", cmd.Name()))
	logger.Info("session started",
		vlog.Event(vlog.EventSessionStarted),
		zap.String("version", version),
		zap.String("backend", cfg.Backend.BaseURL),
	)
	return nil
}

// runChat opens the full-screen chat on a terminal and falls back to a
// line-oriented loop over stdin otherwise.
func runChat(cmd *cobra.Command, _ []string) error {
	if tui.IsTTY() {
		a, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		return a.Run(cmd.Context())
	}

	runner, err := newFallback(cmd, "")
	if err != nil {
		return err
	}
	return runner.Run(cmd.Context(), cmd.InOrStdin())
}
