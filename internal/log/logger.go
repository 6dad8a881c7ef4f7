// Package log provides structured event logging.
// Events are written as JSON lines to a rotating file; the terminal is left
// to the UI.
package log

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vivi-ia/vivi/internal/config"
)

// Event name constants, logged under the "event" field.
const (
	EventSessionStarted    = "session_started"
	EventInputFocused      = "input_focused"
	EventQuestionSubmitted = "question_submitted"
	EventAnswerReceived    = "answer_received"
	EventSearchFailed      = "search_failed"
	EventStaleResponse     = "stale_response_discarded"
	EventRenderFailed      = "render_failed"
	EventAnswerCopied      = "answer_copied"
	EventAnswerDownloaded  = "answer_downloaded"
	EventActionFailed      = "action_failed"
	EventChatReset         = "chat_reset"
	EventHealthChecked     = "health_checked"
)

// Event returns the zap field tagging a log line with an event name.
func Event(name string) zap.Field {
	return zap.String("event", name)
}

// New builds a file-only JSON logger rotated by lumberjack.
// Relative paths in cfg.File are resolved against dir. The parent directory
// is created if it does not already exist; an existing log is appended to.
func New(dir string, cfg config.LogConfig) (*zap.Logger, error) {
	path := cfg.File
	if path == "" {
		return zap.NewNop(), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"

	level := zap.InfoLevel
	if cfg.Debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		level,
	)

	return zap.New(core, zap.AddCaller()), nil
}
