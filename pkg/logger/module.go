package logger

import (
	"log/slog"
	"os"

	"github.com/alex-galey/coach-mcp/pkg/config"
	"go.uber.org/fx"
)

// NewRingBufferFromConfig sizes the in-memory log buffer. Recent lines are
// exposed as an MCP resource for diagnosis over the same transport.
func NewRingBufferFromConfig(cfg *config.ServerConfig) *RingBuffer {
	return NewRingBuffer(cfg.LogBuffer)
}

func NewSlogLogger(cfg *config.ServerConfig, buffer *RingBuffer) *slog.Logger {
	var handler slog.Handler

	// Configure log level
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler based on format preference
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(newBufferingHandler(handler, buffer, opts))
}

var Module = fx.Module("logger",
	fx.Provide(
		NewRingBufferFromConfig,
		NewSlogLogger,
	),
)
