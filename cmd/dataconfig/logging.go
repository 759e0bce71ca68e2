package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/natefinch/lumberjack"

	"github.com/enlightendev/dataconfig/config"
)

// setupLogging installs the default logger. The returned function closes the
// log file when one is configured.
func setupLogging(cfg *config.Config) func() error {
	logger, closer := newLogger(cfg, os.Stderr)

	slog.SetDefault(logger)

	log.SetFlags(0)
	log.SetOutput(
		slog.NewLogLogger(
			slog.Default().Handler(),
			slog.LevelInfo,
		).Writer(),
	)

	return closer
}

// newLogger returns JSON output in production or when writing to a rotated
// file, and tinted text otherwise.
func newLogger(cfg *config.Config, out io.Writer) (*slog.Logger, func() error) {
	level := parseLevel(cfg.Log.Level)
	closer := func() error { return nil }

	if cfg.Log.File.Path != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.Log.File.Path,
			MaxSize:    cfg.Log.File.MaxSize,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAge:     cfg.Log.File.MaxAge,
			Compress:   true,
		}
		return slog.New(jsonHandler(file, level)), file.Close
	}

	if cfg.IsProduction() {
		return slog.New(jsonHandler(out, level)), closer
	}

	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      level,
		AddSource:  true,
		TimeFormat: "15:04:05.000",
	})), closer
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
