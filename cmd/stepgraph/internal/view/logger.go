package view

import (
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/lmittmann/tint"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.Level(100)
	}
}

// ParseLogLevel maps a STEPGRAPH_LOG value to a level. Unknown values are
// silent.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelSilent
	}
}

func rewriteLogLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) != 0 {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	var text string
	switch {
	case level < slog.LevelInfo:
		text = "DEBUG"
	case level < slog.LevelWarn:
		text = color.GreenString("INFO")
	case level < slog.LevelError:
		text = color.YellowString("WARN")
	default:
		text = color.RedString("ERROR")
	}
	a.Value = slog.StringValue(text)
	return a
}

// NewLogger returns a logr.Logger backed by a tint slog handler writing to w.
// logr verbosity V(n) maps to slog level -n, so V(1) events need debug.
func NewLogger(w io.Writer, level LogLevel) logr.Logger {
	if level == LogLevelSilent {
		return logr.Discard()
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:       level.toSlogLevel(),
		TimeFormat:  time.DateTime,
		ReplaceAttr: rewriteLogLevel,
		NoColor:     color.NoColor,
	})
	return logr.FromSlogHandler(handler)
}
