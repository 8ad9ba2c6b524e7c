// Package logging routes structured logs either to a slog handler (CLI
// mode) or to a buffered channel the dashboard drains into its log pane
// (TUI mode). Initialize exactly once at startup.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Level defines the severity of a log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes Level satisfy fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SlogLevel maps Level onto the slog scale.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Entry is the structured record handed to the TUI log pane.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Subsystem string
	Message   string
	Err       error
}

const tuiChannelBufferSize = 2048

var (
	defaultLogger *slog.Logger
	tuiChannel    chan Entry
	tuiMode       bool
	minLevel      Level
)

// InitForTUI switches logging into channel mode and returns the channel the
// dashboard must drain. Entries below filterLevel are dropped at the source.
func InitForTUI(filterLevel Level) <-chan Entry {
	minLevel = filterLevel
	tuiMode = true
	tuiChannel = make(chan Entry, tuiChannelBufferSize)
	// Fallback handler for anything logged before the TUI is on screen.
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: filterLevel.SlogLevel(),
	}))
	return tuiChannel
}

// InitForCLI writes text logs directly to the given writer.
func InitForCLI(filterLevel Level, output io.Writer) {
	minLevel = filterLevel
	tuiMode = false
	tuiChannel = nil
	defaultLogger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: filterLevel.SlogLevel(),
	}))
	slog.SetDefault(defaultLogger)
}

// CloseTUIChannel closes the TUI channel on shutdown.
func CloseTUIChannel() {
	if tuiChannel != nil {
		close(tuiChannel)
		tuiChannel = nil
	}
}

func logInternal(level Level, subsystem string, err error, format string, args ...any) {
	if level < minLevel {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	if tuiMode {
		entry := Entry{
			Timestamp: time.Now(),
			Level:     level,
			Subsystem: subsystem,
			Message:   msg,
			Err:       err,
		}
		select {
		case tuiChannel <- entry:
		default:
			// The pane has fallen behind; dropping beats blocking a
			// background goroutine on the UI.
		}
		return
	}

	if defaultLogger == nil {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", level, subsystem, msg)
		return
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem, format string, args ...any) {
	logInternal(LevelDebug, subsystem, nil, format, args...)
}

// Info logs an informational message.
func Info(subsystem, format string, args ...any) {
	logInternal(LevelInfo, subsystem, nil, format, args...)
}

// Warn logs a warning.
func Warn(subsystem, format string, args ...any) {
	logInternal(LevelWarn, subsystem, nil, format, args...)
}

// Error logs an error with its cause.
func Error(subsystem string, err error, format string, args ...any) {
	logInternal(LevelError, subsystem, err, format, args...)
}
