// Package logging provides structured logging configuration using zerolog.
//
// Loggers are carried in a context.Context; FromContext retrieves them and
// ContextWithTraceID tags every event logged with .Ctx(ctx) with the trace
// ID of the session that produced it.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output destinations.
const (
	OutputStderr  = "stderr"
	OutputFile    = "file"
	OutputDiscard = "discard"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to emit (debug, info, warn, error).
	Level string

	// Format is "json" or "console".
	Format string

	// Output is "stderr", "file" or "discard".
	Output string

	// File is the log file path when Output is "file".
	File string

	// Fallback is where logs go when File cannot be opened: "stderr" (default) or "discard".
	Fallback string

	// Caller adds file:line to each event.
	Caller bool

	// Writer overrides Output entirely when set. Used by tests.
	Writer io.Writer
}

// DefaultConfig returns info-level JSON logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatJSON,
		Output: OutputStderr,
	}
}

// LogPathResult describes the logger that NewLoggerWithPath built.
type LogPathResult struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger builds a logger writing to w in the configured format.
func NewLogger(cfg Config, w io.Writer) zerolog.Logger {
	if strings.EqualFold(cfg.Format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: cfg.Output == OutputFile}
	}

	ctx := zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		Hook(traceHook{}).
		With().
		Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// NewLoggerWithPath builds a logger for cfg, opening the log file when the
// output is "file". If the file cannot be opened the logger falls back to
// cfg.Fallback and the reason is reported in the result.
func NewLoggerWithPath(cfg Config) LogPathResult {
	if cfg.Writer != nil {
		return LogPathResult{Logger: NewLogger(cfg, cfg.Writer)}
	}

	switch cfg.Output {
	case OutputDiscard:
		return LogPathResult{Logger: zerolog.Nop()}
	case OutputFile:
		f, err := openLogFile(cfg.File)
		if err == nil {
			return LogPathResult{
				Logger:    NewLogger(cfg, f),
				UsingFile: true,
				FilePath:  cfg.File,
				file:      f,
			}
		}
		result := LogPathResult{FallbackUsed: true, FallbackReason: err.Error()}
		if cfg.Fallback == OutputDiscard {
			result.Logger = zerolog.Nop()
		} else {
			result.Logger = NewLogger(cfg, os.Stderr)
		}
		return result
	default:
		return LogPathResult{Logger: NewLogger(cfg, os.Stderr)}
	}
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("no log file configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// ComponentLogger returns a child logger tagged with the component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// PrintLogPathMessage tells the user where logs are written.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user the log file could not be used.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: could not open log file (%s); file logging disabled\n", reason)
}
