package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tungetti/starter/internal/constants"
)

// Logger defines the interface for logging operations.
// This interface is designed for easy mocking in tests.
type Logger interface {
	// Trace logs a trace message with optional key-value pairs.
	Trace(msg string, keyvals ...interface{})
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})
	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})
	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})
	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
	// Critical logs a critical message with optional key-value pairs.
	Critical(msg string, keyvals ...interface{})
	// Log logs a message at an explicit level.
	Log(level Severity, msg string, keyvals ...interface{})
	// WithPrefix returns a new Logger with the given prefix.
	WithPrefix(prefix string) Logger
	// WithFields returns a new Logger with the given fields added to all messages.
	WithFields(keyvals ...interface{}) Logger
	// SetLevel sets the minimum log level.
	SetLevel(level Severity)
	// GetLevel returns the current log level.
	GetLevel() Severity
}

// Format selects the console formatter.
type Format string

const (
	// FormatText is human-readable styled text.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatLogfmt writes logfmt key=value lines.
	FormatLogfmt Format = "logfmt"
)

// Options configures a console logger.
type Options struct {
	// Level is the minimum log level to output.
	Level Severity
	// Output is the destination for log messages.
	Output io.Writer
	// TimeFormat is the format string for timestamps.
	TimeFormat string
	// Prefix is an optional prefix for all log messages.
	Prefix string
	// Format selects text, json or logfmt output.
	Format Format
	// NoColor disables colorized output.
	NoColor bool
	// ReportTimestamp enables timestamp output.
	ReportTimestamp bool
}

// DefaultOptions returns sensible defaults for console logging.
func DefaultOptions() Options {
	return Options{
		Level:           FallbackLevel,
		Output:          os.Stderr,
		TimeFormat:      constants.ConsoleTimeFormat,
		Format:          FormatText,
		NoColor:         false,
		ReportTimestamp: true,
	}
}

// charmbracelet/log has no trace or critical level; trace sits below its
// debug level and critical reuses the fatal slot (Log never exits).
const (
	charmTrace    = log.DebugLevel - 4
	charmCritical = log.FatalLevel
)

// logger is the console implementation of Logger, backed by charmbracelet/log.
type logger struct {
	mu     sync.RWMutex
	impl   *log.Logger
	level  Severity
	fields []interface{}
	prefix string
	output io.Writer
}

// New creates a new console logger with the given options.
func New(opts Options) Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	l := log.NewWithOptions(opts.Output, log.Options{
		TimeFormat:      opts.TimeFormat,
		Level:           toCharmLevel(opts.Level),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
		Formatter:       toCharmFormatter(opts.Format),
	})
	l.SetStyles(consoleStyles())

	if opts.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}

	return &logger{
		impl:   l,
		level:  opts.Level,
		prefix: opts.Prefix,
		output: opts.Output,
	}
}

// consoleStyles extends the default styles with labels for the two levels
// charmbracelet/log does not know about.
func consoleStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[charmTrace] = lipgloss.NewStyle().
		SetString("TRAC").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("244"))
	styles.Levels[charmCritical] = lipgloss.NewStyle().
		SetString("CRIT").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("201"))
	return styles
}

// NewNop returns a no-op logger that discards all output.
func NewNop() Logger {
	return &nopLogger{}
}

// NewMultiLogger creates a logger that writes to multiple loggers.
// All loggers receive all log messages at their respective levels.
func NewMultiLogger(loggers ...Logger) Logger {
	return &multiLogger{loggers: loggers}
}

func (l *logger) Trace(msg string, keyvals ...interface{})    { l.Log(LevelTrace, msg, keyvals...) }
func (l *logger) Debug(msg string, keyvals ...interface{})    { l.Log(LevelDebug, msg, keyvals...) }
func (l *logger) Info(msg string, keyvals ...interface{})     { l.Log(LevelInfo, msg, keyvals...) }
func (l *logger) Warn(msg string, keyvals ...interface{})     { l.Log(LevelWarn, msg, keyvals...) }
func (l *logger) Error(msg string, keyvals ...interface{})    { l.Log(LevelError, msg, keyvals...) }
func (l *logger) Critical(msg string, keyvals ...interface{}) { l.Log(LevelCritical, msg, keyvals...) }

func (l *logger) Log(level Severity, msg string, keyvals ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !level.Enabled(l.level) {
		return
	}
	l.impl.Log(toCharmLevel(level), msg, mergeFields(l.fields, keyvals)...)
}

func (l *logger) WithPrefix(prefix string) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &logger{
		impl:   l.impl.WithPrefix(prefix),
		level:  l.level,
		fields: l.fields,
		prefix: prefix,
		output: l.output,
	}
}

func (l *logger) WithFields(keyvals ...interface{}) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &logger{
		impl:   l.impl,
		level:  l.level,
		fields: mergeFields(l.fields, keyvals),
		prefix: l.prefix,
		output: l.output,
	}
}

func (l *logger) SetLevel(level Severity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.impl.SetLevel(toCharmLevel(level))
}

func (l *logger) GetLevel() Severity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// mergeFields returns a fresh slice so derived loggers never share a
// backing array with their parent.
func mergeFields(base, extra []interface{}) []interface{} {
	merged := make([]interface{}, 0, len(base)+len(extra))
	merged = append(merged, base...)
	return append(merged, extra...)
}

// toCharmLevel converts a Severity to the charmbracelet/log level.
func toCharmLevel(s Severity) log.Level {
	switch {
	case s <= LevelTrace:
		return charmTrace
	case s <= LevelDebug:
		return log.DebugLevel
	case s <= LevelInfo:
		return log.InfoLevel
	case s <= LevelWarn:
		return log.WarnLevel
	case s <= LevelError:
		return log.ErrorLevel
	default:
		return charmCritical
	}
}

func toCharmFormatter(f Format) log.Formatter {
	switch f {
	case FormatJSON:
		return log.JSONFormatter
	case FormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// nopLogger discards all log output.
type nopLogger struct{}

func (n *nopLogger) Trace(msg string, keyvals ...interface{})              {}
func (n *nopLogger) Debug(msg string, keyvals ...interface{})              {}
func (n *nopLogger) Info(msg string, keyvals ...interface{})               {}
func (n *nopLogger) Warn(msg string, keyvals ...interface{})               {}
func (n *nopLogger) Error(msg string, keyvals ...interface{})              {}
func (n *nopLogger) Critical(msg string, keyvals ...interface{})           {}
func (n *nopLogger) Log(level Severity, msg string, keyvals ...interface{}) {}
func (n *nopLogger) WithPrefix(prefix string) Logger                       { return n }
func (n *nopLogger) WithFields(keyvals ...interface{}) Logger              { return n }
func (n *nopLogger) SetLevel(level Severity)                               {}
func (n *nopLogger) GetLevel() Severity                                    { return FallbackLevel }

// multiLogger writes to multiple loggers.
type multiLogger struct {
	loggers []Logger
}

func (m *multiLogger) Trace(msg string, keyvals ...interface{})    { m.Log(LevelTrace, msg, keyvals...) }
func (m *multiLogger) Debug(msg string, keyvals ...interface{})    { m.Log(LevelDebug, msg, keyvals...) }
func (m *multiLogger) Info(msg string, keyvals ...interface{})     { m.Log(LevelInfo, msg, keyvals...) }
func (m *multiLogger) Warn(msg string, keyvals ...interface{})     { m.Log(LevelWarn, msg, keyvals...) }
func (m *multiLogger) Error(msg string, keyvals ...interface{})    { m.Log(LevelError, msg, keyvals...) }
func (m *multiLogger) Critical(msg string, keyvals ...interface{}) { m.Log(LevelCritical, msg, keyvals...) }

func (m *multiLogger) Log(level Severity, msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Log(level, msg, keyvals...)
	}
}

func (m *multiLogger) WithPrefix(prefix string) Logger {
	newLoggers := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		newLoggers[i] = l.WithPrefix(prefix)
	}
	return &multiLogger{loggers: newLoggers}
}

func (m *multiLogger) WithFields(keyvals ...interface{}) Logger {
	newLoggers := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		newLoggers[i] = l.WithFields(keyvals...)
	}
	return &multiLogger{loggers: newLoggers}
}

func (m *multiLogger) SetLevel(level Severity) {
	for _, l := range m.loggers {
		l.SetLevel(level)
	}
}

func (m *multiLogger) GetLevel() Severity {
	if len(m.loggers) > 0 {
		return m.loggers[0].GetLevel()
	}
	return FallbackLevel
}
