package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
	"github.com/valyala/fasttemplate"

	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
)

// Pattern placeholders understood by the file formatter.
const (
	TagTime    = "time"
	TagLevel   = "level"
	TagName    = "name"
	TagMessage = "message"
	TagFields  = "fields"
)

// PatternOptions configures a pattern logger.
type PatternOptions struct {
	// Name is rendered by the {name} placeholder.
	Name string
	// Level is the minimum log level to output.
	Level Severity
	// Pattern is the line template, e.g. "{time} [{level}] {name}: {message}{fields}".
	Pattern string
	// TimeFormat is the layout of the {time} placeholder.
	TimeFormat string
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

// patternLogger renders each entry through a fasttemplate pattern and writes
// it as one line. It never colours output, so it suits files.
type patternLogger struct {
	mu     sync.RWMutex
	out    io.Writer
	tmpl   *fasttemplate.Template
	opts   PatternOptions
	level  Severity
	fields []interface{}
	prefix string
}

// NewPatternLogger creates a logger that writes pattern-rendered lines to w.
func NewPatternLogger(w io.Writer, opts PatternOptions) (Logger, error) {
	if opts.Pattern == "" {
		opts.Pattern = constants.DefaultFilePattern
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = constants.FileTimeFormat
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	tmpl, err := fasttemplate.NewTemplate(opts.Pattern, "{", "}")
	if err != nil {
		return nil, errors.Wrapf(errors.Configuration, err, "invalid log pattern %q", opts.Pattern).
			WithOp("logging.NewPatternLogger")
	}

	return &patternLogger{
		out:   w,
		tmpl:  tmpl,
		opts:  opts,
		level: opts.Level,
	}, nil
}

func (p *patternLogger) Trace(msg string, keyvals ...interface{})    { p.Log(LevelTrace, msg, keyvals...) }
func (p *patternLogger) Debug(msg string, keyvals ...interface{})    { p.Log(LevelDebug, msg, keyvals...) }
func (p *patternLogger) Info(msg string, keyvals ...interface{})     { p.Log(LevelInfo, msg, keyvals...) }
func (p *patternLogger) Warn(msg string, keyvals ...interface{})     { p.Log(LevelWarn, msg, keyvals...) }
func (p *patternLogger) Error(msg string, keyvals ...interface{})    { p.Log(LevelError, msg, keyvals...) }
func (p *patternLogger) Critical(msg string, keyvals ...interface{}) { p.Log(LevelCritical, msg, keyvals...) }

func (p *patternLogger) Log(level Severity, msg string, keyvals ...interface{}) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !level.Enabled(p.level) {
		return
	}

	line := p.render(level, msg, mergeFields(p.fields, keyvals))
	// A failing sink has nowhere to report to.
	_, _ = io.WriteString(p.out, line)
}

func (p *patternLogger) render(level Severity, msg string, keyvals []interface{}) string {
	if p.prefix != "" {
		msg = p.prefix + ": " + msg
	}

	line := p.tmpl.ExecuteString(map[string]interface{}{
		TagTime:    p.opts.Now().Format(p.opts.TimeFormat),
		TagLevel:   fmt.Sprintf("%-8s", level.String()),
		TagName:    p.opts.Name,
		TagMessage: msg,
		TagFields:  formatFields(keyvals),
	})
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	return line
}

// formatFields renders key-value pairs as " k=v k2=v2", or "" when empty.
func formatFields(keyvals []interface{}) string {
	if len(keyvals) == 0 {
		return ""
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING")
	}
	for i := 1; i < len(keyvals); i += 2 {
		if err, ok := keyvals[i].(error); ok {
			keyvals[i] = err.Error()
		}
	}
	b, err := logfmt.MarshalKeyvals(keyvals...)
	if err != nil {
		return fmt.Sprintf(" %v", keyvals)
	}
	return " " + string(b)
}

func (p *patternLogger) WithPrefix(prefix string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return &patternLogger{
		out:    p.out,
		tmpl:   p.tmpl,
		opts:   p.opts,
		level:  p.level,
		fields: p.fields,
		prefix: prefix,
	}
}

func (p *patternLogger) WithFields(keyvals ...interface{}) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return &patternLogger{
		out:    p.out,
		tmpl:   p.tmpl,
		opts:   p.opts,
		level:  p.level,
		fields: mergeFields(p.fields, keyvals),
		prefix: p.prefix,
	}
}

func (p *patternLogger) SetLevel(level Severity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

func (p *patternLogger) GetLevel() Severity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}
