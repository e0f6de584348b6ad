package logging

import (
	"io"
	"sort"
	"sync"

	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
)

// DuplicatePolicy decides what Configure does with a name that is already
// configured.
type DuplicatePolicy int

const (
	// DuplicateFail rejects a second configuration with a DuplicateLoggerName error.
	DuplicateFail DuplicatePolicy = iota
	// DuplicateReuse returns the handle from the first configuration.
	DuplicateReuse
)

// HandleOptions configures one named logger.
type HandleOptions struct {
	// Name identifies the logger; it may be configured once per registry.
	Name string
	// ConsoleLevel is the console threshold. LevelNotSet resolves it from
	// the registry's stored default.
	ConsoleLevel Severity
	// FileLevel is the file threshold. LevelNotSet resolves it like ConsoleLevel.
	FileLevel Severity
	// ConsoleFormat selects text, json or logfmt console output.
	ConsoleFormat Format
	// FilePattern is the fasttemplate line pattern of the file sink.
	FilePattern string
	// FilePath is the active log file.
	FilePath string
	// MaxBytes is the size that triggers rollover; <= 0 disables it.
	MaxBytes int64
	// Backups is the number of rolled-over files kept.
	Backups int
	// Propagate also forwards entries to the "root" logger when it exists.
	Propagate bool
	// Console is the console destination; nil means os.Stderr.
	Console io.Writer
	// NoColor disables console colours.
	NoColor bool
}

// Registry tracks configured logger names. It replaces process-wide state:
// create one per application and pass it where loggers are configured.
type Registry struct {
	mu       sync.Mutex
	defaults LevelSource
	policy   DuplicatePolicy
	names    map[string]struct{}
	handles  map[string]*Handle
}

// NewRegistry creates a registry. defaults supplies levels for options that
// leave them unset; it may be nil, in which case FallbackLevel applies.
func NewRegistry(defaults LevelSource, policy DuplicatePolicy) *Registry {
	return &Registry{
		defaults: defaults,
		policy:   policy,
		names:    make(map[string]struct{}),
		handles:  make(map[string]*Handle),
	}
}

// RegisterUnique records name as configured. It fails with a
// DuplicateLoggerName error if the name is already taken.
func (r *Registry) RegisterUnique(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(name)
}

func (r *Registry) registerLocked(name string) error {
	if _, ok := r.names[name]; ok {
		return errors.Newf(errors.DuplicateLoggerName,
			"Logger '%s' has already been instantiated and configured before. "+
				"Logger instances must have unique names. "+
				"Access the existing logger via Lookup(%q).", name, name).
			WithOp("logging.RegisterUnique")
	}
	r.names[name] = struct{}{}
	return nil
}

func (r *Registry) release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.names, name)
	delete(r.handles, name)
}

// Configure registers opts.Name and builds its console and file sinks.
// Under DuplicateFail a second call with the same name fails and leaves the
// first handle untouched; under DuplicateReuse it returns the first handle.
// If building a sink fails, the name is released again.
func (r *Registry) Configure(opts HandleOptions) (*Handle, error) {
	if opts.Name == "" {
		opts.Name = constants.RootLoggerName
	}
	if opts.FilePath == "" {
		return nil, errors.New(errors.Configuration, "log file path is required").
			WithOp("logging.Configure")
	}

	r.mu.Lock()
	if existing, ok := r.handles[opts.Name]; ok && r.policy == DuplicateReuse {
		r.mu.Unlock()
		return existing, nil
	}
	if err := r.registerLocked(opts.Name); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.mu.Unlock()

	h, err := r.build(opts)
	if err != nil {
		r.release(opts.Name)
		return nil, err
	}

	r.mu.Lock()
	r.handles[opts.Name] = h
	r.mu.Unlock()
	return h, nil
}

func (r *Registry) build(opts HandleOptions) (*Handle, error) {
	resolve := r.resolver()
	consoleLevel, err := resolve(opts.ConsoleLevel)
	if err != nil {
		return nil, err
	}
	fileLevel, err := resolve(opts.FileLevel)
	if err != nil {
		return nil, err
	}

	consoleOpts := DefaultOptions()
	consoleOpts.Level = consoleLevel
	consoleOpts.Prefix = opts.Name
	consoleOpts.NoColor = opts.NoColor
	if opts.Console != nil {
		consoleOpts.Output = opts.Console
	}
	if opts.ConsoleFormat != "" {
		consoleOpts.Format = opts.ConsoleFormat
	}

	sink, err := OpenRotatingFile(opts.FilePath, opts.MaxBytes, opts.Backups)
	if err != nil {
		return nil, err
	}
	file, err := NewPatternLogger(sink, PatternOptions{
		Name:    opts.Name,
		Level:   fileLevel,
		Pattern: opts.FilePattern,
	})
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	return &Handle{
		name:      opts.Name,
		console:   New(consoleOpts),
		file:      file,
		fileSink:  sink,
		propagate: opts.Propagate,
		registry:  r,
	}, nil
}

// resolver reads the stored default at most once per Configure call.
func (r *Registry) resolver() func(Severity) (Severity, error) {
	var (
		stored Severity
		err    error
		done   bool
	)
	return func(flag Severity) (Severity, error) {
		if flag != LevelNotSet {
			return flag, nil
		}
		if !done {
			stored, err = ResolveLevel(LevelNotSet, r.defaults)
			done = true
		}
		return stored, err
	}
}

// Lookup returns the handle configured under name.
func (r *Registry) Lookup(name string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[name]
	return h, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset closes every handle and forgets all names.
func (r *Registry) Reset() error {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[string]*Handle)
	r.names = make(map[string]struct{})
	r.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close releases all file sinks. It is Reset under a shutdown-friendly name.
func (r *Registry) Close() error {
	return r.Reset()
}

// Handle is a configured named logger. It owns one console sink and one
// rotating file sink, each with its own threshold.
type Handle struct {
	name      string
	console   Logger
	file      Logger
	fileSink  *RotatingFile
	propagate bool
	registry  *Registry
}

// Name returns the logger name.
func (h *Handle) Name() string { return h.name }

// Propagates reports whether entries are forwarded to the root logger.
func (h *Handle) Propagates() bool { return h.propagate }

func (h *Handle) Trace(msg string, keyvals ...interface{})    { h.Log(LevelTrace, msg, keyvals...) }
func (h *Handle) Debug(msg string, keyvals ...interface{})    { h.Log(LevelDebug, msg, keyvals...) }
func (h *Handle) Info(msg string, keyvals ...interface{})     { h.Log(LevelInfo, msg, keyvals...) }
func (h *Handle) Warn(msg string, keyvals ...interface{})     { h.Log(LevelWarn, msg, keyvals...) }
func (h *Handle) Error(msg string, keyvals ...interface{})    { h.Log(LevelError, msg, keyvals...) }
func (h *Handle) Critical(msg string, keyvals ...interface{}) { h.Log(LevelCritical, msg, keyvals...) }

// Log writes the entry to both sinks and, if enabled, to the root logger.
func (h *Handle) Log(level Severity, msg string, keyvals ...interface{}) {
	h.console.Log(level, msg, keyvals...)
	h.file.Log(level, msg, keyvals...)

	if !h.propagate || h.name == constants.RootLoggerName || h.registry == nil {
		return
	}
	if root, ok := h.registry.Lookup(constants.RootLoggerName); ok {
		root.console.Log(level, msg, keyvals...)
		root.file.Log(level, msg, keyvals...)
	}
}

// WithPrefix returns a view of the handle whose messages carry prefix.
func (h *Handle) WithPrefix(prefix string) Logger {
	clone := *h
	clone.console = h.console.WithPrefix(prefix)
	clone.file = h.file.WithPrefix(prefix)
	return &clone
}

// WithFields returns a view of the handle that adds keyvals to every message.
func (h *Handle) WithFields(keyvals ...interface{}) Logger {
	clone := *h
	clone.console = h.console.WithFields(keyvals...)
	clone.file = h.file.WithFields(keyvals...)
	return &clone
}

// SetLevel sets both thresholds.
func (h *Handle) SetLevel(level Severity) {
	h.console.SetLevel(level)
	h.file.SetLevel(level)
}

// GetLevel returns the console threshold.
func (h *Handle) GetLevel() Severity { return h.console.GetLevel() }

// SetConsoleLevel sets the console threshold only.
func (h *Handle) SetConsoleLevel(level Severity) { h.console.SetLevel(level) }

// SetFileLevel sets the file threshold only.
func (h *Handle) SetFileLevel(level Severity) { h.file.SetLevel(level) }

// ConsoleLevel returns the console threshold.
func (h *Handle) ConsoleLevel() Severity { return h.console.GetLevel() }

// FileLevel returns the file threshold.
func (h *Handle) FileLevel() Severity { return h.file.GetLevel() }

// FileSinks returns the rotating files attached to the handle.
func (h *Handle) FileSinks() []*RotatingFile {
	if h.fileSink == nil {
		return nil
	}
	return []*RotatingFile{h.fileSink}
}

// Close closes the file sink.
func (h *Handle) Close() error {
	if h.fileSink == nil {
		return nil
	}
	return h.fileSink.Close()
}

// RotateAllFileSinks forces a rollover of every file sink of h whose active
// file is non-empty, and returns how many were rolled over. Empty files are
// left alone.
func RotateAllFileSinks(h *Handle) (int, error) {
	rotated := 0
	for _, sink := range h.FileSinks() {
		ok, err := sink.RotateIfNonEmpty()
		if err != nil {
			return rotated, err
		}
		if ok {
			rotated++
		}
	}
	return rotated, nil
}
