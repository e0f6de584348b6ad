// Package logging provides named loggers with a console sink and a rotating
// file sink, each with its own severity threshold. Loggers are created through
// a Registry, which makes sure a logger name is configured only once.
package logging

import (
	"fmt"
	"strings"

	"github.com/tungetti/starter/internal/errors"
)

// Severity is an ordered logging level. Larger values are more severe.
// LevelNotSet as a threshold lets every message through.
type Severity int

const (
	// LevelNotSet means no level was chosen.
	LevelNotSet Severity = 0
	// LevelTrace is for very fine-grained diagnostics.
	LevelTrace Severity = 5
	// LevelDebug is for detailed debugging information.
	LevelDebug Severity = 10
	// LevelInfo is for general informational messages.
	LevelInfo Severity = 20
	// LevelWarn is for warning messages about potential issues.
	LevelWarn Severity = 30
	// LevelError is for error messages about failures.
	LevelError Severity = 40
	// LevelCritical is for failures the program cannot continue from.
	LevelCritical Severity = 50
)

// FallbackLevel is used when neither a flag nor a stored default picks a level.
const FallbackLevel = LevelWarn

// canonical names, written back to the log-level file.
var severityNames = map[Severity]string{
	LevelNotSet:   "NOTSET",
	LevelTrace:    "TRACE",
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarn:     "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

// accepted names, including aliases, in upper case.
var severityByName = map[string]Severity{
	"NOTSET":   LevelNotSet,
	"UNSET":    LevelNotSet,
	"TRACE":    LevelTrace,
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARN":     LevelWarn,
	"WARNING":  LevelWarn,
	"ERROR":    LevelError,
	"FATAL":    LevelCritical,
	"CRITICAL": LevelCritical,
}

// String returns the canonical upper-case name of the level.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(s))
}

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	_, ok := severityNames[s]
	return ok
}

// Enabled reports whether a message at level s passes the given threshold.
func (s Severity) Enabled(threshold Severity) bool {
	return s >= threshold
}

// ParseSeverity converts a level name to a Severity. Matching is
// case-insensitive and accepts the aliases WARN, FATAL and UNSET.
func ParseSeverity(name string) (Severity, error) {
	if s, ok := severityByName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return LevelNotSet, errors.Newf(errors.InvalidLevelName,
		"Cannot configure logging. Invalid log level: '%s'.", name)
}

// Severities returns all known severities from least to most severe.
func Severities() []Severity {
	return []Severity{
		LevelNotSet, LevelTrace, LevelDebug, LevelInfo,
		LevelWarn, LevelError, LevelCritical,
	}
}

// Verbosity is the tier selected on the command line.
type Verbosity int

const (
	// VerbosityDefault uses the stored default level.
	VerbosityDefault Verbosity = iota
	// VerbosityVerbose logs from DEBUG up.
	VerbosityVerbose
	// VerbosityMoreVerbose logs from TRACE up.
	VerbosityMoreVerbose
	// VerbosityQuiet logs from ERROR up.
	VerbosityQuiet
	// VerbosityMoreQuiet logs CRITICAL only.
	VerbosityMoreQuiet
)

// Severity maps the tier to a level. VerbosityDefault maps to LevelNotSet,
// meaning "no override".
func (v Verbosity) Severity() Severity {
	switch v {
	case VerbosityVerbose:
		return LevelDebug
	case VerbosityMoreVerbose:
		return LevelTrace
	case VerbosityQuiet:
		return LevelError
	case VerbosityMoreQuiet:
		return LevelCritical
	default:
		return LevelNotSet
	}
}

// String returns the tier name.
func (v Verbosity) String() string {
	switch v {
	case VerbosityVerbose:
		return "verbose"
	case VerbosityMoreVerbose:
		return "more-verbose"
	case VerbosityQuiet:
		return "quiet"
	case VerbosityMoreQuiet:
		return "more-quiet"
	default:
		return "default"
	}
}

// LevelSource supplies the stored default level.
type LevelSource interface {
	Read() (Severity, error)
}

// ResolveLevel picks the effective level: an explicit flag wins, then the
// stored default, then FallbackLevel. A stored NOTSET counts as "no default".
// Errors from the source are returned unchanged.
func ResolveLevel(flag Severity, src LevelSource) (Severity, error) {
	if flag != LevelNotSet {
		return flag, nil
	}
	if src == nil {
		return FallbackLevel, nil
	}
	stored, err := src.Read()
	if err != nil {
		return LevelNotSet, err
	}
	if stored != LevelNotSet {
		return stored, nil
	}
	return FallbackLevel, nil
}
