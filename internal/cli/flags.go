// Package cli provides command-line argument parsing for starter.
// It supports subcommands, global flags, and command-specific flags with both
// short and long variants. Parse errors carry the errors.Usage code so the
// caller can exit before any logging or persisted state is touched.
package cli

import (
	"strings"

	"github.com/tungetti/starter/internal/logging"
)

// GlobalFlags holds flags common to all commands.
// These flags can be specified before the command name and affect
// the overall behavior of the application.
type GlobalFlags struct {
	// Verbose logs from DEBUG up.
	Verbose bool

	// MoreVerbose logs from TRACE up.
	MoreVerbose bool

	// Quiet logs from ERROR up.
	Quiet bool

	// MoreQuiet logs CRITICAL only.
	MoreQuiet bool

	// ConfigFile specifies a custom configuration file path.
	ConfigFile string

	// LogConf overrides the path of the log-level file.
	LogConf string

	// LogFile overrides the path of the active log file.
	LogFile string

	// NoColor disables colored terminal output.
	NoColor bool

	// Hello makes the run command log "Hello World!" at every severity.
	Hello bool
}

// LevelAction selects what the level command does.
type LevelAction int

const (
	// LevelShow prints the stored default level.
	LevelShow LevelAction = iota
	// LevelSet stores a new default level.
	LevelSet
)

// LevelFlags holds level command arguments.
type LevelFlags struct {
	Action LevelAction

	// Name is the level to store. Empty with LevelSet opens the picker.
	Name string
}

// Interactive reports whether the level has to be picked by the user.
func (f LevelFlags) Interactive() bool {
	return f.Action == LevelSet && f.Name == ""
}

// InitFlags holds init command specific flags.
type InitFlags struct {
	// Level is the level written to the new log-level file.
	Level string
}

// Validate checks GlobalFlags for conflicting options.
// At most one verbosity flag may be given.
func (f *GlobalFlags) Validate() error {
	var set []string
	if f.MoreVerbose {
		set = append(set, "-V")
	}
	if f.Verbose {
		set = append(set, "-v")
	}
	if f.Quiet {
		set = append(set, "-q")
	}
	if f.MoreQuiet {
		set = append(set, "-Q")
	}
	if len(set) > 1 {
		return &FlagError{
			Flag:    "verbosity",
			Message: "cannot combine " + strings.Join(set, ", "),
		}
	}
	return nil
}

// Verbosity returns the tier selected by the flags.
func (f *GlobalFlags) Verbosity() logging.Verbosity {
	switch {
	case f.MoreVerbose:
		return logging.VerbosityMoreVerbose
	case f.Verbose:
		return logging.VerbosityVerbose
	case f.Quiet:
		return logging.VerbosityQuiet
	case f.MoreQuiet:
		return logging.VerbosityMoreQuiet
	default:
		return logging.VerbosityDefault
	}
}

// FlagError represents an error with a command-line flag.
type FlagError struct {
	Flag    string
	Message string
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return "flag error: " + e.Flag + ": " + e.Message
}
