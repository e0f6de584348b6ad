// Package constants defines application-wide constants for starter.
// All constants are typed to ensure type safety and prevent accidental misuse.
package constants

import "time"

// Application metadata
const (
	// AppName is the application name used in logs, configs, and user messages.
	AppName string = "starter"

	// AppDescription is a short description of the application.
	AppDescription string = "Command-line program starter template"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix string = "STARTER_"
)

// ExitCode represents process exit codes for different termination scenarios.
type ExitCode int

const (
	// ExitSuccess indicates the application completed successfully.
	ExitSuccess ExitCode = iota

	// ExitError indicates a general error occurred.
	ExitError

	// ExitConfiguration indicates logging or application configuration failed.
	ExitConfiguration

	// ExitValidation indicates invalid command-line input or configuration.
	ExitValidation

	// ExitUserAbort indicates the user cancelled the operation.
	ExitUserAbort
)

// Int returns the exit code as an int for use with os.Exit().
func (e ExitCode) Int() int {
	return int(e)
}

// File names and locations relative to the XDG directories.
const (
	// ConfigFileName is the application configuration file name.
	ConfigFileName string = "config.yaml"

	// LogConfFileName is the file holding the persisted default log level.
	LogConfFileName string = "log.conf"

	// LogFileName is the name of the active log file.
	LogFileName string = "app.log"

	// LogDirName is the directory below the state directory holding log files.
	LogDirName string = "log"
)

// Logging defaults.
const (
	// DefaultLogMaxBytes is the size an active log file may reach before rollover.
	DefaultLogMaxBytes int64 = 100 * 1024 * 1024

	// DefaultLogBackups is the number of rolled-over log files kept.
	DefaultLogBackups int = 5

	// RootLoggerName is the name of the logger configured by the program itself.
	RootLoggerName string = "root"

	// DefaultFilePattern renders one file log line.
	DefaultFilePattern string = "{time} [{level}] {name}: {message}{fields}"

	// FileTimeFormat is the timestamp layout used in log files.
	FileTimeFormat string = "2006-01-02 15:04:05"

	// ConsoleTimeFormat is the timestamp layout used on the console.
	ConsoleTimeFormat string = "15:04:05"

	// Separator is the visual separator line used in banners.
	Separator string = "========================================"
)

// ShutdownTimeout bounds the time spent in shutdown hooks.
const ShutdownTimeout time.Duration = 10 * time.Second
