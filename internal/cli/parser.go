package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/logging"
)

// ParseResult holds the result of parsing command line arguments.
type ParseResult struct {
	// Command is the parsed command.
	Command Command

	// GlobalFlags contains the global flag values.
	GlobalFlags GlobalFlags

	// LevelFlags contains level command arguments.
	LevelFlags LevelFlags

	// InitFlags contains init command flag values.
	InitFlags InitFlags

	// Args contains any remaining positional arguments.
	Args []string

	// ShowHelp indicates that help should be displayed.
	ShowHelp bool

	// HelpCommand is the command to show help for (when using "help <command>").
	HelpCommand string
}

// Parser handles command line argument parsing.
type Parser struct {
	programName string
	version     string
	buildTime   string
	gitCommit   string
}

// NewParser creates a new CLI parser with build information.
func NewParser(programName, version, buildTime, gitCommit string) *Parser {
	return &Parser{
		programName: programName,
		version:     version,
		buildTime:   buildTime,
		gitCommit:   gitCommit,
	}
}

// usageError wraps a parse failure with the Usage code.
func usageError(message string, cause error) error {
	if cause == nil {
		return errors.New(errors.Usage, message).WithOp("cli.Parse")
	}
	return errors.Wrap(errors.Usage, message, cause).WithOp("cli.Parse")
}

// Parse parses command line arguments and returns a ParseResult.
// The args parameter should not include the program name (typically os.Args[1:]).
// Without a command, the run command is selected.
func (p *Parser) Parse(args []string) (*ParseResult, error) {
	result := &ParseResult{}

	// Check for help flags first before parsing
	for _, arg := range args {
		if arg == "-h" || arg == "--help" || arg == "-help" {
			result.ShowHelp = true
			return result, nil
		}
	}

	// Parse global flags - the flag package will stop at the first non-flag argument
	globalFs := p.createGlobalFlagSet(&result.GlobalFlags)
	globalFs.SetOutput(io.Discard) // Suppress default error output

	if err := globalFs.Parse(args); err != nil {
		return nil, usageError("invalid global flags", err)
	}

	if err := result.GlobalFlags.Validate(); err != nil {
		return nil, usageError("invalid global flags", err)
	}

	remaining := globalFs.Args()
	if len(remaining) == 0 {
		result.Command = CommandRun
		return result, nil
	}

	cmdStr := remaining[0]
	result.Command = ParseCommand(cmdStr)

	if result.Command == CommandNone {
		return nil, usageError(fmt.Sprintf("unknown command: %s", cmdStr), nil)
	}

	// Parse command-specific flags
	cmdArgs := remaining[1:]
	if err := p.parseCommandFlags(result, cmdArgs); err != nil {
		return nil, err
	}

	return result, nil
}

// createGlobalFlagSet creates a FlagSet with global flag definitions.
func (p *Parser) createGlobalFlagSet(flags *GlobalFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("global", flag.ContinueOnError)

	// Verbosity tiers
	fs.BoolVar(&flags.MoreVerbose, "more-verbose", false, "Log from TRACE up")
	fs.BoolVar(&flags.MoreVerbose, "V", false, "Log from TRACE up (shorthand)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Log from DEBUG up")
	fs.BoolVar(&flags.Verbose, "v", false, "Log from DEBUG up (shorthand)")
	fs.BoolVar(&flags.Quiet, "quiet", false, "Log from ERROR up")
	fs.BoolVar(&flags.Quiet, "q", false, "Log from ERROR up (shorthand)")
	fs.BoolVar(&flags.MoreQuiet, "more-quiet", false, "Log CRITICAL only")
	fs.BoolVar(&flags.MoreQuiet, "Q", false, "Log CRITICAL only (shorthand)")

	// Config file flags
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&flags.ConfigFile, "c", "", "Path to config file (shorthand)")

	// Logging paths
	fs.StringVar(&flags.LogConf, "log-conf", "", "Path to log-level file")
	fs.StringVar(&flags.LogFile, "log-file", "", "Path to log file")

	// No color
	fs.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	fs.BoolVar(&flags.Hello, "hello", false, "Log \"Hello World!\" at every level")

	return fs
}

// parseCommandFlags parses flags specific to each command.
func (p *Parser) parseCommandFlags(result *ParseResult, args []string) error {
	switch result.Command {
	case CommandLevel:
		return p.parseLevelArgs(result, args)
	case CommandInit:
		return p.parseInitFlags(result, args)
	case CommandHelp:
		return p.parseHelpFlags(result, args)
	case CommandRun, CommandVersion:
		if len(args) > 0 {
			return usageError(fmt.Sprintf("%s takes no arguments, got %q", result.Command, args[0]), nil)
		}
		return nil
	}
	return nil
}

func (p *Parser) parseLevelArgs(result *ParseResult, args []string) error {
	switch {
	case len(args) == 0:
		result.LevelFlags.Action = LevelShow
	case args[0] == "set" && len(args) <= 2:
		result.LevelFlags.Action = LevelSet
		if len(args) == 2 {
			if _, err := logging.ParseSeverity(args[1]); err != nil {
				return err
			}
			result.LevelFlags.Name = args[1]
		}
	case args[0] == "set":
		return usageError("level set takes at most one level name", nil)
	default:
		return usageError(fmt.Sprintf("unknown level action: %s", args[0]), nil)
	}
	result.Args = args
	return nil
}

func (p *Parser) parseInitFlags(result *ParseResult, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&result.InitFlags.Level, "level", logging.FallbackLevel.String(), "Level to store")

	if err := fs.Parse(args); err != nil {
		return usageError("invalid init flags", err)
	}
	if _, err := logging.ParseSeverity(result.InitFlags.Level); err != nil {
		return err
	}
	result.Args = fs.Args()
	return nil
}

func (p *Parser) parseHelpFlags(result *ParseResult, args []string) error {
	result.ShowHelp = true
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		result.HelpCommand = args[0]
	}
	return nil
}

// Usage returns the main usage string.
func (p *Parser) Usage() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s - command-line program starter\n\n", p.programName))
	b.WriteString("Usage:\n")
	b.WriteString(fmt.Sprintf("  %s [ -V | -v | -q | -Q ] [global flags] [command] [command flags]\n\n", p.programName))

	b.WriteString("Commands:\n")
	for _, cmd := range Commands() {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", cmd.Name, cmd.Description))
	}

	b.WriteString("\nGlobal Flags:\n")
	b.WriteString("  -V, --more-verbose  Log from TRACE up\n")
	b.WriteString("  -v, --verbose       Log from DEBUG up\n")
	b.WriteString("  -q, --quiet         Log from ERROR up\n")
	b.WriteString("  -Q, --more-quiet    Log CRITICAL only\n")
	b.WriteString("  -c, --config        Path to config file\n")
	b.WriteString("      --log-conf      Path to log-level file\n")
	b.WriteString("      --log-file      Path to log file\n")
	b.WriteString("      --no-color      Disable colored output\n")
	b.WriteString("      --hello         Log \"Hello World!\" at every level\n")

	b.WriteString("\nWithout a verbosity flag the level stored in the log-level file is used.\n")
	b.WriteString(fmt.Sprintf("Use \"%s help <command>\" for more information about a command.\n", p.programName))

	return b.String()
}

// CommandUsage returns the usage string for a specific command.
func (p *Parser) CommandUsage(cmd string) string {
	parsedCmd := ParseCommand(cmd)
	if parsedCmd == CommandNone {
		return fmt.Sprintf("Unknown command: %s\n\nRun '%s help' for usage.\n", cmd, p.programName)
	}

	info := GetCommandInfo(parsedCmd)
	if info == nil {
		return fmt.Sprintf("No help available for: %s\n", cmd)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n\n", info.Description))
	b.WriteString(fmt.Sprintf("Usage:\n  %s\n\n", info.Usage))

	if info.LongDescription != "" {
		b.WriteString(info.LongDescription)
		b.WriteString("\n")
	}

	return b.String()
}

// VersionString returns formatted version information.
func (p *Parser) VersionString() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s version %s\n", p.programName, p.version))

	if p.buildTime != "" && p.buildTime != "unknown" {
		b.WriteString(fmt.Sprintf("Build time: %s\n", p.buildTime))
	}

	if p.gitCommit != "" && p.gitCommit != "unknown" {
		commit := p.gitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		b.WriteString(fmt.Sprintf("Git commit: %s\n", commit))
	}

	return b.String()
}

// VersionInfo returns version components for structured output.
func (p *Parser) VersionInfo() map[string]string {
	return map[string]string{
		"version":   p.version,
		"buildTime": p.buildTime,
		"gitCommit": p.gitCommit,
	}
}
