package cli

// Command represents a CLI command type.
type Command int

const (
	// CommandNone represents no command or an unrecognized command.
	CommandNone Command = iota

	// CommandRun runs the program. It is the default command.
	CommandRun

	// CommandLevel shows or changes the stored default log level.
	CommandLevel

	// CommandInit creates the log-level file.
	CommandInit

	// CommandVersion represents the version command for displaying build information.
	CommandVersion

	// CommandHelp represents the help command for showing usage information.
	CommandHelp
)

// String returns the command name as a string.
func (c Command) String() string {
	switch c {
	case CommandRun:
		return "run"
	case CommandLevel:
		return "level"
	case CommandInit:
		return "init"
	case CommandVersion:
		return "version"
	case CommandHelp:
		return "help"
	default:
		return ""
	}
}

// IsValid returns true if the command is a recognized command.
func (c Command) IsValid() bool {
	return c > CommandNone && c <= CommandHelp
}

// CommandInfo holds metadata about a command.
type CommandInfo struct {
	// Name is the primary command name.
	Name string

	// Aliases are alternative names for the command.
	Aliases []string

	// Description is a brief description of what the command does.
	Description string

	// Usage shows how to invoke the command.
	Usage string

	// LongDescription provides detailed help text for the command.
	LongDescription string
}

// Commands returns all available commands with their metadata.
func Commands() []CommandInfo {
	return []CommandInfo{
		{
			Name:        "run",
			Aliases:     []string{"r"},
			Description: "Run the program (default)",
			Usage:       "starter [global flags] [run]",
			LongDescription: `Run the program.

Logging is configured first: the level comes from a verbosity flag if one
is given, otherwise from the log-level file. The previous run's log file is
rotated before the first message of this run. Errors captured during the
run are repeated in a roundup when the program ends.

Examples:
  starter              Run with the stored log level
  starter -v           Run logging from DEBUG up
  starter --hello      Log "Hello World!" at every level`,
		},
		{
			Name:        "level",
			Aliases:     []string{"lvl"},
			Description: "Show or set the stored default log level",
			Usage:       "starter level [set [NAME]]",
			LongDescription: `Show or set the default log level stored in the log-level file.

The file must already exist (see "starter init"). Only the log_level line
is changed; every other line is kept as it is.

Levels: TRACE, DEBUG, INFO, WARNING, ERROR, CRITICAL, NOTSET

Examples:
  starter level            Print the stored level
  starter level set INFO   Store INFO
  starter level set        Pick the level interactively`,
		},
		{
			Name:        "init",
			Description: "Create the log-level file",
			Usage:       "starter init [flags]",
			LongDescription: `Create the log-level file with a single log_level line.

Fails if the file already exists.

Flags:
  --level NAME   Level to store (default WARNING)

Examples:
  starter init                Store WARNING
  starter init --level INFO   Store INFO`,
		},
		{
			Name:        "version",
			Description: "Show version information",
			Usage:       "starter version",
			LongDescription: `Display version information about starter.

Shows the version number, build time, and git commit hash.`,
		},
		{
			Name:        "help",
			Aliases:     []string{"h"},
			Description: "Show help for a command",
			Usage:       "starter help [command]",
			LongDescription: `Display help information.

When called without arguments, shows general help and available commands.
When called with a command name, shows detailed help for that command.

Examples:
  starter help         Show general help
  starter help level   Show help for level command`,
		},
	}
}

// GetCommandInfo returns the CommandInfo for a given command.
// Returns nil if the command is not found.
func GetCommandInfo(cmd Command) *CommandInfo {
	if !cmd.IsValid() {
		return nil
	}

	cmds := Commands()
	for i := range cmds {
		if cmds[i].Name == cmd.String() {
			return &cmds[i]
		}
	}
	return nil
}

// ParseCommand parses a string into a Command.
// It recognizes both primary command names and aliases.
func ParseCommand(s string) Command {
	for _, info := range Commands() {
		if s == info.Name {
			return commandFromName(info.Name)
		}
		for _, alias := range info.Aliases {
			if s == alias {
				return commandFromName(info.Name)
			}
		}
	}
	return CommandNone
}

// commandFromName converts a command name string to a Command type.
func commandFromName(name string) Command {
	switch name {
	case "run":
		return CommandRun
	case "level":
		return CommandLevel
	case "init":
		return CommandInit
	case "version":
		return CommandVersion
	case "help":
		return CommandHelp
	default:
		return CommandNone
	}
}
