package main

import (
	"context"
	"fmt"
	"io"

	"github.com/tungetti/starter/internal/app"
	"github.com/tungetti/starter/internal/cli"
	"github.com/tungetti/starter/internal/config"
	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/hello"
	"github.com/tungetti/starter/internal/logconf"
	"github.com/tungetti/starter/internal/logging"
	"github.com/tungetti/starter/internal/ui"
	"github.com/tungetti/starter/internal/ui/theme"
)

// PickFunc asks the user for a level, starting at current.
type PickFunc func(ctx context.Context, current logging.Severity, th *theme.Theme) (logging.Severity, error)

// CLI encapsulates the command-line interface for starter.
type CLI struct {
	parser *cli.Parser
	stdout io.Writer
	stderr io.Writer
	pick   PickFunc
}

// NewCLI creates a new CLI instance. Command output goes to stdout; errors
// and console log output go to stderr.
func NewCLI(stdout, stderr io.Writer) *CLI {
	return &CLI{
		parser: cli.NewParser(constants.AppName, Version, BuildTime, GitCommit),
		stdout: stdout,
		stderr: stderr,
		pick: func(ctx context.Context, current logging.Severity, th *theme.Theme) (logging.Severity, error) {
			return ui.PickLevel(ctx, current, th)
		},
	}
}

// Run parses arguments and executes the appropriate command.
// It returns an exit code suitable for os.Exit().
func (c *CLI) Run(ctx context.Context, args []string) int {
	result, err := c.parser.Parse(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		fmt.Fprintf(c.stderr, "Run '%s help' for usage.\n", constants.AppName)
		return exitCode(err)
	}

	if result.ShowHelp {
		return c.showHelp(result)
	}
	if result.Command == cli.CommandVersion {
		fmt.Fprint(c.stdout, c.parser.VersionString())
		return constants.ExitSuccess.Int()
	}

	flags := result.GlobalFlags
	cfg, err := app.LoadConfig(app.Overrides{
		ConfigFile: flags.ConfigFile,
		LogConf:    flags.LogConf,
		LogFile:    flags.LogFile,
		NoColor:    flags.NoColor,
	})
	if err != nil {
		return c.fail(err)
	}

	switch result.Command {
	case cli.CommandLevel:
		return c.cmdLevel(ctx, cfg, result.LevelFlags)
	case cli.CommandInit:
		return c.cmdInit(cfg, result.InitFlags)
	default:
		return c.cmdRun(ctx, cfg, flags)
	}
}

// fail reports err and returns its exit code.
func (c *CLI) fail(err error) int {
	fmt.Fprintf(c.stderr, "Error: %v\n", err)
	return exitCode(err)
}

// showHelp displays help information and returns an exit code.
func (c *CLI) showHelp(result *cli.ParseResult) int {
	if result.HelpCommand != "" {
		fmt.Fprint(c.stdout, c.parser.CommandUsage(result.HelpCommand))
	} else {
		fmt.Fprint(c.stdout, c.parser.Usage())
	}
	return constants.ExitSuccess.Int()
}

// cmdRun configures logging, runs the placeholder command and ends with the
// error roundup.
func (c *CLI) cmdRun(ctx context.Context, cfg *config.Config, flags cli.GlobalFlags) int {
	opts := app.DefaultOptions()
	opts.Version = Version
	opts.BuildTime = BuildTime
	opts.GitCommit = GitCommit
	opts.Console = c.stderr

	application := app.New(opts)
	if err := application.Initialize(ctx, cfg, flags.Verbosity()); err != nil {
		return c.fail(err)
	}

	err := application.RunWithLifecycle(ctx, func(ctx context.Context, ac *app.Container) error {
		hello.Run(ac.GetLogger(), flags.Hello)
		return nil
	})
	if err != nil {
		// Already logged through the ledger.
		return exitCode(err)
	}
	return constants.ExitSuccess.Int()
}

// cmdLevel prints or changes the stored default level.
func (c *CLI) cmdLevel(ctx context.Context, cfg *config.Config, flags cli.LevelFlags) int {
	store := logconf.NewStore(cfg.LogConfPath())

	current, err := store.Read()
	if err != nil && (flags.Action == cli.LevelShow || flags.Interactive()) {
		return c.fail(err)
	}

	if flags.Action == cli.LevelShow {
		fmt.Fprintf(c.stdout, "%s (%s)\n", current, store.Path)
		return constants.ExitSuccess.Int()
	}

	var level logging.Severity
	if flags.Interactive() {
		level, err = c.pick(ctx, current, theme.ForColor(cfg.NoColor))
	} else {
		level, err = logging.ParseSeverity(flags.Name)
	}
	if err != nil {
		return c.fail(err)
	}

	if err := store.Write(level); err != nil {
		return c.fail(err)
	}
	fmt.Fprintf(c.stdout, "Stored log level %s in %s\n", level, store.Path)
	return constants.ExitSuccess.Int()
}

// cmdInit creates the log-level file.
func (c *CLI) cmdInit(cfg *config.Config, flags cli.InitFlags) int {
	level, err := logging.ParseSeverity(flags.Level)
	if err != nil {
		return c.fail(err)
	}

	store := logconf.NewStore(cfg.LogConfPath())
	if err := store.Init(level); err != nil {
		return c.fail(err)
	}
	fmt.Fprintf(c.stdout, "Created %s with log level %s\n", store.Path, level)
	return constants.ExitSuccess.Int()
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.Usage, errors.Validation:
		return constants.ExitValidation.Int()
	case errors.Configuration, errors.ConfigNotFound, errors.InvalidLevelName,
		errors.DuplicateLoggerName, errors.AlreadyExists:
		return constants.ExitConfiguration.Int()
	case errors.Cancelled:
		return constants.ExitUserAbort.Int()
	default:
		return constants.ExitError.Int()
	}
}
