package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tungetti/starter/internal/config"
	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/ledger"
	"github.com/tungetti/starter/internal/logconf"
	"github.com/tungetti/starter/internal/logging"
)

// StartMessage is logged at DEBUG level once logging is configured.
var StartMessage = fmt.Sprintf(
	"Program execution starts.\nLogging and Input Arguments configured successfully.\n%s\n%s\n\n",
	constants.Separator, constants.Separator)

// Command is the work done by one run.
type Command func(ctx context.Context, c *Container) error

// App represents the main application with its dependencies and lifecycle.
type App struct {
	container *Container
	lifecycle *Lifecycle
	console   io.Writer
	version   string
	buildTime string
	gitCommit string
}

// Options configures the application.
type Options struct {
	Version         string
	BuildTime       string
	GitCommit       string
	ShutdownTimeout time.Duration
	// Console receives console log output; nil means os.Stderr.
	Console io.Writer
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Version:         "unknown",
		BuildTime:       "unknown",
		GitCommit:       "unknown",
		ShutdownTimeout: constants.ShutdownTimeout,
	}
}

// New creates a new application with the given options.
func New(opts Options) *App {
	return &App{
		container: NewContainer(),
		lifecycle: NewLifecycle(opts.ShutdownTimeout),
		console:   opts.Console,
		version:   opts.Version,
		buildTime: opts.BuildTime,
		gitCommit: opts.GitCommit,
	}
}

// Overrides are command-line settings that take precedence over the
// config file and the environment.
type Overrides struct {
	ConfigFile string
	LogConf    string
	LogFile    string
	NoColor    bool
}

// LoadConfig loads and validates the configuration. Without an explicit
// config file the default location is used, and a missing file means
// defaults. An explicit config file must exist.
func LoadConfig(o Overrides) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.ConfigFile == "" {
		cfg, err = config.LoadDefaultConfig()
	} else if _, statErr := os.Stat(o.ConfigFile); statErr != nil {
		return nil, errors.Wrapf(errors.Configuration, statErr, "cannot read config file %s", o.ConfigFile).
			WithOp("app.LoadConfig")
	} else {
		cfg, err = config.NewLoader(o.ConfigFile).Load()
	}
	if err != nil {
		return nil, err
	}

	if o.LogConf != "" {
		cfg.LogConf = o.LogConf
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	if o.NoColor {
		cfg.NoColor = true
	}

	if err := config.NewValidator().ValidateOrError(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Initialize sets up logging for a run. The order is:
//  1. resolve the level (verbosity flag, else the log-level file)
//  2. configure the root logger with its console and file sinks
//  3. rotate the previous run's log, before anything is logged
//  4. create the error ledger and register the shutdown hooks
//
// Errors from the log-level file keep their ConfigNotFound or
// InvalidLevelName code.
func (a *App) Initialize(ctx context.Context, cfg *config.Config, verbosity logging.Verbosity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store := logconf.NewStore(cfg.LogConfPath())
	level, err := logging.ResolveLevel(verbosity.Severity(), store)
	if err != nil {
		return err
	}

	logFile := cfg.LogFilePath()
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return errors.Wrap(errors.Configuration, "failed to create log directory", err).
			WithOp("app.Initialize")
	}

	registry := logging.NewRegistry(store, logging.DuplicateFail)
	root, err := registry.Configure(logging.HandleOptions{
		Name:          constants.RootLoggerName,
		ConsoleLevel:  level,
		FileLevel:     level,
		ConsoleFormat: logging.Format(cfg.ConsoleFormat),
		FilePattern:   cfg.FilePattern,
		FilePath:      logFile,
		MaxBytes:      cfg.LogMaxBytes,
		Backups:       cfg.LogBackups,
		Console:       a.console,
		NoColor:       cfg.NoColor,
	})
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to configure logging", err).
			WithOp("app.Initialize")
	}

	if cfg.RotateOnStartup {
		if _, err := logging.RotateAllFileSinks(root); err != nil {
			_ = registry.Close()
			return errors.Wrap(errors.Configuration, "failed to rotate log file", err).
				WithOp("app.Initialize")
		}
	}

	led := ledger.New(root)

	a.container.SetConfig(cfg)
	a.container.SetStore(store)
	a.container.SetRegistry(registry)
	a.container.SetLedger(led)
	a.container.SetLogger(root)

	// LIFO: the roundup is logged before the sinks close.
	a.lifecycle.OnShutdown("close-loggers", func(ctx context.Context) error {
		return registry.Close()
	})
	a.lifecycle.OnShutdown("roundup", func(ctx context.Context) error {
		led.ProgramEnd()
		return nil
	})

	root.Debug(StartMessage,
		"log_file", logFile,
		"level", level.String(),
		"verbosity", verbosity.String(),
		"version", a.version,
	)

	return a.container.Validate()
}

// Run executes cmd. A panic in cmd is captured in the ledger and returned
// as an error; any other error it returns is captured as well, unless it
// (or an error it wraps) was already captured.
func (a *App) Run(ctx context.Context, cmd Command) error {
	led := a.container.GetLedger()
	if led == nil {
		return errors.New(errors.Configuration, "application not initialized").WithOp("app.Run")
	}

	err := led.Guard(func() error {
		return cmd(ctx, a.container)
	})
	if err != nil && !stderrors.Is(err, errors.ErrCaptured) && !led.Captured(err) {
		led.Capture("", err)
	}
	return err
}

// Shutdown runs the roundup and closes the loggers.
func (a *App) Shutdown() error {
	return a.lifecycle.Shutdown()
}

// RunWithLifecycle runs cmd with a context that is cancelled on SIGINT or
// SIGTERM, then shuts down. The command's error wins over a shutdown error.
func (a *App) RunWithLifecycle(ctx context.Context, cmd Command) error {
	ctx, stop := a.lifecycle.WatchSignals(ctx)
	defer stop()

	runErr := a.Run(ctx, cmd)
	shutdownErr := a.Shutdown()
	if runErr != nil {
		return runErr
	}
	return shutdownErr
}

// Container returns the application context.
func (a *App) Container() *Container {
	return a.container
}

// Lifecycle returns the lifecycle manager.
func (a *App) Lifecycle() *Lifecycle {
	return a.lifecycle
}

// Version returns the application version.
func (a *App) Version() string {
	return a.version
}

// BuildTime returns the application build time.
func (a *App) BuildTime() string {
	return a.buildTime
}

// GitCommit returns the application git commit.
func (a *App) GitCommit() string {
	return a.gitCommit
}
