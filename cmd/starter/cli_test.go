package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/hello"
	"github.com/tungetti/starter/internal/logging"
	testutil "github.com/tungetti/starter/internal/testing"
	"github.com/tungetti/starter/internal/ui/theme"
)

type harness struct {
	root    string
	logConf string
	logFile string
	stdout  *bytes.Buffer
	stderr  *testutil.SyncBuffer
	cli     *CLI
}

// newHarness isolates the environment and points both logging files into
// a temp dir built by b.
func newHarness(t *testing.T, b *testutil.TempDirBuilder) *harness {
	t.Helper()
	testutil.IsolateXDG(t)
	for _, key := range []string{"LOG_CONF", "LOG_FILE", "CONSOLE_FORMAT", "ROTATE_ON_STARTUP", "NO_COLOR"} {
		testutil.UnsetEnv(t, constants.EnvPrefix+key)
	}
	t.Setenv("NO_COLOR", "1")

	root := b.Build(t)
	h := &harness{
		root:    root,
		logConf: testutil.LogConfPath(root),
		logFile: testutil.LogFilePath(root),
		stdout:  &bytes.Buffer{},
		stderr:  &testutil.SyncBuffer{},
	}
	h.cli = NewCLI(h.stdout, h.stderr)
	return h
}

func (h *harness) run(args ...string) int {
	full := append([]string{"--log-conf", h.logConf, "--log-file", h.logFile}, args...)
	return h.cli.Run(context.Background(), full)
}

func (h *harness) log(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(h.logFile)
	require.NoError(t, err)
	return string(data)
}

// ============================================================================
// run
// ============================================================================

func TestRun_Default(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWarning))

	code := h.run()

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	log := h.log(t)
	assert.Contains(t, log, hello.Notice)
	assert.Contains(t, log, "Program ends..")
	assert.NotContains(t, log, "Program execution starts.")
	assert.Contains(t, h.stderr.String(), hello.Notice)
}

func TestRun_HelloQuiet(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWarning))

	code := h.run("-q", "--hello")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	log := h.log(t)
	assert.Equal(t, 2, strings.Count(log, hello.Greeting))
	assert.Contains(t, log, "[ERROR   ]")
	assert.Contains(t, log, "[CRITICAL]")
	// The closing banner is WARNING, below ERROR.
	assert.NotContains(t, log, "Program ends..")
}

func TestRun_HelloMoreVerbose(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWarning))

	code := h.run("-V", "--hello")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	log := h.log(t)
	assert.Equal(t, 6, strings.Count(log, hello.Greeting))
	assert.Contains(t, log, "Program execution starts.")
}

func TestRun_StoredLevel(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf("log_level: CRITICAL\n"))

	code := h.run("--hello")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	assert.Equal(t, 1, strings.Count(h.log(t), hello.Greeting))
}

func TestRun_MissingLogConf(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder())

	code := h.run()

	assert.Equal(t, constants.ExitConfiguration.Int(), code)
	assert.Contains(t, h.stderr.String(), "does not exist")
	assert.NoFileExists(t, h.logFile)
}

func TestRun_InvalidStoredLevel(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfInvalidLevel))

	code := h.run()

	assert.Equal(t, constants.ExitConfiguration.Int(), code)
	assert.Contains(t, h.stderr.String(), "Invalid log level: 'NOTALEVEL'")
}

func TestRun_RotatesPreviousRun(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWarning))

	require.Equal(t, 0, h.run())
	first := h.log(t)
	require.Equal(t, 0, h.run())

	testutil.AssertBackupCount(t, h.logFile, 1)
	testutil.AssertFileEquals(t, logging.BackupName(h.logFile, 1), first)
	assert.Equal(t, 1, strings.Count(h.log(t), "Program ends.."))
}

func TestRun_UsageErrorTouchesNothing(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWithComments))

	for _, args := range [][]string{{"-v", "-q"}, {"--bogus"}, {"frobnicate"}} {
		code := h.run(args...)
		assert.Equal(t, constants.ExitValidation.Int(), code, args)
	}

	testutil.AssertFileEquals(t, h.logConf, testutil.LogConfWithComments)
	assert.NoFileExists(t, h.logFile)
	assert.Contains(t, h.stderr.String(), "Run 'starter help' for usage.")
}

func TestRun_InvalidConfigFile(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().
		WithLogConf(testutil.LogConfWarning).
		WithFile("bad.yaml", "console_format: xml\n"))

	code := h.run("-c", h.root+"/bad.yaml")

	assert.Equal(t, constants.ExitValidation.Int(), code)
	assert.Contains(t, h.stderr.String(), "console_format")
}

// ============================================================================
// level
// ============================================================================

func TestLevel_Show(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWithComments))

	code := h.run("level")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	assert.Equal(t, "INFO ("+h.logConf+")\n", h.stdout.String())
}

func TestLevel_ShowMissing(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder())

	assert.Equal(t, constants.ExitConfiguration.Int(), h.run("level"))
}

func TestLevel_Set(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWithComments))

	code := h.run("level", "set", "debug")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	testutil.AssertFileEquals(t, h.logConf,
		strings.Replace(testutil.LogConfWithComments, "log_level: INFO", "log_level: DEBUG", 1))
	assert.Contains(t, h.stdout.String(), "Stored log level DEBUG")
}

func TestLevel_SetInvalidLeavesFile(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWithComments))

	code := h.run("level", "set", "LOUD")

	assert.Equal(t, constants.ExitConfiguration.Int(), code)
	testutil.AssertFileEquals(t, h.logConf, testutil.LogConfWithComments)
}

func TestLevel_SetNeverCreates(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder())

	code := h.run("level", "set", "INFO")

	assert.Equal(t, constants.ExitConfiguration.Int(), code)
	assert.NoFileExists(t, h.logConf)
}

func TestLevel_SetRepairsInvalidStoredName(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfInvalidLevel))

	code := h.run("level", "set", "ERROR")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	testutil.AssertFileEquals(t, h.logConf, "log_level: ERROR\n")
}

func TestLevel_Interactive(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWarning))

	var seen logging.Severity
	var plain bool
	h.cli.pick = func(ctx context.Context, current logging.Severity, th *theme.Theme) (logging.Severity, error) {
		seen = current
		plain = th.IsPlain()
		return logging.LevelTrace, nil
	}

	code := h.run("--no-color", "level", "set")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	assert.Equal(t, logging.LevelWarn, seen)
	assert.True(t, plain)
	testutil.AssertFileEquals(t, h.logConf, "log_level: TRACE\n")
}

func TestLevel_InteractiveCancelled(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder().WithLogConf(testutil.LogConfWarning))
	h.cli.pick = func(ctx context.Context, current logging.Severity, th *theme.Theme) (logging.Severity, error) {
		return current, errors.New(errors.Cancelled, "level selection cancelled")
	}

	code := h.run("level", "set")

	assert.Equal(t, constants.ExitUserAbort.Int(), code)
	testutil.AssertFileEquals(t, h.logConf, testutil.LogConfWarning)
}

// ============================================================================
// init, version, help
// ============================================================================

func TestInit(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder())

	code := h.run("init", "--level", "info")

	assert.Equal(t, constants.ExitSuccess.Int(), code)
	testutil.AssertFileEquals(t, h.logConf, "log_level: INFO\n")

	// A second init refuses to overwrite.
	code = h.run("init")
	assert.Equal(t, constants.ExitConfiguration.Int(), code)
	assert.Contains(t, h.stderr.String(), "already exists")
	testutil.AssertFileEquals(t, h.logConf, "log_level: INFO\n")
}

func TestInitThenRun(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder())

	require.Equal(t, 0, h.run("init"))
	assert.Equal(t, 0, h.run())
	assert.Contains(t, h.log(t), hello.Notice)
}

func TestVersion(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder())

	assert.Equal(t, 0, h.cli.Run(context.Background(), []string{"version"}))
	assert.Contains(t, h.stdout.String(), "starter version "+Version)
}

func TestHelp(t *testing.T) {
	h := newHarness(t, testutil.NewTempDirBuilder())

	assert.Equal(t, 0, h.cli.Run(context.Background(), []string{"--help"}))
	assert.Contains(t, h.stdout.String(), "Global Flags:")

	h.stdout.Reset()
	assert.Equal(t, 0, h.cli.Run(context.Background(), []string{"help", "init"}))
	assert.Contains(t, h.stdout.String(), "starter init [flags]")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		code     errors.Code
		expected constants.ExitCode
	}{
		{errors.Usage, constants.ExitValidation},
		{errors.Validation, constants.ExitValidation},
		{errors.Configuration, constants.ExitConfiguration},
		{errors.ConfigNotFound, constants.ExitConfiguration},
		{errors.InvalidLevelName, constants.ExitConfiguration},
		{errors.DuplicateLoggerName, constants.ExitConfiguration},
		{errors.AlreadyExists, constants.ExitConfiguration},
		{errors.Cancelled, constants.ExitUserAbort},
		{errors.CapturedApplicationError, constants.ExitError},
		{errors.Unknown, constants.ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected.Int(), exitCode(errors.New(tt.code, "x")))
		})
	}
}
