package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tungetti/starter/internal/constants"
)

// ============================================================================
// Log-level file contents
// ============================================================================

// LogConfWarning is a minimal log-level file.
const LogConfWarning = "log_level: WARNING\n"

// LogConfWithComments is a log-level file with unrelated lines that must
// survive a rewrite.
const LogConfWithComments = `# default log level, one of TRACE DEBUG INFO WARNING ERROR CRITICAL
log_level: INFO
# owner: ops
`

// LogConfInvalidLevel names a level that does not exist.
const LogConfInvalidLevel = "log_level: NOTALEVEL\n"

// LogConfMissingLine has no log_level line.
const LogConfMissingLine = "verbosity: high\n"

// ============================================================================
// Application config contents
// ============================================================================

// ConfigYAML is a sample application config in YAML.
const ConfigYAML = `log_max_bytes: 2048
log_backups: 3
console_format: logfmt
no_color: true
rotate_on_startup: false
`

// ConfigTOML is ConfigYAML expressed in TOML.
const ConfigTOML = `log_max_bytes = 2048
log_backups = 3
console_format = "logfmt"
no_color = true
rotate_on_startup = false
`

// ConfigJSON5 is ConfigYAML expressed in JSON5, comments and trailing
// commas included.
const ConfigJSON5 = `{
  // rotation
  log_max_bytes: 2048,
  log_backups: 3,
  console_format: "logfmt",
  no_color: true,
  rotate_on_startup: false,
}
`

// ============================================================================
// TempDirBuilder - Create temporary directories with files for testing
// ============================================================================

// TempDirBuilder helps create temporary directories with files for testing.
type TempDirBuilder struct {
	files map[string]string
}

// NewTempDirBuilder creates a new TempDirBuilder.
func NewTempDirBuilder() *TempDirBuilder {
	return &TempDirBuilder{
		files: make(map[string]string),
	}
}

// WithFile adds a file with the given path and content.
// Path is relative to the temp directory root.
func (b *TempDirBuilder) WithFile(path, content string) *TempDirBuilder {
	b.files[path] = content
	return b
}

// WithLogConf adds a log-level file with the given content.
func (b *TempDirBuilder) WithLogConf(content string) *TempDirBuilder {
	return b.WithFile(constants.LogConfFileName, content)
}

// WithLog adds an active log file with the given content, as left behind by
// a previous run.
func (b *TempDirBuilder) WithLog(content string) *TempDirBuilder {
	return b.WithFile(filepath.Join(constants.LogDirName, constants.LogFileName), content)
}

// Build creates the files under t.TempDir() and returns the directory.
func (b *TempDirBuilder) Build(t testing.TB) string {
	t.Helper()

	root := t.TempDir()
	for path, content := range b.files {
		fullPath := filepath.Join(root, path)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", fullPath, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file %s: %v", fullPath, err)
		}
	}
	return root
}

// LogConfPath returns the log-level file path inside a built directory.
func LogConfPath(root string) string {
	return filepath.Join(root, constants.LogConfFileName)
}

// LogFilePath returns the active log file path inside a built directory.
func LogFilePath(root string) string {
	return filepath.Join(root, constants.LogDirName, constants.LogFileName)
}
