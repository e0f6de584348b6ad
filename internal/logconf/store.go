// Package logconf persists the default log level between runs in a small,
// human-editable text file containing the line
//
//	log_level: WARNING
//
// Any other lines in the file are kept byte-for-byte when the level is
// rewritten. The store never creates the file on Write; Init does that.
package logconf

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/logging"
)

// Key is the name of the recognised line.
const Key = "log_level"

var levelLine = regexp.MustCompile(`^` + Key + `:[ \t]*(\w+)[ \t]*$`)

// Record is a parsed log-level file. It holds the file as a list of lines
// (each with its original terminator) and remembers which one carries the
// level, so only that line changes on SetLevel.
type Record struct {
	lines []string
	index int
	name  string
}

// Parse splits data into lines and locates the single log_level line.
// It fails with InvalidLevelName when there is no such line or more than one.
// The level name itself is not validated here; see Level.
func Parse(data []byte) (*Record, error) {
	r := &Record{index: -1}
	if len(data) > 0 {
		r.lines = strings.SplitAfter(string(data), "\n")
		if r.lines[len(r.lines)-1] == "" {
			r.lines = r.lines[:len(r.lines)-1]
		}
	}

	for i, line := range r.lines {
		m := levelLine.FindStringSubmatch(trimEOL(line))
		if m == nil {
			continue
		}
		if r.index >= 0 {
			return nil, errors.New(errors.InvalidLevelName,
				"Cannot configure logging. Log level file contains more than one 'log_level' line.").
				WithOp("logconf.Parse")
		}
		r.index = i
		r.name = m[1]
	}

	if r.index < 0 {
		return nil, errors.New(errors.InvalidLevelName,
			"Cannot configure logging. Log level cannot be determined from log.conf file.").
			WithOp("logconf.Parse")
	}
	return r, nil
}

// Name returns the level name as written in the file.
func (r *Record) Name() string {
	return r.name
}

// Level returns the stored severity, or InvalidLevelName if the stored name
// is not a known level.
func (r *Record) Level() (logging.Severity, error) {
	return logging.ParseSeverity(r.name)
}

// SetLevel replaces the level line with the canonical name of level, keeping
// the line's original terminator.
func (r *Record) SetLevel(level logging.Severity) error {
	if !level.IsValid() {
		return invalidLevel(level)
	}
	old := r.lines[r.index]
	r.lines[r.index] = Key + ": " + level.String() + old[len(trimEOL(old)):]
	r.name = level.String()
	return nil
}

// Bytes serialises the record back into file content.
func (r *Record) Bytes() []byte {
	return []byte(strings.Join(r.lines, ""))
}

// Read returns the severity stored at path.
func Read(path string) (logging.Severity, error) {
	data, err := readExisting(path, "logconf.Read")
	if err != nil {
		return logging.LevelNotSet, err
	}
	rec, err := Parse(data)
	if err != nil {
		return logging.LevelNotSet, err
	}
	return rec.Level()
}

// Write stores level at path. The level is validated before the file is
// touched. The file must already exist and contain a log_level line; all
// other content is preserved.
func Write(path string, level logging.Severity) error {
	if !level.IsValid() {
		return invalidLevel(level)
	}

	data, err := readExisting(path, "logconf.Write")
	if err != nil {
		return err
	}
	rec, err := Parse(data)
	if err != nil {
		return err
	}
	if err := rec.SetLevel(level); err != nil {
		return err
	}

	if err := replaceFile(path, rec.Bytes()); err != nil {
		return errors.Wrap(errors.Configuration, "failed to write log level file", err).
			WithOp("logconf.Write")
	}
	return nil
}

// Init creates a new log-level file at path holding level. Parent
// directories are created. It fails with AlreadyExists if path exists.
func Init(path string, level logging.Severity) error {
	if !level.IsValid() {
		return invalidLevel(level)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.Configuration, "failed to create log level directory", err).
			WithOp("logconf.Init")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Newf(errors.AlreadyExists, "File '%s' already exists.", path).
				WithOp("logconf.Init")
		}
		return errors.Wrap(errors.Configuration, "failed to create log level file", err).
			WithOp("logconf.Init")
	}
	defer f.Close()

	if _, err := f.WriteString(Key + ": " + level.String() + "\n"); err != nil {
		return errors.Wrap(errors.Configuration, "failed to write log level file", err).
			WithOp("logconf.Init")
	}
	return nil
}

// Store is a log-level file at a fixed path. It satisfies
// logging.LevelSource, so a Registry can resolve default levels from it.
type Store struct {
	Path string
}

// NewStore returns a Store for path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Read returns the stored severity.
func (s *Store) Read() (logging.Severity, error) {
	return Read(s.Path)
}

// Write replaces the stored severity.
func (s *Store) Write(level logging.Severity) error {
	return Write(s.Path, level)
}

// Init creates the file with level.
func (s *Store) Init(level logging.Severity) error {
	return Init(s.Path, level)
}

// Exists reports whether the file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

func readExisting(path, op string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ConfigNotFound, err, "File '%s' does not exist.", path).
				WithOp(op)
		}
		return nil, errors.Wrap(errors.Configuration, "failed to read log level file", err).
			WithOp(op)
	}
	return data, nil
}

// replaceFile writes data next to path and renames it into place, keeping
// the original file mode.
func replaceFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

func invalidLevel(level logging.Severity) error {
	return errors.Newf(errors.InvalidLevelName,
		"Cannot configure logging. Invalid log level: '%s'.", level).
		WithOp("logconf")
}
