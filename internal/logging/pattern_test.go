package logging

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/starter/internal/errors"
)

var fixedNow = func() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
}

func newTestPattern(t *testing.T, buf *bytes.Buffer, opts PatternOptions) Logger {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	l, err := NewPatternLogger(buf, opts)
	require.NoError(t, err)
	return l
}

func TestPatternLogger_DefaultPattern(t *testing.T) {
	var buf bytes.Buffer
	l := newTestPattern(t, &buf, PatternOptions{Name: "root", Level: LevelDebug})

	l.Info("hello")
	assert.Equal(t, "2024-03-01 12:30:45 [INFO    ] root: hello\n", buf.String())
}

func TestPatternLogger_CustomPattern(t *testing.T) {
	var buf bytes.Buffer
	l := newTestPattern(t, &buf, PatternOptions{
		Name:       "app",
		Level:      LevelTrace,
		Pattern:    "{level}|{name}|{message}\n",
		TimeFormat: time.RFC3339,
	})

	l.Trace("x")
	assert.Equal(t, "TRACE   |app|x\n", buf.String())
}

func TestPatternLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestPattern(t, &buf, PatternOptions{Name: "root", Level: LevelInfo})

	l.WithFields("user", "bob").Warn("login failed", "attempt", 3, "err", stderrors.New("bad password"))
	line := buf.String()

	assert.True(t, strings.HasPrefix(line, "2024-03-01 12:30:45 [WARNING ] root: login failed "))
	assert.Contains(t, line, "user=bob")
	assert.Contains(t, line, "attempt=3")
	assert.Contains(t, line, `err="bad password"`)
}

func TestPatternLogger_OddFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestPattern(t, &buf, PatternOptions{Level: LevelInfo})

	l.Info("odd", "lonely")
	assert.Contains(t, buf.String(), "lonely=MISSING")
}

func TestPatternLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	l := newTestPattern(t, &buf, PatternOptions{Name: "root", Level: LevelInfo})

	l.WithPrefix("db").Error("gone")
	assert.Contains(t, buf.String(), "root: db: gone")
}

func TestPatternLogger_Filtering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestPattern(t, &buf, PatternOptions{Level: LevelWarn})

	l.Debug("no")
	l.Info("no")
	assert.Empty(t, buf.String())

	l.Critical("yes")
	assert.Contains(t, buf.String(), "CRITICAL")

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	buf.Reset()
	l.Debug("now")
	assert.Contains(t, buf.String(), "now")
}

func TestPatternLogger_InvalidPattern(t *testing.T) {
	_, err := NewPatternLogger(&bytes.Buffer{}, PatternOptions{Pattern: "{message"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Configuration))
}

func TestFormatFields_Empty(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
}
