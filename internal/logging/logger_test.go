package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(buf *bytes.Buffer, level Severity) Logger {
	return New(Options{
		Level:           level,
		Output:          buf,
		NoColor:         true,
		ReportTimestamp: false,
	})
}

// TestDefaultOptions tests the DefaultOptions function.
func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, FallbackLevel, opts.Level)
	assert.Equal(t, os.Stderr, opts.Output)
	assert.Equal(t, "15:04:05", opts.TimeFormat)
	assert.Equal(t, FormatText, opts.Format)
	assert.False(t, opts.NoColor)
	assert.True(t, opts.ReportTimestamp)
}

// TestNewLogger tests creating a new console logger.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, LevelInfo)
	require.NotNil(t, logger)

	assert.Equal(t, LevelInfo, logger.GetLevel())
}

// TestNewLogger_NilOutput falls back to stderr instead of panicking.
func TestNewLogger_NilOutput(t *testing.T) {
	logger := New(Options{Level: LevelCritical})
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("dropped") })
}

// TestLoggerLevels tests every level method writes at the lowest threshold.
func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, LevelTrace)

	emit := map[string]func(string, ...interface{}){
		"trace message":    logger.Trace,
		"debug message":    logger.Debug,
		"info message":     logger.Info,
		"warn message":     logger.Warn,
		"error message":    logger.Error,
		"critical message": logger.Critical,
	}

	for msg, fn := range emit {
		buf.Reset()
		fn(msg)
		assert.Contains(t, buf.String(), msg)
	}
}

// TestLoggerTraceAndCritical tests the two levels charmbracelet/log lacks
// get their own labels on the console.
func TestLoggerTraceAndCritical(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, LevelTrace)

	logger.Trace("fine detail")
	assert.Contains(t, buf.String(), "TRAC")
	assert.Contains(t, buf.String(), "fine detail")

	buf.Reset()
	logger.Critical("cannot continue", "code", 7)
	assert.Contains(t, buf.String(), "CRIT")
	assert.Contains(t, buf.String(), "cannot continue")
	assert.Contains(t, buf.String(), "code=7")

	buf.Reset()
	logger.SetLevel(LevelCritical)
	logger.Error("below threshold")
	logger.Critical("still shown")
	assert.NotContains(t, buf.String(), "below threshold")
	assert.Contains(t, buf.String(), "still shown")
}

// TestLoggerLevelFiltering tests that messages below the threshold are
// dropped, including errors.
func TestLoggerLevelFiltering(t *testing.T) {
	levels := []Severity{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical}

	for _, threshold := range levels {
		t.Run(threshold.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := newTestConsole(&buf, threshold)

			for _, level := range levels {
				buf.Reset()
				msg := "msg-" + strings.ToLower(level.String())
				logger.Log(level, msg)

				if level >= threshold {
					assert.Contains(t, buf.String(), msg)
				} else {
					assert.Empty(t, buf.String())
				}
			}
		})
	}
}

// TestLoggerKeyValues tests structured logging with key-value pairs.
func TestLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, LevelDebug)

	logger.Info("test message", "key1", "value1", "key2", 42)
	output := buf.String()

	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key1")
	assert.Contains(t, output, "value1")
	assert.Contains(t, output, "key2")
	assert.Contains(t, output, "42")
}

// TestLoggerWithPrefix tests the WithPrefix method.
func TestLoggerWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, LevelInfo)

	logger.WithPrefix("TEST").Info("prefixed message")
	assert.Contains(t, buf.String(), "TEST")
	assert.Contains(t, buf.String(), "prefixed message")
}

// TestLoggerWithFields tests that fields are attached and merged.
func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, LevelInfo)
	fieldLogger := logger.WithFields("component", "test", "version", "1.0")

	fieldLogger.Info("message with fields")
	output := buf.String()
	assert.Contains(t, output, "component")
	assert.Contains(t, output, "1.0")

	buf.Reset()
	fieldLogger.Info("another message", "extra", "data")
	output = buf.String()
	assert.Contains(t, output, "component")
	assert.Contains(t, output, "extra")
	assert.Contains(t, output, "data")
}

// TestLoggerWithFields_DoesNotLeak checks siblings derived from the same
// parent never see each other's fields.
func TestLoggerWithFields_DoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestConsole(&buf, LevelInfo).WithFields("shared", "yes")

	a := parent.WithFields("only", "a")
	b := parent.WithFields("only", "b")

	b.Info("from b")
	assert.NotContains(t, buf.String(), "only=a")

	buf.Reset()
	a.Info("from a")
	assert.NotContains(t, buf.String(), "only=b")
	assert.Contains(t, buf.String(), "shared")
}

// TestLoggerSetLevel tests dynamic level changes.
func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, LevelInfo)

	logger.Debug("should not appear")
	assert.Empty(t, buf.String())

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())

	logger.Debug("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

// TestLoggerJSONFormat tests the JSON console formatter.
func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{
		Level:  LevelInfo,
		Output: &buf,
		Format: FormatJSON,
	})

	logger.Info("json message", "key", "value")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "json message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

// TestLoggerLogfmtFormat tests the logfmt console formatter.
func TestLoggerLogfmtFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{
		Level:  LevelInfo,
		Output: &buf,
		Format: FormatLogfmt,
	})

	logger.Warn("logfmt message", "key", "value")
	assert.Contains(t, buf.String(), "key=value")
	assert.Contains(t, buf.String(), "logfmt message")
}

// TestLoggerConcurrency tests concurrent use of one logger.
func TestLoggerConcurrency(t *testing.T) {
	var buf safeBuffer
	logger := New(Options{Level: LevelDebug, Output: &buf, NoColor: true})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.Info("concurrent", "goroutine", id, "iteration", j)
				if j%10 == 0 {
					logger.SetLevel(LevelDebug)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 500, strings.Count(buf.String(), "concurrent"))
}

// TestNopLogger tests the no-op logger.
func TestNopLogger(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)

	assert.NotPanics(t, func() {
		logger.Trace("t")
		logger.Critical("c")
		logger.Log(LevelError, "e")
		logger.SetLevel(LevelTrace)
	})
	assert.Equal(t, logger, logger.WithPrefix("x"))
	assert.Equal(t, logger, logger.WithFields("k", "v"))
	assert.Equal(t, FallbackLevel, logger.GetLevel())
}

// TestMultiLogger tests fan-out to several loggers with their own thresholds.
func TestMultiLogger(t *testing.T) {
	var low, high bytes.Buffer
	multi := NewMultiLogger(newTestConsole(&low, LevelDebug), newTestConsole(&high, LevelError))

	multi.Debug("debug entry")
	assert.Contains(t, low.String(), "debug entry")
	assert.Empty(t, high.String())

	multi.Error("error entry")
	assert.Contains(t, low.String(), "error entry")
	assert.Contains(t, high.String(), "error entry")

	multi.SetLevel(LevelCritical)
	assert.Equal(t, LevelCritical, multi.GetLevel())

	assert.Equal(t, FallbackLevel, NewMultiLogger().GetLevel())
}

// TestMultiLogger_WithPrefixAndFields tests derived multi loggers.
func TestMultiLogger_WithPrefixAndFields(t *testing.T) {
	var a, b bytes.Buffer
	multi := NewMultiLogger(newTestConsole(&a, LevelInfo), newTestConsole(&b, LevelInfo))

	multi.WithPrefix("PFX").WithFields("k", "v").Info("derived")
	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, "PFX")
		assert.Contains(t, out, "k=v")
		assert.Contains(t, out, "derived")
	}
}

// TestToCharmLevel tests the mapping onto charmbracelet/log levels is
// monotonic.
func TestToCharmLevel(t *testing.T) {
	levels := Severities()
	for i := 1; i < len(levels); i++ {
		assert.LessOrEqual(t, toCharmLevel(levels[i-1]), toCharmLevel(levels[i]))
	}
	assert.Equal(t, charmCritical, toCharmLevel(LevelCritical))
	assert.Equal(t, charmTrace, toCharmLevel(LevelTrace))
}

// safeBuffer is a bytes.Buffer guarded by a mutex.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
