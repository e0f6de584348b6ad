// Package testing provides shared test infrastructure for starter: a
// recording logger, a scriptable level source, log-conf fixtures, and
// assertions on files and recorded log output.
package testing

import (
	"strings"
	"sync"

	"github.com/tungetti/starter/internal/logging"
)

// ============================================================================
// MockLogger - Implements logging.Logger for testing
// ============================================================================

// LogMessage represents a recorded log message.
type LogMessage struct {
	Level   logging.Severity
	Message string
	Fields  []interface{}
}

// Field returns the value recorded for key, if any.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for i := 0; i+1 < len(m.Fields); i += 2 {
		if k, ok := m.Fields[i].(string); ok && k == key {
			return m.Fields[i+1], true
		}
	}
	return nil, false
}

// recording is the storage shared by a MockLogger and everything derived
// from it.
type recording struct {
	mu       sync.Mutex
	messages []LogMessage
	level    logging.Severity
}

// MockLogger implements logging.Logger for testing purposes.
// It records all log messages for later inspection. Loggers derived with
// WithPrefix or WithFields share the parent's recording and level.
type MockLogger struct {
	rec    *recording
	prefix string
	fields []interface{}
}

// NewMockLogger creates a MockLogger that records every level.
func NewMockLogger() *MockLogger {
	return &MockLogger{rec: &recording{level: logging.LevelNotSet}}
}

func (m *MockLogger) Trace(msg string, keyvals ...interface{}) {
	m.Log(logging.LevelTrace, msg, keyvals...)
}

func (m *MockLogger) Debug(msg string, keyvals ...interface{}) {
	m.Log(logging.LevelDebug, msg, keyvals...)
}

func (m *MockLogger) Info(msg string, keyvals ...interface{}) {
	m.Log(logging.LevelInfo, msg, keyvals...)
}

func (m *MockLogger) Warn(msg string, keyvals ...interface{}) {
	m.Log(logging.LevelWarn, msg, keyvals...)
}

func (m *MockLogger) Error(msg string, keyvals ...interface{}) {
	m.Log(logging.LevelError, msg, keyvals...)
}

func (m *MockLogger) Critical(msg string, keyvals ...interface{}) {
	m.Log(logging.LevelCritical, msg, keyvals...)
}

// Log records msg if level passes the current threshold.
func (m *MockLogger) Log(level logging.Severity, msg string, keyvals ...interface{}) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()

	if !level.Enabled(m.rec.level) {
		return
	}

	fields := append([]interface{}{}, m.fields...)
	fields = append(fields, keyvals...)
	if m.prefix != "" {
		msg = m.prefix + ": " + msg
	}

	m.rec.messages = append(m.rec.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

// WithPrefix returns a logger sharing this recording with the given prefix.
func (m *MockLogger) WithPrefix(prefix string) logging.Logger {
	return &MockLogger{rec: m.rec, prefix: prefix, fields: m.fields}
}

// WithFields returns a logger sharing this recording that adds keyvals.
func (m *MockLogger) WithFields(keyvals ...interface{}) logging.Logger {
	fields := make([]interface{}, 0, len(m.fields)+len(keyvals))
	fields = append(fields, m.fields...)
	fields = append(fields, keyvals...)
	return &MockLogger{rec: m.rec, prefix: m.prefix, fields: fields}
}

// SetLevel sets the minimum recorded level.
func (m *MockLogger) SetLevel(level logging.Severity) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.level = level
}

// GetLevel returns the minimum recorded level.
func (m *MockLogger) GetLevel() logging.Severity {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return m.rec.level
}

// Messages returns all recorded log messages in order.
func (m *MockLogger) Messages() []LogMessage {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return append([]LogMessage{}, m.rec.messages...)
}

// MessagesAtLevel returns all messages at a specific level.
func (m *MockLogger) MessagesAtLevel(level logging.Severity) []LogMessage {
	var filtered []LogMessage
	for _, msg := range m.Messages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// Clear removes all recorded messages.
func (m *MockLogger) Clear() {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.messages = nil
}

// ContainsMessage checks if any recorded message contains substring.
func (m *MockLogger) ContainsMessage(substring string) bool {
	return m.IndexOf(substring) >= 0
}

// ContainsMessageAtLevel checks if any message at level contains substring.
func (m *MockLogger) ContainsMessageAtLevel(level logging.Severity, substring string) bool {
	for _, msg := range m.MessagesAtLevel(level) {
		if strings.Contains(msg.Message, substring) {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the first message containing substring,
// or -1.
func (m *MockLogger) IndexOf(substring string) int {
	for i, msg := range m.Messages() {
		if strings.Contains(msg.Message, substring) {
			return i
		}
	}
	return -1
}

// MessageCount returns the total number of recorded messages.
func (m *MockLogger) MessageCount() int {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return len(m.rec.messages)
}

// Ensure MockLogger implements logging.Logger.
var _ logging.Logger = (*MockLogger)(nil)

// ============================================================================
// MockLevelSource - Implements logging.LevelSource for testing
// ============================================================================

// MockLevelSource returns a fixed level or error and counts reads.
type MockLevelSource struct {
	mu    sync.Mutex
	level logging.Severity
	err   error
	reads int
}

// NewMockLevelSource creates a source that returns level.
func NewMockLevelSource(level logging.Severity) *MockLevelSource {
	return &MockLevelSource{level: level}
}

// Read returns the configured level or error.
func (m *MockLevelSource) Read() (logging.Severity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return logging.LevelNotSet, m.err
	}
	return m.level, nil
}

// SetLevel changes the returned level.
func (m *MockLevelSource) SetLevel(level logging.Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

// SetError makes Read fail with err.
func (m *MockLevelSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reads returns how often Read was called.
func (m *MockLevelSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

var _ logging.LevelSource = (*MockLevelSource)(nil)
