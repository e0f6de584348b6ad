package testing

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// ============================================================================
// Output Helpers
// ============================================================================

// SyncBuffer is a bytes.Buffer that is safe for concurrent writers, for use
// as a console sink in tests.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p.
func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the buffered content.
func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset empties the buffer.
func (b *SyncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// ============================================================================
// Environment Variable Helpers
// ============================================================================

// SetEnvs sets several environment variables for the duration of the test.
func SetEnvs(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

// UnsetEnv unsets an environment variable for the duration of the test.
func UnsetEnv(t *testing.T, key string) {
	t.Helper()

	// t.Setenv registers the restore; Unsetenv then removes the variable.
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env var %s: %v", key, err)
	}
}

// IsolateXDG points the XDG base directories into a temporary directory so
// default config and state paths never touch the real home directory.
func IsolateXDG(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, ".local", "state"))
	return root
}

// ============================================================================
// Time Helpers
// ============================================================================

// MockTime provides a controllable clock for tests.
type MockTime struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockTime creates a clock frozen at t.
func NewMockTime(t time.Time) *MockTime {
	return &MockTime{now: t}
}

// Now returns the current mock time.
func (m *MockTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
