package testing

import (
	"os"
	"strings"
	"testing"

	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/logging"
)

// ============================================================================
// Error Assertions
// ============================================================================

// AssertErrorCode checks if an error has a specific error code.
func AssertErrorCode(t testing.TB, err error, expectedCode errors.Code) {
	t.Helper()

	if err == nil {
		t.Errorf("expected error with code %s, but got nil", expectedCode)
		return
	}

	actualCode := errors.GetCode(err)
	if actualCode != expectedCode {
		t.Errorf("expected error code %s, but got %s (error: %v)", expectedCode, actualCode, err)
	}
}

// AssertErrorContains checks if error message contains a substring.
func AssertErrorContains(t testing.TB, err error, substring string) {
	t.Helper()

	if err == nil {
		t.Errorf("expected error containing %q, but got nil", substring)
		return
	}

	if !strings.Contains(err.Error(), substring) {
		t.Errorf("expected error to contain %q, but got: %v", substring, err)
	}
}

// ============================================================================
// Logger Assertions
// ============================================================================

func messageTexts(logger *MockLogger) []string {
	var msgs []string
	for _, m := range logger.Messages() {
		msgs = append(msgs, m.Message)
	}
	return msgs
}

// AssertLogContains checks if the mock logger contains a message.
func AssertLogContains(t testing.TB, logger *MockLogger, substring string) {
	t.Helper()

	if !logger.ContainsMessage(substring) {
		t.Errorf("expected log to contain %q, but it doesn't (messages: %v)", substring, messageTexts(logger))
	}
}

// AssertLogNotContains checks if the mock logger does NOT contain a message.
func AssertLogNotContains(t testing.TB, logger *MockLogger, substring string) {
	t.Helper()

	if logger.ContainsMessage(substring) {
		t.Errorf("expected log to NOT contain %q, but it does", substring)
	}
}

// AssertLogLevel checks if a message was logged at a specific level.
func AssertLogLevel(t testing.TB, logger *MockLogger, level logging.Severity, substring string) {
	t.Helper()

	if !logger.ContainsMessageAtLevel(level, substring) {
		t.Errorf("expected log at level %s to contain %q, but it doesn't (messages: %v)",
			level, substring, messageTexts(logger))
	}
}

// AssertLogOrder checks that messages containing each substring were logged
// in the given order.
func AssertLogOrder(t testing.TB, logger *MockLogger, substrings ...string) {
	t.Helper()

	msgs := messageTexts(logger)
	pos := 0
	for _, sub := range substrings {
		found := false
		for pos < len(msgs) {
			if strings.Contains(msgs[pos], sub) {
				found = true
				pos++
				break
			}
			pos++
		}
		if !found {
			t.Errorf("expected %q in log order %v, messages: %v", sub, substrings, msgs)
			return
		}
	}
}

// AssertLogEmpty checks if the mock logger has no messages.
func AssertLogEmpty(t testing.TB, logger *MockLogger) {
	t.Helper()

	if n := logger.MessageCount(); n > 0 {
		t.Errorf("expected log to be empty, but it has %d messages: %v", n, messageTexts(logger))
	}
}

// AssertLogCount checks the number of log messages.
func AssertLogCount(t testing.TB, logger *MockLogger, expected int) {
	t.Helper()

	actual := logger.MessageCount()
	if actual != expected {
		t.Errorf("expected %d log messages, got %d", expected, actual)
	}
}

// ============================================================================
// File System Assertions
// ============================================================================

// AssertFileContains checks if a file contains a substring.
func AssertFileContains(t testing.TB, path, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read file %q: %v", path, err)
		return
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("expected file %q to contain %q, but it doesn't", path, substring)
	}
}

// AssertFileNotContains checks if a file does NOT contain a substring.
func AssertFileNotContains(t testing.TB, path, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read file %q: %v", path, err)
		return
	}

	if strings.Contains(string(content), substring) {
		t.Errorf("expected file %q to NOT contain %q, but it does", path, substring)
	}
}

// AssertFileEquals checks if a file has exact content.
func AssertFileEquals(t testing.TB, path, expected string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read file %q: %v", path, err)
		return
	}

	if string(content) != expected {
		t.Errorf("file %q content mismatch:\nexpected:\n%s\ngot:\n%s", path, expected, string(content))
	}
}

// AssertFileEmpty checks if a file exists and has no content.
func AssertFileEmpty(t testing.TB, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("failed to stat file %q: %v", path, err)
		return
	}
	if info.Size() != 0 {
		t.Errorf("expected file %q to be empty, but it has %d bytes", path, info.Size())
	}
}

// AssertBackupCount checks how many numbered backups of a log file exist.
func AssertBackupCount(t testing.TB, path string, expected int) {
	t.Helper()

	actual := 0
	for n := 1; ; n++ {
		if _, err := os.Stat(logging.BackupName(path, n)); err != nil {
			break
		}
		actual++
	}
	if actual != expected {
		t.Errorf("expected %d backups of %q, found %d", expected, path, actual)
	}
}
