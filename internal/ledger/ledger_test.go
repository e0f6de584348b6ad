package ledger

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/logging"
	testutil "github.com/tungetti/starter/internal/testing"
)

func newTestLedger() (*Ledger, *testutil.MockLogger) {
	logger := testutil.NewMockLogger()
	return New(logger), logger
}

func TestCapture_LogsImmediately(t *testing.T) {
	led, logger := newTestLedger()
	cause := stderrors.New("disk full")

	led.Capture("saving failed", cause)

	require.Equal(t, 1, led.Len())
	msgs := logger.MessagesAtLevel(logging.LevelError)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Message, "saving failed")
	assert.Contains(t, msgs[0].Message, constants.Separator)

	got, ok := msgs[0].Field("error")
	require.True(t, ok)
	assert.Equal(t, cause, got)
}

func TestCapture_DefaultMessage(t *testing.T) {
	led, _ := newTestLedger()

	led.Capture("", stderrors.New("x"))
	assert.Equal(t, DefaultMessage, led.Entries()[0].Message)
}

func TestCapture_Order(t *testing.T) {
	led, _ := newTestLedger()
	clock := testutil.NewMockTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	led.now = func() time.Time {
		clock.Advance(time.Second)
		return clock.Now()
	}

	for i := 1; i <= 3; i++ {
		led.Capture(fmt.Sprintf("m%d", i), fmt.Errorf("e%d", i))
	}

	entries := led.Entries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("m%d", i+1), e.Message)
		assert.EqualError(t, e.Err, fmt.Sprintf("e%d", i+1))
		if i > 0 {
			assert.True(t, e.Time.After(entries[i-1].Time))
		}
	}
}

func TestCaptureWithStack(t *testing.T) {
	led, logger := newTestLedger()

	led.CaptureWithStack("with stack", stderrors.New("x"))

	entries := led.Entries()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Stack)
	assert.Contains(t, string(entries[0].Stack), "goroutine")
	testutil.AssertLogContains(t, logger, "goroutine")
}

func TestRaiseAndCapture(t *testing.T) {
	led, logger := newTestLedger()

	err := led.RaiseAndCapture("config missing")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CapturedApplicationError))
	assert.ErrorIs(t, err, errors.ErrCaptured)
	assert.Equal(t, "config missing", err.Error())

	entries := led.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "EXCEPTION raised: config missing", entries[0].Message)
	assert.Same(t, err, entries[0].Err)
	testutil.AssertLogLevel(t, logger, logging.LevelError, "EXCEPTION raised: config missing")
}

func TestRecover_CapturesAndRepanics(t *testing.T) {
	led, _ := newTestLedger()

	assert.PanicsWithValue(t, "boom", func() {
		defer led.Recover()
		panic("boom")
	})

	entries := led.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "EXCEPTION raised: boom", entries[0].Message)
	assert.True(t, errors.IsCode(entries[0].Err, errors.CapturedApplicationError))
}

func TestRecover_NoPanic(t *testing.T) {
	led, _ := newTestLedger()

	assert.NotPanics(t, func() {
		defer led.Recover()
	})
	assert.Zero(t, led.Len())
}

func TestGuard(t *testing.T) {
	led, _ := newTestLedger()

	err := led.Guard(func() error { panic(stderrors.New("kaput")) })
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CapturedApplicationError))
	assert.Contains(t, err.Error(), "kaput")
	assert.Equal(t, 1, led.Len())

	sentinel := stderrors.New("plain")
	err = led.Guard(func() error { return sentinel })
	assert.Same(t, sentinel, err)
	assert.Equal(t, 1, led.Len(), "returned errors are not captured")

	assert.NoError(t, led.Guard(func() error { return nil }))
}

func TestClear(t *testing.T) {
	led, _ := newTestLedger()
	led.Capture("a", nil)
	led.Capture("b", nil)

	led.Clear()
	assert.Zero(t, led.Len())
	assert.Empty(t, led.Entries())
}

type listError []string

func (e listError) Error() string { return strings.Join(e, "; ") }

func TestCaptured(t *testing.T) {
	led, _ := newTestLedger()
	kept := errors.New(errors.Unknown, "kept")
	led.Capture("stored", kept)
	led.Capture("no error", nil)

	assert.True(t, led.Captured(kept))
	assert.True(t, led.Captured(fmt.Errorf("while saving: %w", kept)))
	// Same code and message, but a different error.
	assert.False(t, led.Captured(errors.New(errors.Unknown, "kept")))
	assert.False(t, led.Captured(nil))
	assert.NotPanics(t, func() {
		assert.False(t, led.Captured(listError{"a", "b"}))
	})
}

func TestEntries_ReturnsCopy(t *testing.T) {
	led, _ := newTestLedger()
	led.Capture("original", nil)

	entries := led.Entries()
	entries[0].Message = "changed"

	assert.Equal(t, "original", led.Entries()[0].Message)
}

func TestProgramEnd_Empty(t *testing.T) {
	led, logger := newTestLedger()

	led.ProgramEnd()

	msgs := logger.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, logging.LevelWarn, msgs[0].Level)
	assert.True(t, strings.HasSuffix(msgs[0].Message, "Program ends.."))
	testutil.AssertLogNotContains(t, logger, "Roundup")
}

// The roundup replays entries in capture order after the closing banner.
func TestProgramEnd_RoundupOrder(t *testing.T) {
	led, logger := newTestLedger()
	led.Capture("m1", stderrors.New("e1"))
	led.Capture("m2", stderrors.New("e2"))
	led.Capture("m3", stderrors.New("e3"))
	logger.Clear()

	led.ProgramEnd()

	msgs := logger.Messages()
	require.Len(t, msgs, 5)
	assert.Contains(t, msgs[0].Message, "Program ends..")
	assert.Equal(t, logging.LevelWarn, msgs[1].Level)
	assert.Equal(t, "Roundup of 3 captured errors (ordered by time):", msgs[1].Message)
	for i, want := range []string{"m1", "m2", "m3"} {
		assert.Equal(t, logging.LevelError, msgs[i+2].Level)
		assert.Contains(t, msgs[i+2].Message, want)
	}
	testutil.AssertLogOrder(t, logger, "Program ends..", "Roundup", "m1", "m2", "m3")

	assert.Equal(t, 3, led.Len(), "ProgramEnd keeps the entries")
}

func TestSetLogger(t *testing.T) {
	led := New(nil)
	led.Capture("before", nil)

	logger := testutil.NewMockLogger()
	led.SetLogger(logger)
	led.ProgramEnd()

	testutil.AssertLogContains(t, logger, "before")
	assert.NotPanics(t, func() { led.SetLogger(nil); led.ProgramEnd() })
}

func TestLedger_Concurrent(t *testing.T) {
	led, _ := newTestLedger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				led.Capture(fmt.Sprintf("g%d-%d", id, j), nil)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 200, led.Len())
}

func TestBlock(t *testing.T) {
	block := Block("msg", nil)
	lines := strings.Split(block, "\n")

	require.Len(t, lines, 6)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, constants.Separator, lines[1])
	assert.Equal(t, "msg", lines[3])
	assert.Equal(t, constants.Separator, lines[5])

	assert.True(t, strings.HasSuffix(Block("msg", []byte("trace")), "\ntrace"))
}
