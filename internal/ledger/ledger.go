// Package ledger keeps the errors captured during a run. Every capture is
// logged immediately and kept, in order, until ProgramEnd replays all of
// them as a roundup at the end of the run.
package ledger

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/logging"
)

// DefaultMessage is used when Capture is called with an empty message.
const DefaultMessage = "EXCEPTION occurred"

// RaisedPrefix prefixes messages captured by RaiseAndCapture.
const RaisedPrefix = "EXCEPTION raised: "

// Entry is one captured error.
type Entry struct {
	Message string
	Err     error
	Stack   []byte
	Time    time.Time
}

// Ledger is an ordered, append-only list of captured errors. It is safe for
// concurrent use.
type Ledger struct {
	mu      sync.Mutex
	logger  logging.Logger
	entries []Entry
	now     func() time.Time
}

// New creates an empty ledger that reports through logger.
// A nil logger discards output.
func New(logger logging.Logger) *Ledger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ledger{logger: logger, now: time.Now}
}

// SetLogger replaces the logger used for reporting.
func (l *Ledger) SetLogger(logger logging.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if logger == nil {
		logger = logging.NewNop()
	}
	l.logger = logger
}

// Capture records err under msg and logs it at ERROR level right away.
func (l *Ledger) Capture(msg string, err error) {
	l.add(Entry{Message: msg, Err: err})
}

// CaptureWithStack is Capture that also keeps the stack of the caller.
func (l *Ledger) CaptureWithStack(msg string, err error) {
	l.add(Entry{Message: msg, Err: err, Stack: debug.Stack()})
}

// RaiseAndCapture builds a CapturedApplicationError from msg, captures it as
// "EXCEPTION raised: <msg>" and returns it so the caller can abort the
// current operation with it.
func (l *Ledger) RaiseAndCapture(msg string) error {
	err := errors.New(errors.CapturedApplicationError, msg)
	l.add(Entry{Message: RaisedPrefix + msg, Err: err, Stack: debug.Stack()})
	return err
}

// Recover captures a panic and panics again with the same value.
// Use it directly with defer:
//
//	defer led.Recover()
func (l *Ledger) Recover() {
	if r := recover(); r != nil {
		l.add(Entry{Message: RaisedPrefix + fmt.Sprint(r), Err: panicError(r), Stack: debug.Stack()})
		panic(r)
	}
}

// Guard runs fn and captures a panic from it instead of letting it unwind
// further. The panic is returned as a CapturedApplicationError.
func (l *Ledger) Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := panicError(r)
			l.add(Entry{Message: RaisedPrefix + fmt.Sprint(r), Err: perr, Stack: debug.Stack()})
			err = perr
		}
	}()
	return fn()
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return errors.Wrap(errors.CapturedApplicationError, "panic", err)
	}
	return errors.Newf(errors.CapturedApplicationError, "panic: %v", r)
}

func (l *Ledger) add(e Entry) {
	if e.Message == "" {
		e.Message = DefaultMessage
	}

	l.mu.Lock()
	e.Time = l.now()
	l.entries = append(l.entries, e)
	logger := l.logger
	l.mu.Unlock()

	emit(logger, e)
}

// Clear drops all entries.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Entries returns a copy of the entries in capture order.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Captured reports whether err, or an error it wraps, is already the error
// of an entry.
func (l *Ledger) Captured(err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ; err != nil; err = stderrors.Unwrap(err) {
		if !reflect.TypeOf(err).Comparable() {
			continue
		}
		for _, e := range l.entries {
			if e.Err == err {
				return true
			}
		}
	}
	return false
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ProgramEnd logs the closing banner and, if anything was captured, a
// roundup header followed by every entry in capture order.
func (l *Ledger) ProgramEnd() {
	entries := l.Entries()

	l.mu.Lock()
	logger := l.logger
	l.mu.Unlock()

	logger.Warn(fmt.Sprintf("\n%s\n%s\n\nProgram ends..", constants.Separator, constants.Separator))
	if len(entries) == 0 {
		return
	}

	logger.Warn(fmt.Sprintf("Roundup of %d captured errors (ordered by time):", len(entries)))
	for _, e := range entries {
		emit(logger, e)
	}
}

func emit(logger logging.Logger, e Entry) {
	keyvals := []interface{}{"captured_at", e.Time.Format(constants.FileTimeFormat)}
	if e.Err != nil {
		keyvals = append(keyvals, "error", e.Err)
	}
	logger.Error(Block(e.Message, e.Stack), keyvals...)
}

// Block frames msg between double separator lines, followed by stack if
// one was recorded.
func Block(msg string, stack []byte) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(constants.Separator + "\n")
	b.WriteString(constants.Separator + "\n")
	b.WriteString(msg + "\n")
	b.WriteString(constants.Separator + "\n")
	b.WriteString(constants.Separator)
	if len(stack) > 0 {
		b.WriteString("\n")
		b.Write(stack)
	}
	return b.String()
}
