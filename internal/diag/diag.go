// Package diag holds the diagnostics sink shared by targeting strategies and
// the benchmark harness: a bounded FIFO of records, a debug switch and a
// guard-tripped flag. A nil *Log is a valid, disabled sink.
package diag

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

const DefaultMaxEntries = 1000

// GuardPrefix marks records produced by a guard trip.
const GuardPrefix = "*** GUARD TRIPPED *** "

type Log struct {
	mu      sync.Mutex
	entries []string
	max     int

	debug   atomic.Bool
	tripped atomic.Bool

	// Echo receives debug records when debug is enabled; nil disables echo.
	Echo *log.Logger
}

func New(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{max: maxEntries, entries: make([]string, 0, 64)}
}

func (l *Log) SetDebug(on bool) {
	if l == nil {
		return
	}
	l.debug.Store(on)
}

func (l *Log) DebugEnabled() bool { return l != nil && l.debug.Load() }

// Debugf records a decision trace line. It is kept only while debug is on.
func (l *Log) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.append(msg)
	if l.Echo != nil {
		l.Echo.Printf("[DEBUG] %s", msg)
	}
}

// Guardf records an anomalous targeting decision and trips the guard flag.
func (l *Log) Guardf(format string, args ...any) {
	if l == nil {
		return
	}
	msg := GuardPrefix + fmt.Sprintf(format, args...)
	l.tripped.Store(true)
	l.append(msg)
	if l.Echo != nil && l.DebugEnabled() {
		l.Echo.Printf("[DEBUG] %s", msg)
	}
}

// Recordf keeps a line regardless of the debug switch.
func (l *Log) Recordf(format string, args ...any) {
	if l == nil {
		return
	}
	l.append(fmt.Sprintf(format, args...))
}

func (l *Log) append(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.max <= 0 {
		l.max = DefaultMaxEntries
	}
	l.entries = append(l.entries, msg)
	if over := len(l.entries) - l.max; over > 0 {
		n := copy(l.entries, l.entries[over:])
		l.entries = l.entries[:n]
	}
}

func (l *Log) Tripped() bool { return l != nil && l.tripped.Load() }

// Reset clears the guard flag and every retained record.
func (l *Log) Reset() {
	if l == nil {
		return
	}
	l.tripped.Store(false)
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()
}

// Entries returns a copy of the retained records, oldest first.
func (l *Log) Entries() []string {
	return l.Tail(-1)
}

// Tail returns up to n of the newest records; n < 0 returns all of them.
func (l *Log) Tail(n int) []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	start := 0
	if n >= 0 && len(l.entries) > n {
		start = len(l.entries) - n
	}
	out := make([]string, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
