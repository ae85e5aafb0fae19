// ABOUTME: Plain-text append log of key events
// ABOUTME: One timestamped line per key-down, flushed as it happens
package keylog

import (
	"fmt"
	"os"
	"sync"

	"github.com/harperreed/keyclack/internal/listener"
)

// Log appends key events to a plain-text file, one line per event:
//
//	<RFC3339 timestamp> <key> <kind>
type Log struct {
	mu     sync.Mutex
	f      *os.File
	closed bool
}

// Open opens (or creates) the log file for appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening key log: %w", err)
	}
	return &Log{f: f}, nil
}

// Append writes one event line. Safe for concurrent use.
func (l *Log) Append(ev listener.KeyEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("key log closed")
	}
	_, err := fmt.Fprintf(l.f, "%s %s %s\n",
		ev.Time.Format("2006-01-02T15:04:05.000Z07:00"), ev.Key, ev.Kind)
	if err != nil {
		return fmt.Errorf("appending key log: %w", err)
	}
	return nil
}

// Close flushes and closes the file. Idempotent.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.f.Close()
}
