// ABOUTME: Key event types and the input source boundary
// ABOUTME: Defines what the OS hook delivers and how it is consumed
package listener

import "time"

// Kind is the kind of key event reported by the input source.
type Kind int

const (
	KeyDown Kind = iota
	KeyUp
)

// String returns the event kind as logged.
func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	default:
		return "unknown"
	}
}

// KeyEvent is a single key transition delivered by the input source.
type KeyEvent struct {
	Key  string // printable key identity, e.g. "a" or "enter"
	Kind Kind
	Time time.Time
}

// Callback handles one key event. Callbacks run synchronously on the
// delivery goroutine, so anything slow must offload its own work.
type Callback func(ev KeyEvent)

// Source is the external input hook boundary. Subscribe attaches to the
// OS-level hook and returns its event stream; the channel closes when
// the subscription ends, normally or not. Unsubscribe detaches and is
// safe to call more than once.
type Source interface {
	Subscribe() (<-chan KeyEvent, error)
	Unsubscribe() error
}
