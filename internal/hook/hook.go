// ABOUTME: OS-global keyboard hook backed by gohook
// ABOUTME: Adapts raw hook events to the listener's Source interface
package hook

import (
	"fmt"
	"sync"
	"time"
	"unicode"

	gohook "github.com/robotn/gohook"

	"github.com/harperreed/keyclack/internal/listener"
)

// Hook is a listener.Source over the system-wide keyboard hook. Only
// one subscription can be active at a time, mirroring the underlying
// process-wide hook.
type Hook struct {
	mu     sync.Mutex
	active bool
}

// New creates an unsubscribed hook.
func New() *Hook {
	return &Hook{}
}

// Subscribe attaches the global hook and returns its key event stream.
// The channel closes when the hook ends.
func (h *Hook) Subscribe() (<-chan listener.KeyEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active {
		return nil, fmt.Errorf("keyboard hook already subscribed")
	}

	raw := gohook.Start()
	out := make(chan listener.KeyEvent, 64)
	h.active = true

	go translate(raw, out)
	return out, nil
}

// Unsubscribe detaches the global hook. Safe to call repeatedly.
func (h *Hook) Unsubscribe() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.active {
		return nil
	}
	gohook.End()
	h.active = false
	return nil
}

// translate converts raw hook events into key events. Key repeats
// count as key-downs, like the original press events they are.
func translate(raw chan gohook.Event, out chan<- listener.KeyEvent) {
	defer close(out)

	for ev := range raw {
		var kind listener.Kind
		switch ev.Kind {
		case gohook.KeyDown, gohook.KeyHold:
			kind = listener.KeyDown
		case gohook.KeyUp:
			kind = listener.KeyUp
		default:
			continue
		}

		ke := listener.KeyEvent{
			Key:  keyName(ev),
			Kind: kind,
			Time: time.Now(),
		}
		// Drop rather than block if the consumer has fallen behind;
		// keystroke sounds are best-effort.
		select {
		case out <- ke:
		default:
		}
	}
}

// keyName derives a printable key identity from a raw event.
func keyName(ev gohook.Event) string {
	switch {
	case ev.Keychar == ' ':
		return "space"
	case unicode.IsGraphic(ev.Keychar):
		return string(ev.Keychar)
	default:
		return fmt.Sprintf("key-%d", ev.Rawcode)
	}
}
