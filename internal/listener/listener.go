// ABOUTME: Background key event listener
// ABOUTME: Owns the hook subscription, filters key-downs, drives dispatch
package listener

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// Listener lifecycle errors.
var (
	ErrAlreadyRunning = errors.New("listener already running")
	ErrSubscribe      = errors.New("input hook subscription failed")
)

// EventSink receives every key-down that passes the filter, before
// dispatch. Sink failures are logged and never block dispatch.
type EventSink interface {
	Append(ev KeyEvent) error
}

// Listener subscribes to an input Source on a background goroutine,
// filters events down to key-downs, and routes them through its
// Registry one at a time, in arrival order.
type Listener struct {
	source   Source
	registry *Registry
	sink     EventSink

	mu      sync.RWMutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a stopped listener. sink may be nil to disable key logging.
func New(source Source, sink EventSink) *Listener {
	return &Listener{
		source:   source,
		registry: NewRegistry(),
		sink:     sink,
	}
}

// AddCallback registers cb for key-down events.
func (l *Listener) AddCallback(cb Callback) Handle {
	return l.registry.Register(cb)
}

// RemoveCallback unregisters a callback by its handle.
func (l *Listener) RemoveCallback(h Handle) bool {
	return l.registry.Remove(h)
}

// Start subscribes to the input source and begins delivering events.
// Starting a running listener returns ErrAlreadyRunning. A failed
// subscription leaves the listener stopped.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrAlreadyRunning
	}

	events, err := l.source.Subscribe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubscribe, err)
	}

	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	l.running = true

	go l.run(events, l.stop, l.done)
	return nil
}

// Stop unsubscribes from the source and joins the delivery goroutine.
// Stopping a stopped listener is a no-op. In-flight playback started by
// callbacks is deliberately left to finish on its own.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = false
	stop, done := l.stop, l.done
	l.mu.Unlock()

	if err := l.source.Unsubscribe(); err != nil {
		log.Printf("hook unsubscribe: %v", err)
	}
	close(stop)
	<-done
	return nil
}

// IsRunning reports whether the listener is delivering events.
func (l *Listener) IsRunning() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.running
}

// run is the delivery loop. It owns no locks while dispatching, so
// handler execution time only delays the next event, never state
// queries or Stop.
func (l *Listener) run(events <-chan KeyEvent, stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// The hook ended on its own; fall back to stopped.
				l.mu.Lock()
				l.running = false
				l.mu.Unlock()
				log.Printf("input hook terminated, listener stopped")
				return
			}
			if ev.Kind != KeyDown {
				continue
			}
			if l.sink != nil {
				if err := l.sink.Append(ev); err != nil {
					log.Printf("key log append: %v", err)
				}
			}
			l.registry.Dispatch(ev)

		case <-stop:
			return
		}
	}
}
