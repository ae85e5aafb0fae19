// ABOUTME: Playback engine for decoded sound clips
// ABOUTME: Blocking and fire-and-forget playback plus key-bound handlers
package player

import (
	"errors"
	"log"
	"sync"

	"github.com/harperreed/keyclack/internal/listener"
	"github.com/harperreed/keyclack/internal/store"
	"github.com/harperreed/keyclack/pkg/audio"
)

// Playback errors.
var (
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	ErrFormatUnsupported = errors.New("sample format not supported by device")
	ErrEngineClosed      = errors.New("playback engine closed")
)

// Engine wraps an output Device. Its lock guards only engine state and
// is never the store's lock, so a slow device write cannot stall cache
// lookups.
type Engine struct {
	mu     sync.RWMutex
	device Device
	closed bool
}

// NewEngine creates an engine bound to the default system output.
func NewEngine() *Engine {
	return NewEngineWith(newOtoDevice())
}

// NewEngineWith creates an engine on an explicit device. Tests use this
// with fakes.
func NewEngineWith(device Device) *Engine {
	return &Engine{device: device}
}

// PlaySync writes the clip to the device and blocks until it has been
// consumed.
func (e *Engine) PlaySync(clip *audio.Clip) error {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrEngineClosed
	}
	device := e.device
	e.mu.RUnlock()

	return device.Write(clip.PCM, clip.Format)
}

// PlayAsync plays the clip on a detached goroutine and returns
// immediately. Concurrent plays overlap; the engine does not queue or
// serialize them. Failures are logged, never returned — the log is the
// error sink for detached playback.
func (e *Engine) PlayAsync(clip *audio.Clip) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("playback panic: %v", r)
			}
		}()
		if err := e.PlaySync(clip); err != nil {
			log.Printf("async playback: %v", err)
		}
	}()
}

// BindKey returns a callback that plays the clip at path on every
// event it receives. The clip is fetched from st, loading it on a
// miss. All failures are logged and swallowed so they can never leak
// into the event-delivery path.
func (e *Engine) BindKey(st *store.Store, path string) listener.Callback {
	return func(ev listener.KeyEvent) {
		clip, ok := st.Get(path)
		if !ok {
			if err := st.Load(path); err != nil {
				log.Printf("loading %s for key %q: %v", path, ev.Key, err)
				return
			}
			if clip, ok = st.Get(path); !ok {
				// Evicted between Load and Get under heavy contention.
				log.Printf("clip %s evicted before playback", path)
				return
			}
		}
		e.PlayAsync(clip)
	}
}

// Close releases the output device. Idempotent; afterwards PlaySync
// and PlayAsync fail with ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	return e.device.Close()
}
