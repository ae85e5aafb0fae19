// ABOUTME: Tests for the bounded clip cache
// ABOUTME: Tests LRU eviction, decode stubbing, and concurrent access
package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/harperreed/keyclack/pkg/audio"
)

// stubDecoder counts decode calls and hands back tiny clips.
type stubDecoder struct {
	calls atomic.Int64
	err   error
}

func (d *stubDecoder) decode(path string) (*audio.Clip, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return &audio.Clip{
		PCM:    []byte(path),
		Format: audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 16},
	}, nil
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		_, err := New(capacity, nil)
		assert.ErrorIs(t, err, ErrInvalidCapacity, "capacity %d", capacity)
	}
}

func TestLoad_EvictsLRU(t *testing.T) {
	for _, capacity := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("capacity-%d", capacity), func(t *testing.T) {
			dec := &stubDecoder{}
			s, err := New(capacity, dec.decode)
			require.NoError(t, err)

			// Load capacity+1 distinct clips in sequence.
			for i := 0; i <= capacity; i++ {
				require.NoError(t, s.Load(fmt.Sprintf("sound-%d.wav", i)))
			}

			assert.Equal(t, capacity, s.Len())

			// The first clip loaded is the least recently used one.
			_, ok := s.Get("sound-0.wav")
			assert.False(t, ok, "oldest entry should have been evicted")

			for i := 1; i <= capacity; i++ {
				_, ok := s.Get(fmt.Sprintf("sound-%d.wav", i))
				assert.True(t, ok, "sound-%d.wav should survive", i)
			}
		})
	}
}

func TestGet_ExtendsLifetime(t *testing.T) {
	dec := &stubDecoder{}
	s, err := New(2, dec.decode)
	require.NoError(t, err)

	require.NoError(t, s.Load("a.wav"))
	require.NoError(t, s.Load("b.wav"))

	// Touching a.wav makes b.wav the eviction candidate.
	_, ok := s.Get("a.wav")
	require.True(t, ok)

	require.NoError(t, s.Load("c.wav"))

	_, ok = s.Get("a.wav")
	assert.True(t, ok, "recently accessed entry should survive")
	_, ok = s.Get("b.wav")
	assert.False(t, ok, "least recently used entry should be evicted")
}

func TestLoad_HitSkipsDecode(t *testing.T) {
	dec := &stubDecoder{}
	s, err := New(4, dec.decode)
	require.NoError(t, err)

	require.NoError(t, s.Load("click.wav"))
	require.NoError(t, s.Load("click.wav"))
	require.NoError(t, s.Load("click.wav"))

	assert.Equal(t, int64(1), dec.calls.Load(), "hits must not re-invoke the decoder")
}

func TestLoad_DecodeError(t *testing.T) {
	wantErr := errors.New("boom")
	dec := &stubDecoder{err: wantErr}
	s, err := New(2, dec.decode)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Load("broken.wav"), wantErr)
	assert.Equal(t, 0, s.Len(), "failed loads must not insert entries")
}

func TestGet_Missing(t *testing.T) {
	s, err := New(2, (&stubDecoder{}).decode)
	require.NoError(t, err)

	_, ok := s.Get("never-loaded.wav")
	assert.False(t, ok)
}

func TestEvictAll(t *testing.T) {
	dec := &stubDecoder{}
	s, err := New(3, dec.decode)
	require.NoError(t, err)

	require.NoError(t, s.Load("a.wav"))
	require.NoError(t, s.Load("b.wav"))

	s.EvictAll()
	assert.Equal(t, 0, s.Len())

	// Idempotent.
	s.EvictAll()
	assert.Equal(t, 0, s.Len())
}

func TestEndToEnd_CapacityTwo(t *testing.T) {
	dec := &stubDecoder{}
	s, err := New(2, dec.decode)
	require.NoError(t, err)

	require.NoError(t, s.Load("click.wav"))
	require.NoError(t, s.Load("clack.wav"))
	require.NoError(t, s.Load("clock.wav"))

	_, ok := s.Get("click.wav")
	assert.False(t, ok)

	clip, ok := s.Get("clack.wav")
	assert.True(t, ok)
	assert.NotEmpty(t, clip.PCM)

	clip, ok = s.Get("clock.wav")
	assert.True(t, ok)
	assert.NotEmpty(t, clip.PCM)
}

// TestConcurrentOps hammers one store from many goroutines with
// randomized interleavings and checks the cache invariants afterwards.
func TestConcurrentOps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(rt, "capacity")
		workers := rapid.IntRange(2, 8).Draw(rt, "workers")
		keyCount := rapid.IntRange(1, 12).Draw(rt, "keys")

		keys := make([]string, keyCount)
		for i := range keys {
			keys[i] = fmt.Sprintf("key-%d.wav", i)
		}

		// Pre-draw each worker's operations; execution interleaving is
		// left to the scheduler.
		type op struct {
			key  string
			load bool
		}
		plans := make([][]op, workers)
		for w := range plans {
			n := rapid.IntRange(1, 32).Draw(rt, fmt.Sprintf("ops-%d", w))
			plans[w] = make([]op, n)
			for i := range plans[w] {
				plans[w][i] = op{
					key:  rapid.SampledFrom(keys).Draw(rt, fmt.Sprintf("key-%d-%d", w, i)),
					load: rapid.Bool().Draw(rt, fmt.Sprintf("load-%d-%d", w, i)),
				}
			}
		}

		dec := &stubDecoder{}
		s, err := New(capacity, dec.decode)
		require.NoError(rt, err)

		var wg sync.WaitGroup
		for _, plan := range plans {
			wg.Add(1)
			go func(plan []op) {
				defer wg.Done()
				for _, o := range plan {
					if o.load {
						_ = s.Load(o.key)
					} else {
						_, _ = s.Get(o.key)
					}
				}
			}(plan)
		}
		wg.Wait()

		if s.Len() > capacity {
			rt.Fatalf("size %d exceeds capacity %d", s.Len(), capacity)
		}

		// Every surviving entry must be one of the keys that was touched,
		// and its clip must be intact.
		for _, k := range keys {
			if clip, ok := s.Get(k); ok {
				if string(clip.PCM) != k {
					rt.Fatalf("entry %q holds clip for %q", k, clip.PCM)
				}
			}
		}
	})
}
