// ABOUTME: Audio output device using the oto library
// ABOUTME: Blocking PCM writes against a lazily opened oto context
package player

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/harperreed/keyclack/pkg/audio"
)

// Device accepts decoded PCM and produces sound. Write blocks until the
// device has consumed the buffer. Implementations must tolerate
// concurrent Write calls.
type Device interface {
	Write(pcm []byte, format audio.Format) error
	Close() error
}

// otoDevice drives the default system output through oto. The oto
// context is process-wide and fixed to the format of the first clip
// written; later clips with a different rate or channel count are
// rejected with ErrFormatUnsupported. oto mixes concurrent players, so
// overlapping writes simply overlap audibly.
type otoDevice struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format audio.Format
}

func newOtoDevice() *otoDevice {
	return &otoDevice{}
}

func (d *otoDevice) Write(pcm []byte, format audio.Format) error {
	if format.BitDepth != 16 {
		return fmt.Errorf("%w: %d-bit samples", ErrFormatUnsupported, format.BitDepth)
	}

	ctx, err := d.context(format)
	if err != nil {
		return err
	}

	p := ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	for p.IsPlaying() {
		time.Sleep(2 * time.Millisecond)
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	return nil
}

// context returns the shared oto context, opening it on first use.
func (d *otoDevice) context(format audio.Format) (*oto.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		<-readyChan
		d.ctx = ctx
		d.format = format
	}

	if format.SampleRate != d.format.SampleRate || format.Channels != d.format.Channels {
		return nil, fmt.Errorf("%w: device opened at %dHz/%dch, clip is %dHz/%dch",
			ErrFormatUnsupported,
			d.format.SampleRate, d.format.Channels,
			format.SampleRate, format.Channels)
	}
	return d.ctx, nil
}

func (d *otoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx != nil {
		// oto contexts cannot be torn down; suspend is the supported way
		// to release the device.
		if err := d.ctx.Suspend(); err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		d.ctx = nil
	}
	return nil
}
