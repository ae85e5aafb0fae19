// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE files to 16-bit PCM clips
package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/harperreed/keyclack/pkg/audio"
)

// WAV decodes a RIFF/WAVE stream to a 16-bit PCM clip.
// 8-, 16- and 24-bit integer PCM payloads are supported; other sample
// widths are rejected.
func WAV(r io.ReadSeeker) (*audio.Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrMalformed)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	samples := make([]int16, len(buf.Data))
	switch d.BitDepth {
	case 8:
		// 8-bit WAV is unsigned, centered at 128
		for i, v := range buf.Data {
			samples[i] = int16(v-128) << 8
		}
	case 16:
		for i, v := range buf.Data {
			samples[i] = audio.ClampToInt16(v)
		}
	case 24:
		for i, v := range buf.Data {
			samples[i] = audio.ClampToInt16(v >> 8)
		}
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, d.BitDepth)
	}

	return &audio.Clip{
		PCM: audio.SamplesToPCM(samples),
		Format: audio.Format{
			SampleRate: int(d.SampleRate),
			Channels:   int(d.NumChans),
			BitDepth:   16,
		},
	}, nil
}
