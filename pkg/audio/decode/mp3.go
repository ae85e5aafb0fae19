// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 streams to 16-bit PCM clips
package decode

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/harperreed/keyclack/pkg/audio"
)

// MP3 decodes an MP3 stream to a 16-bit PCM clip.
// go-mp3 always emits interleaved 16-bit stereo at the stream's rate.
func MP3(r io.Reader) (*audio.Clip, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &audio.Clip{
		PCM: pcm,
		Format: audio.Format{
			SampleRate: d.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}
