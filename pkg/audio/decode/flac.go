// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC streams to 16-bit PCM clips
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/harperreed/keyclack/pkg/audio"
)

// FLAC decodes a FLAC stream to a 16-bit PCM clip.
// Samples wider than 16 bits are shifted down; narrower ones are
// shifted up, so the output is always signed 16-bit.
func FLAC(r io.Reader) (*audio.Clip, error) {
	stream, err := flac.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	shift := int(stream.Info.BitsPerSample) - 16

	var samples []int16
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		// Subframes are per-channel; interleave them.
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				s := frame.Subframes[ch].Samples[i]
				if shift > 0 {
					s >>= shift
				} else if shift < 0 {
					s <<= -shift
				}
				samples = append(samples, audio.ClampToInt16(int(s)))
			}
		}
	}

	return &audio.Clip{
		PCM: audio.SamplesToPCM(samples),
		Format: audio.Format{
			SampleRate: int(stream.Info.SampleRate),
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}
