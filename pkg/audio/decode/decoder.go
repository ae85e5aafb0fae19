// ABOUTME: Decoder entry point and error taxonomy
// ABOUTME: Dispatches sound files to the right codec by extension
package decode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/keyclack/pkg/audio"
)

// Common errors for sound decoding.
var (
	ErrSourceUnreadable  = errors.New("sound file missing or unreadable")
	ErrUnsupportedFormat = errors.New("unsupported sound file format")
	ErrMalformed         = errors.New("malformed audio payload")
)

// File reads and decodes a sound file into a playable clip.
// The codec is chosen by file extension: .wav, .mp3 or .flac.
// All codecs emit signed 16-bit little-endian PCM.
func File(path string) (*audio.Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return WAV(f)
	case ".mp3":
		return MP3(f)
	case ".flac":
		return FLAC(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
