// ABOUTME: Audio type definitions
// ABOUTME: Defines sample formats and decoded clips
package audio

import (
	"encoding/binary"
	"time"
)

// Format describes the sample layout of decoded PCM audio.
type Format struct {
	SampleRate int // samples per second per channel
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // bits per sample; decoders always emit 16
}

// Clip is a fully decoded sound, ready for device playback.
// PCM holds signed 16-bit little-endian samples, interleaved by channel.
// A Clip is never mutated after construction.
type Clip struct {
	PCM    []byte
	Format Format
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	bytesPerSecond := c.Format.SampleRate * c.Format.Channels * c.Format.BitDepth / 8
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(len(c.PCM)) * time.Second / time.Duration(bytesPerSecond)
}

// SampleToBytes writes an int16 sample as little-endian bytes.
func SampleToBytes(sample int16, dst []byte) {
	binary.LittleEndian.PutUint16(dst, uint16(sample))
}

// SampleFromBytes reads an int16 sample from little-endian bytes.
func SampleFromBytes(src []byte) int16 {
	return int16(binary.LittleEndian.Uint16(src))
}

// SamplesToPCM packs int16 samples into a little-endian byte buffer.
func SamplesToPCM(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		SampleToBytes(s, out[i*2:])
	}
	return out
}

// ClampToInt16 narrows a widened sample to the int16 range.
func ClampToInt16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
