// ABOUTME: Tests for audio types
// ABOUTME: Tests clip duration math and sample byte conversions
package audio

import (
	"testing"
	"time"
)

func TestClipDuration(t *testing.T) {
	tests := []struct {
		name     string
		clip     Clip
		expected time.Duration
	}{
		{
			name: "one second mono 16-bit",
			clip: Clip{
				PCM:    make([]byte, 44100*2),
				Format: Format{SampleRate: 44100, Channels: 1, BitDepth: 16},
			},
			expected: time.Second,
		},
		{
			name: "half second stereo 16-bit",
			clip: Clip{
				PCM:    make([]byte, 48000*2*2/2),
				Format: Format{SampleRate: 48000, Channels: 2, BitDepth: 16},
			},
			expected: 500 * time.Millisecond,
		},
		{
			name:     "zero format",
			clip:     Clip{PCM: make([]byte, 100)},
			expected: 0,
		},
	}

	for _, tt := range tests {
		if got := tt.clip.Duration(); got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestSampleRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345}

	buf := make([]byte, 2)
	for _, s := range samples {
		SampleToBytes(s, buf)
		if got := SampleFromBytes(buf); got != s {
			t.Errorf("sample %d round-tripped to %d", s, got)
		}
	}
}

func TestSamplesToPCM(t *testing.T) {
	pcm := SamplesToPCM([]int16{256, -256})

	if len(pcm) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(pcm))
	}
	if SampleFromBytes(pcm[0:]) != 256 || SampleFromBytes(pcm[2:]) != -256 {
		t.Errorf("unexpected packed samples: %v", pcm)
	}
}

func TestClampToInt16(t *testing.T) {
	tests := []struct {
		in       int
		expected int16
	}{
		{0, 0},
		{32768, 32767},
		{-40000, -32768},
		{-5, -5},
	}

	for _, tt := range tests {
		if got := ClampToInt16(tt.in); got != tt.expected {
			t.Errorf("ClampToInt16(%d): expected %d, got %d", tt.in, tt.expected, got)
		}
	}
}
