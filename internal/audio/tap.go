// Package audio provides the playback clock and live frequency-analysis tap
// the animator samples every frame. Device output happens in the renderer
// client; this side only tracks what is playing and what it sounds like.
package audio

import "errors"

var (
	ErrEmptyClip     = errors.New("audio: empty clip")
	ErrInvalidFormat = errors.New("audio: invalid or unsupported format")
)

// SpectrumBins is the fixed length of every magnitude frame.
const SpectrumBins = 128

// Tap exposes the current playback state to the per-frame tick. Both calls
// are non-blocking snapshots.
type Tap interface {
	// Playing reports whether a clip is currently audible.
	Playing() bool

	// Magnitudes returns the current frequency magnitudes (0-255 per bin,
	// SpectrumBins long), or nil when nothing is playing.
	Magnitudes() []byte
}

// Silence is a Tap with no audio source: never playing, no spectrum. Used
// when playback setup failed, which the animator treats as a steady state
// rather than an error.
type Silence struct{}

func (Silence) Playing() bool      { return false }
func (Silence) Magnitudes() []byte { return nil }
