package audio

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Player is the playback clock behind the animator's audio tap. Play starts
// a wall-clock cursor over a decoded clip; Playing and Magnitudes are
// snapshot reads against that cursor. The audible output itself is produced
// by the renderer client from the same clip bytes.
type Player struct {
	mu      sync.RWMutex
	clip    *Clip
	started time.Time
	logger  zerolog.Logger

	now func() time.Time // injectable clock for tests
}

// NewPlayer returns a stopped player.
func NewPlayer(logger zerolog.Logger) *Player {
	return &Player{
		logger: logger.With().Str("component", "audio").Logger(),
		now:    time.Now,
	}
}

// Play starts the playback clock over the clip, replacing any clip that is
// still playing.
func (p *Player) Play(clip *Clip) error {
	if clip == nil || len(clip.Samples) == 0 {
		return ErrEmptyClip
	}

	p.mu.Lock()
	p.clip = clip
	p.started = p.now()
	p.mu.Unlock()

	p.logger.Debug().
		Dur("duration", clip.Duration()).
		Int("sample_rate", clip.SampleRate).
		Msg("playback started")
	return nil
}

// Stop ends playback immediately.
func (p *Player) Stop() {
	p.mu.Lock()
	p.clip = nil
	p.mu.Unlock()
}

// Playing reports whether the cursor is inside a clip.
func (p *Player) Playing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playingLocked()
}

func (p *Player) playingLocked() bool {
	return p.clip != nil && p.now().Sub(p.started) < p.clip.Duration()
}

// Magnitudes analyzes the window of samples ending at the current cursor
// position. Returns nil when nothing is playing.
func (p *Player) Magnitudes() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.playingLocked() {
		return nil
	}

	elapsed := p.now().Sub(p.started).Seconds()
	cursor := int(elapsed * float64(p.clip.SampleRate))
	if cursor > len(p.clip.Samples) {
		cursor = len(p.clip.Samples)
	}
	start := cursor - analysisWindow
	if start < 0 {
		start = 0
	}

	return Spectrum(p.clip.Samples[start:cursor], p.clip.SampleRate)
}
