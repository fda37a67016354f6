package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func sineClip(freq float64, sampleRate int, dur time.Duration) *Clip {
	n := int(float64(sampleRate) * dur.Seconds())
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(30000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return &Clip{Samples: samples, SampleRate: sampleRate}
}

func wavBytes(samples []int16, sampleRate int, channels int) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, 44+dataLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(channels*2))
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(s))
	}
	return buf
}

func TestDecodeWAVMono(t *testing.T) {
	samples := []int16{0, 100, -100, 32000}
	clip, err := DecodeWAV(wavBytes(samples, 16000, 1))
	require.NoError(t, err)
	require.Equal(t, 16000, clip.SampleRate)
	require.Equal(t, samples, clip.Samples)
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	// Interleaved L/R pairs average per frame.
	clip, err := DecodeWAV(wavBytes([]int16{100, 300, -200, 0}, 22050, 2))
	require.NoError(t, err)
	require.Equal(t, []int16{200, -100}, clip.Samples)
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	_, err := DecodeWAV([]byte("not a wav at all"))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSpectrumPeaksAtSineFrequency(t *testing.T) {
	const sampleRate = 16000
	// Bin centers are (k+0.5)*nyquist/bins; pick bin 10's center.
	freq := 10.5 * (sampleRate / 2.0) / SpectrumBins
	clip := sineClip(freq, sampleRate, 200*time.Millisecond)

	mags := Spectrum(clip.Samples[:analysisWindow], sampleRate)
	require.Len(t, mags, SpectrumBins)

	peak := 0
	for i, m := range mags {
		if m > mags[peak] {
			peak = i
		}
	}
	require.InDelta(t, 10, peak, 1)
	require.Greater(t, mags[peak], byte(100))
	require.Less(t, mags[100], byte(20), "far bins stay quiet")
}

func TestSpectrumSilence(t *testing.T) {
	mags := Spectrum(make([]int16, analysisWindow), 16000)
	for _, m := range mags {
		require.Equal(t, byte(0), m)
	}
}

func TestPlayerLifecycle(t *testing.T) {
	p := NewPlayer(zerolog.Nop())
	require.False(t, p.Playing())
	require.Nil(t, p.Magnitudes())

	now := time.Now()
	p.now = func() time.Time { return now }

	clip := sineClip(440, 16000, 500*time.Millisecond)
	require.NoError(t, p.Play(clip))
	require.True(t, p.Playing())

	now = now.Add(200 * time.Millisecond)
	require.True(t, p.Playing())
	require.NotNil(t, p.Magnitudes())

	now = now.Add(400 * time.Millisecond)
	require.False(t, p.Playing(), "clock past clip duration")
	require.Nil(t, p.Magnitudes())
}

func TestPlayerRejectsEmptyClip(t *testing.T) {
	p := NewPlayer(zerolog.Nop())
	require.ErrorIs(t, p.Play(nil), ErrEmptyClip)
	require.ErrorIs(t, p.Play(&Clip{SampleRate: 16000}), ErrEmptyClip)
}

func TestSilenceTap(t *testing.T) {
	var tap Tap = Silence{}
	require.False(t, tap.Playing())
	require.Nil(t, tap.Magnitudes())
}
